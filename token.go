package webtoken

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/base64x"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token has expired")
	ErrTokenNotYetValid     = errors.New("token not yet valid")
	ErrInvalidIssuer        = errors.New("invalid issuer")
	ErrInvalidSignature     = errors.New("invalid token signature")
	ErrInvalidClaims        = errors.New("invalid claims structure")
	ErrEmptySubject         = errors.New("subject cannot be empty")
	ErrInvalidDuration      = errors.New("duration must be positive")
	ErrUnsupportedAlgorithm = errors.New("unsupported token algorithm")
	ErrNilAlgorithm         = errors.New("algorithm cannot be nil")
)

// StandardClaims represents standard token claims that are always present
type StandardClaims struct {
	Subject   string `json:"sub,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	NotBefore int64  `json:"nbf,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	JwtID     string `json:"jti,omitempty"`
}

// ClaimsValidator interface for custom claims validation
type ClaimsValidator interface {
	Validate() error
}

type tokenHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
}

type combinedClaims[T any] struct {
	StandardClaims
	Custom T `json:",inline"`
}

// TokenSigner issues signed tokens with a single algorithm
type TokenSigner[T any] struct {
	algorithm Algorithm
	bufPool   sync.Pool
	issuer    string
}

// TokenVerifier validates tokens against the algorithms it was built with.
// The "alg" header only selects among those; it never adds one.
type TokenVerifier[T any] struct {
	algorithms    map[string]Algorithm
	allowUnsigned bool
	issuer        string
}

// VerifierOption configures a TokenVerifier
type VerifierOption func(*verifierOptions)

type verifierOptions struct {
	algorithms    []Algorithm
	allowUnsigned bool
}

// WithAlgorithms accepts tokens signed with any of algs in addition to the
// primary algorithm.
func WithAlgorithms(algs ...Algorithm) VerifierOption {
	return func(o *verifierOptions) {
		o.algorithms = append(o.algorithms, algs...)
	}
}

// WithUnsignedTokens accepts tokens with alg "none" and an empty signature.
func WithUnsignedTokens() VerifierOption {
	return func(o *verifierOptions) {
		o.allowUnsigned = true
	}
}

func newBuf() interface{} {
	return make([]byte, 0, 512)
}

// NewTokenSigner creates a new token signer
func NewTokenSigner[T any](algorithm Algorithm, issuer string) (*TokenSigner[T], error) {
	if isNil(algorithm) {
		return nil, ErrNilAlgorithm
	}

	return &TokenSigner[T]{
		algorithm: algorithm,
		issuer:    issuer,
		bufPool:   sync.Pool{New: newBuf},
	}, nil
}

// NewTokenVerifier creates a new token verifier
func NewTokenVerifier[T any](algorithm Algorithm, issuer string, opts ...VerifierOption) (*TokenVerifier[T], error) {
	if isNil(algorithm) {
		return nil, ErrNilAlgorithm
	}

	var o verifierOptions
	for _, opt := range opts {
		opt(&o)
	}

	verifier := &TokenVerifier[T]{
		algorithms:    map[string]Algorithm{algorithm.Name(): algorithm},
		allowUnsigned: o.allowUnsigned,
		issuer:        issuer,
	}
	for _, alg := range o.algorithms {
		if isNil(alg) {
			return nil, ErrNilAlgorithm
		}
		if _, ok := verifier.algorithms[alg.Name()]; ok {
			continue
		}
		verifier.algorithms[alg.Name()] = alg
	}

	return verifier, nil
}

// GenerateToken creates a new token with custom claims
func (s *TokenSigner[T]) GenerateToken(subject string, duration time.Duration, customClaims T) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrEmptySubject
	}
	if duration <= 0 {
		return "", ErrInvalidDuration
	}

	if validator, ok := any(customClaims).(ClaimsValidator); ok {
		if err := validator.Validate(); err != nil {
			return "", err
		}
	}

	now := time.Now()
	claims := combinedClaims[T]{
		StandardClaims: StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
			Issuer:    s.issuer,
			JwtID:     uuid.NewString(),
		},
		Custom: customClaims,
	}

	headerB64 := s.base64EncodeWithPool(s.algorithm.Header())

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	claimsB64 := s.base64EncodeWithPool(claimsJSON)

	var builder strings.Builder
	builder.Grow(len(headerB64) + 1 + len(claimsB64) + 1 + 88)

	builder.WriteString(headerB64)
	builder.WriteByte('.')
	builder.WriteString(claimsB64)

	signature, err := s.algorithm.Sign([]byte(builder.String()))
	if err != nil {
		return "", err
	}

	builder.WriteByte('.')
	builder.WriteString(s.base64EncodeWithPool(signature))

	return builder.String(), nil
}

// VerifyToken validates a token and returns the claims
func (v *TokenVerifier[T]) VerifyToken(tokenString string) (*StandardClaims, *T, error) {
	claims, err := v.verifyToken(tokenString)
	if err != nil {
		log.Debugf("token rejected: %v", err)
		return nil, nil, err
	}
	return &claims.StandardClaims, &claims.Custom, nil
}

func (v *TokenVerifier[T]) verifyToken(tokenString string) (*combinedClaims[T], error) {
	payload, headerPart, claimsPart, signaturePart, err := parseTokenParts(tokenString)
	if err != nil {
		return nil, err
	}

	header, err := v.parseHeader(headerPart)
	if err != nil {
		return nil, err
	}

	if err := v.verifySignature(header.Alg, payload, signaturePart); err != nil {
		return nil, err
	}

	claims, err := v.parseClaims(claimsPart)
	if err != nil {
		return nil, err
	}

	if err := v.validateClaims(claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// parseTokenParts splits a token into its segments. The signature segment
// may be empty (unsigned tokens); the others may not.
func parseTokenParts(tokenString string) (payload, headerPart, claimsPart, signaturePart string, err error) {
	firstDot := strings.IndexByte(tokenString, '.')
	if firstDot <= 0 {
		return "", "", "", "", ErrInvalidToken
	}

	secondDot := strings.IndexByte(tokenString[firstDot+1:], '.')
	if secondDot <= 0 {
		return "", "", "", "", ErrInvalidToken
	}
	secondDot += firstDot + 1

	if strings.IndexByte(tokenString[secondDot+1:], '.') != -1 {
		return "", "", "", "", ErrInvalidToken
	}

	payload = tokenString[:secondDot]
	headerPart = tokenString[:firstDot]
	claimsPart = tokenString[firstDot+1 : secondDot]
	signaturePart = tokenString[secondDot+1:]

	return payload, headerPart, claimsPart, signaturePart, nil
}

func (v *TokenVerifier[T]) parseHeader(headerPart string) (*tokenHeader, error) {
	headerData, err := base64Decode(headerPart)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var header tokenHeader
	if err := json.Unmarshal(headerData, &header); err != nil || header.Alg == "" {
		return nil, ErrInvalidToken
	}
	return &header, nil
}

// verifySignature dispatches on the claimed algorithm name. Unsigned tokens
// never reach NoneAlgorithm.Verify; they pass only when explicitly allowed.
func (v *TokenVerifier[T]) verifySignature(alg, payload, signaturePart string) error {
	if alg == NameNone {
		if !v.allowUnsigned {
			return ErrUnsupportedAlgorithm
		}
		if signaturePart != "" {
			return ErrInvalidSignature
		}
		return nil
	}

	algorithm, ok := v.algorithms[alg]
	if !ok {
		return ErrUnsupportedAlgorithm
	}

	if signaturePart == "" {
		return ErrInvalidSignature
	}
	signatureBytes, err := base64Decode(signaturePart)
	if err != nil {
		return ErrInvalidToken
	}

	if err := algorithm.Verify([]byte(payload), signatureBytes); err != nil {
		return ErrInvalidSignature
	}

	return nil
}

func (v *TokenVerifier[T]) parseClaims(claimsPart string) (*combinedClaims[T], error) {
	claimsData, err := base64Decode(claimsPart)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims combinedClaims[T]
	if err := json.Unmarshal(claimsData, &claims); err != nil {
		return nil, ErrInvalidClaims
	}

	return &claims, nil
}

// validateClaims validates expiration, not-before, issuer and custom claims
func (v *TokenVerifier[T]) validateClaims(claims *combinedClaims[T]) error {
	now := time.Now().Unix()

	if now > claims.ExpiresAt {
		return ErrExpiredToken
	}

	if claims.NotBefore > 0 && now < claims.NotBefore {
		return ErrTokenNotYetValid
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return ErrInvalidIssuer
	}

	if validator, ok := any(claims.Custom).(ClaimsValidator); ok {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// base64EncodeWithPool encodes data as unpadded base64url, reusing a pooled
// scratch buffer for the encoded bytes.
func (s *TokenSigner[T]) base64EncodeWithPool(data []byte) string {
	buf := s.bufPool.Get().([]byte)
	defer s.bufPool.Put(buf[:0])

	n := base64x.RawURLEncoding.EncodedLen(len(data))
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]

	base64x.RawURLEncoding.Encode(buf, data)
	return string(buf)
}

// base64Decode decodes an unpadded base64url segment into a new slice.
func base64Decode(encoded string) ([]byte, error) {
	decoded := make([]byte, base64x.RawURLEncoding.DecodedLen(len(encoded)))
	n, err := base64x.RawURLEncoding.Decode(decoded, []byte(encoded))
	if err != nil {
		return nil, err
	}
	return decoded[:n], nil
}
