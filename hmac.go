package webtoken

import (
	"crypto"
	"crypto/hmac"
	_ "crypto/sha256" // registers crypto.SHA256
	_ "crypto/sha512" // registers crypto.SHA384, crypto.SHA512
	"fmt"
	"sync/atomic"
	"unicode/utf8"
)

// HMACAlgorithm implements HMAC-based token signing
type HMACAlgorithm struct {
	name        string
	description string
	hash        crypto.Hash
	secret      []byte
	header      []byte
	destroyed   atomic.Bool
}

// NewHS256 creates a new HMAC-SHA256 algorithm from a text secret
func NewHS256(secret string) (*HMACAlgorithm, error) {
	return newHMACFromText(NameHS256, "HmacSHA256", crypto.SHA256, secret)
}

// NewHS384 creates a new HMAC-SHA384 algorithm from a text secret
func NewHS384(secret string) (*HMACAlgorithm, error) {
	return newHMACFromText(NameHS384, "HmacSHA384", crypto.SHA384, secret)
}

// NewHS512 creates a new HMAC-SHA512 algorithm from a text secret
func NewHS512(secret string) (*HMACAlgorithm, error) {
	return newHMACFromText(NameHS512, "HmacSHA512", crypto.SHA512, secret)
}

// NewHS256FromBytes creates a new HMAC-SHA256 algorithm from raw key bytes
func NewHS256FromBytes(secret []byte) (*HMACAlgorithm, error) {
	return newHMAC(NameHS256, "HmacSHA256", crypto.SHA256, secret)
}

// NewHS384FromBytes creates a new HMAC-SHA384 algorithm from raw key bytes
func NewHS384FromBytes(secret []byte) (*HMACAlgorithm, error) {
	return newHMAC(NameHS384, "HmacSHA384", crypto.SHA384, secret)
}

// NewHS512FromBytes creates a new HMAC-SHA512 algorithm from raw key bytes
func NewHS512FromBytes(secret []byte) (*HMACAlgorithm, error) {
	return newHMAC(NameHS512, "HmacSHA512", crypto.SHA512, secret)
}

func newHMACFromText(name, description string, h crypto.Hash, secret string) (*HMACAlgorithm, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: %s secret is empty", ErrInvalidKeyMaterial, name)
	}
	if !utf8.ValidString(secret) {
		return nil, fmt.Errorf("%w: %s secret", ErrUnsupportedEncoding, name)
	}
	return newHMAC(name, description, h, []byte(secret))
}

// newHMAC copies secret; the caller keeps ownership of its slice.
func newHMAC(name, description string, h crypto.Hash, secret []byte) (*HMACAlgorithm, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: %s secret is empty", ErrInvalidKeyMaterial, name)
	}
	if !h.Available() {
		return nil, fmt.Errorf("%w: %s is not available", ErrInvalidKeyMaterial, description)
	}

	return &HMACAlgorithm{
		name:        name,
		description: description,
		hash:        h,
		secret:      append([]byte(nil), secret...),
		header:      encodeHeader(name),
	}, nil
}

// Name returns the algorithm name
func (h *HMACAlgorithm) Name() string {
	return h.name
}

// Description returns the primitive identifier, e.g. "HmacSHA256"
func (h *HMACAlgorithm) Description() string {
	return h.description
}

func (h *HMACAlgorithm) String() string {
	return h.description
}

// Header returns the algorithm header
func (h *HMACAlgorithm) Header() []byte {
	return h.header
}

// Size returns the signature length in bytes
func (h *HMACAlgorithm) Size() int {
	return h.hash.Size()
}

// Sign signs the content using HMAC
func (h *HMACAlgorithm) Sign(content []byte) ([]byte, error) {
	sum, err := h.sum(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSignatureGeneration, h.name, err)
	}
	return sum, nil
}

// Verify verifies the signature using HMAC. Every failure, including a
// failure to compute the expected value, is reported as
// ErrSignatureVerification without further detail.
func (h *HMACAlgorithm) Verify(content, signature []byte) error {
	expected, err := h.sum(content)
	if err != nil {
		return ErrSignatureVerification
	}

	// hmac.Equal only returns early on a length mismatch.
	if !hmac.Equal(signature, expected) {
		return ErrSignatureVerification
	}
	return nil
}

// Destroy zeroes the secret. The algorithm is unusable afterwards. It must
// not be called while Sign or Verify are running.
func (h *HMACAlgorithm) Destroy() {
	if h.destroyed.Swap(true) {
		return
	}
	clear(h.secret)
}

// sum builds a fresh MAC per call so instances can be shared.
func (h *HMACAlgorithm) sum(content []byte) ([]byte, error) {
	if h.destroyed.Load() {
		return nil, ErrInvalidKeyMaterial
	}

	mac := hmac.New(h.hash.New, h.secret)
	if _, err := mac.Write(content); err != nil {
		return nil, fmt.Errorf("cannot encode content: %w", err)
	}
	return mac.Sum(nil), nil
}
