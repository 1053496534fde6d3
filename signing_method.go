package webtoken

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod adapts an Algorithm to golang-jwt. The key golang-jwt passes
// to Sign and Verify is ignored; the Algorithm already holds its secret.
type SigningMethod struct {
	algorithm Algorithm
}

var _ jwt.SigningMethod = (*SigningMethod)(nil)

// NewSigningMethod wraps algorithm for use with jwt.NewWithClaims and
// jwt.Parser.
func NewSigningMethod(algorithm Algorithm) (*SigningMethod, error) {
	if isNil(algorithm) {
		return nil, ErrNilAlgorithm
	}
	return &SigningMethod{algorithm: algorithm}, nil
}

// Alg returns the algorithm name
func (m *SigningMethod) Alg() string {
	return m.algorithm.Name()
}

// Sign signs signingString
func (m *SigningMethod) Sign(signingString string, _ interface{}) ([]byte, error) {
	return m.algorithm.Sign([]byte(signingString))
}

// Verify verifies sig over signingString
func (m *SigningMethod) Verify(signingString string, sig []byte, _ interface{}) error {
	if err := m.algorithm.Verify([]byte(signingString), sig); err != nil {
		return fmt.Errorf("%w: %w", jwt.ErrSignatureInvalid, err)
	}
	return nil
}
