package webtoken

import (
	"errors"

	"github.com/goccy/go-json"
)

var (
	// ErrInvalidKeyMaterial is returned by constructors when the secret is
	// absent or cannot be used by the underlying primitive.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
	// ErrUnsupportedEncoding is returned when a text secret is not valid UTF-8.
	ErrUnsupportedEncoding = errors.New("secret is not valid UTF-8")
	// ErrSignatureGeneration wraps every Sign failure.
	ErrSignatureGeneration = errors.New("signature generation failed")
	// ErrSignatureVerification is returned by Verify for a mismatch and for
	// any failure while recomputing the signature.
	ErrSignatureVerification = errors.New("signature verification failed")
)

// Algorithm defines the interface for token signing algorithms
type Algorithm interface {
	// Name returns the algorithm name for the token header (e.g., "HS256", "none")
	Name() string
	// Description returns the primitive identifier (e.g., "HmacSHA256")
	Description() string
	// String returns the description
	String() string
	// Sign creates a signature for the given content
	Sign(content []byte) ([]byte, error)
	// Verify checks if the signature is valid for the given content
	Verify(content []byte, signature []byte) error
	// Header returns the token header as JSON bytes
	Header() []byte
}

func encodeHeader(name string) []byte {
	header, _ := json.Marshal(map[string]string{"alg": name, "typ": "JWT"})
	return header
}

// Standard algorithm names carried in the "alg" header.
const (
	NameHS256 = "HS256"
	NameHS384 = "HS384"
	NameHS512 = "HS512"
	NameNone  = "none"
)

// isNil reports whether a is nil, including a nil *HMACAlgorithm or
// *NoneAlgorithm held in a non-nil interface (a failed constructor's result).
func isNil(a Algorithm) bool {
	switch alg := a.(type) {
	case nil:
		return true
	case *HMACAlgorithm:
		return alg == nil
	case *NoneAlgorithm:
		return alg == nil
	default:
		return false
	}
}
