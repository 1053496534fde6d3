package webtoken

// NoneAlgorithm represents an unsigned token. It signs with an empty
// signature and never verifies anything.
type NoneAlgorithm struct {
	header []byte
}

// NewNone creates the "none" algorithm
func NewNone() *NoneAlgorithm {
	return &NoneAlgorithm{header: encodeHeader(NameNone)}
}

// Name returns "none"
func (n *NoneAlgorithm) Name() string {
	return NameNone
}

// Description returns "none"
func (n *NoneAlgorithm) Description() string {
	return NameNone
}

func (n *NoneAlgorithm) String() string {
	return NameNone
}

// Header returns the algorithm header
func (n *NoneAlgorithm) Header() []byte {
	return n.header
}

// Sign returns an empty signature
func (n *NoneAlgorithm) Sign([]byte) ([]byte, error) {
	return []byte{}, nil
}

// Verify always fails, also for an empty signature. Accepting unsigned
// tokens is a decision for the caller (see WithUnsignedTokens).
func (n *NoneAlgorithm) Verify(_, _ []byte) error {
	return ErrSignatureVerification
}
