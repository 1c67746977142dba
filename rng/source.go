package rng

// EntropySource fills buffers with cryptographically secure random bytes.
// Implementations must be safe for concurrent use and are assumed to be
// infallible: a source that cannot deliver must panic instead of returning
// partially filled buffers.
type EntropySource interface {
	Fill(b []byte)
}

// SourceFunc adapts a function to the EntropySource interface.
type SourceFunc func(b []byte)

// Fill calls f(b).
func (f SourceFunc) Fill(b []byte) {
	f(b)
}
