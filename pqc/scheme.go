package pqc

// Randomness is the provider schemes draw random bytes from.
type Randomness interface {
	Randombytes(b []byte) error
}

// KEMScheme is a key encapsulation mechanism working on caller buffers.
// Buffers passed to a scheme always have exactly the advertised size.
type KEMScheme interface {
	Name() string
	PublicKeySize() int
	SecretKeySize() int
	CiphertextSize() int
	SharedSecretSize() int

	Keypair(rand Randomness, pk, sk []byte) error
	Encapsulate(rand Randomness, ct, ss, pk []byte) error
	Decapsulate(ss, ct, sk []byte) error
}

// SignatureScheme is a signature scheme working on caller buffers.
type SignatureScheme interface {
	Name() string
	PublicKeySize() int
	SecretKeySize() int
	MaxSignatureSize() int

	Keypair(rand Randomness, pk, sk []byte) error
	// Sign writes the signature to sig, which has MaxSignatureSize bytes,
	// and returns the actual signature length.
	Sign(rand Randomness, sig, msg, sk []byte) (int, error)
	// Verify returns ErrVerificationFailed if the signature is invalid.
	Verify(msg, sig, pk []byte) error
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	clear(b)
}
