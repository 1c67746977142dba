package pqc

import (
	"fmt"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/kyber/kyber768"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign"
	dilithium3 "github.com/cloudflare/circl/sign/dilithium/mode3"
	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
)

// BackendModule is the module path of the default backend.
const BackendModule = "github.com/cloudflare/circl"

func defaultKEMs() []KEMScheme {
	return []KEMScheme{
		NewCirclKEM(mlkem512.Scheme()),
		NewCirclKEM(mlkem768.Scheme()),
		NewCirclKEM(mlkem1024.Scheme()),
		NewCirclKEM(kyber768.Scheme()),
	}
}

func defaultSignatures() []SignatureScheme {
	return []SignatureScheme{
		NewCirclSignature(mldsa44.Scheme()),
		NewCirclSignature(mldsa65.Scheme()),
		NewCirclSignature(mldsa87.Scheme()),
		NewCirclSignature(dilithium3.Scheme()),
	}
}

// drawSeed fills a new seed of the given size from rand.
func drawSeed(rand Randomness, size int) ([]byte, error) {
	seed := make([]byte, size)
	if err := rand.Randombytes(seed); err != nil {
		return nil, fmt.Errorf("failed to draw seed: %w", err)
	}
	return seed, nil
}

type marshaler interface {
	MarshalBinary() ([]byte, error)
}

// marshalInto marshals key into dst, which must have the exact size.
func marshalInto(dst []byte, key marshaler) error {
	data, err := key.MarshalBinary()
	if err != nil {
		return err
	}
	defer Wipe(data)

	if len(data) != len(dst) {
		return fmt.Errorf("%w: key marshals to %d bytes, expected %d", ErrInvalidBuffer, len(data), len(dst))
	}
	copy(dst, data)
	return nil
}

// circlKEM adapts a circl KEM scheme. Keys and encapsulations are derived
// deterministically from seeds drawn through the library's randomness.
type circlKEM struct {
	scheme kem.Scheme
}

// NewCirclKEM wraps a circl KEM scheme.
func NewCirclKEM(scheme kem.Scheme) KEMScheme {
	return &circlKEM{scheme: scheme}
}

func (c *circlKEM) Name() string          { return c.scheme.Name() }
func (c *circlKEM) PublicKeySize() int    { return c.scheme.PublicKeySize() }
func (c *circlKEM) SecretKeySize() int    { return c.scheme.PrivateKeySize() }
func (c *circlKEM) CiphertextSize() int   { return c.scheme.CiphertextSize() }
func (c *circlKEM) SharedSecretSize() int { return c.scheme.SharedKeySize() }

func (c *circlKEM) Keypair(rand Randomness, pk, sk []byte) error {
	seed, err := drawSeed(rand, c.scheme.SeedSize())
	if err != nil {
		return err
	}
	defer Wipe(seed)

	pub, priv := c.scheme.DeriveKeyPair(seed)
	if err := marshalInto(pk, pub); err != nil {
		return fmt.Errorf("%s: public key: %w", c.Name(), err)
	}
	if err := marshalInto(sk, priv); err != nil {
		return fmt.Errorf("%s: secret key: %w", c.Name(), err)
	}
	return nil
}

func (c *circlKEM) Encapsulate(rand Randomness, ct, ss, pk []byte) error {
	pub, err := c.scheme.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return fmt.Errorf("%s: invalid public key: %w", c.Name(), err)
	}

	seed, err := drawSeed(rand, c.scheme.EncapsulationSeedSize())
	if err != nil {
		return err
	}
	defer Wipe(seed)

	ciphertext, secret, err := c.scheme.EncapsulateDeterministically(pub, seed)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name(), err)
	}
	defer Wipe(secret)

	copy(ct, ciphertext)
	copy(ss, secret)
	return nil
}

func (c *circlKEM) Decapsulate(ss, ct, sk []byte) error {
	priv, err := c.scheme.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return fmt.Errorf("%s: invalid secret key: %w", c.Name(), err)
	}

	secret, err := c.scheme.Decapsulate(priv, ct)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name(), err)
	}
	defer Wipe(secret)

	copy(ss, secret)
	return nil
}

// circlSignature adapts a circl signature scheme. Keys are derived from seeds
// drawn through the library's randomness; signing is deterministic.
type circlSignature struct {
	scheme sign.Scheme
}

// NewCirclSignature wraps a circl signature scheme.
func NewCirclSignature(scheme sign.Scheme) SignatureScheme {
	return &circlSignature{scheme: scheme}
}

func (c *circlSignature) Name() string          { return c.scheme.Name() }
func (c *circlSignature) PublicKeySize() int    { return c.scheme.PublicKeySize() }
func (c *circlSignature) SecretKeySize() int    { return c.scheme.PrivateKeySize() }
func (c *circlSignature) MaxSignatureSize() int { return c.scheme.SignatureSize() }

func (c *circlSignature) Keypair(rand Randomness, pk, sk []byte) error {
	seed, err := drawSeed(rand, c.scheme.SeedSize())
	if err != nil {
		return err
	}
	defer Wipe(seed)

	pub, priv := c.scheme.DeriveKey(seed)
	if err := marshalInto(pk, pub); err != nil {
		return fmt.Errorf("%s: public key: %w", c.Name(), err)
	}
	if err := marshalInto(sk, priv); err != nil {
		return fmt.Errorf("%s: secret key: %w", c.Name(), err)
	}
	return nil
}

func (c *circlSignature) Sign(_ Randomness, sig, msg, sk []byte) (n int, err error) {
	priv, err := c.scheme.UnmarshalBinaryPrivateKey(sk)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid secret key: %w", c.Name(), err)
	}

	// circl panics on invalid signing options
	defer func() {
		if x := recover(); x != nil {
			n = 0
			err = fmt.Errorf("%s: signing panicked: %v", c.Name(), x)
		}
	}()

	return copy(sig, c.scheme.Sign(priv, msg, nil)), nil
}

func (c *circlSignature) Verify(msg, sig, pk []byte) error {
	pub, err := c.scheme.UnmarshalBinaryPublicKey(pk)
	if err != nil {
		return fmt.Errorf("%s: invalid public key: %w", c.Name(), err)
	}
	if !c.scheme.Verify(pub, msg, sig, nil) {
		return ErrVerificationFailed
	}
	return nil
}
