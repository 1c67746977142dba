// Package pqctest provides insecure, fast schemes with known sizes for
// testing code built on package pqc, including deliberately broken variants.
package pqctest

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/rng"
)

// Algorithm names.
const (
	KEMName       = "TEST-KEM"
	SignatureName = "TEST-SIG"
)

// Sizes of the test algorithms.
const (
	KEMPublicKeySize    = 32
	KEMSecretKeySize    = 32
	KEMCiphertextSize   = 32
	KEMSharedSecretSize = 16

	SigPublicKeySize = 32
	SigSecretKeySize = 32
	SigSize          = sha256.Size
)

// Stages that can be made to fail.
const (
	StageKeypair     = "keypair"
	StageEncapsulate = "encapsulate"
	StageDecapsulate = "decapsulate"
	StageSign        = "sign"
)

// ErrInjected is returned by stages configured to fail.
var ErrInjected = errors.New("injected failure")

var publicKeyMask = [32]byte{
	0x36, 0x5c, 0x36, 0x5c, 0x36, 0x5c, 0x36, 0x5c,
	0x36, 0x5c, 0x36, 0x5c, 0x36, 0x5c, 0x36, 0x5c,
	0x36, 0x5c, 0x36, 0x5c, 0x36, 0x5c, 0x36, 0x5c,
	0x36, 0x5c, 0x36, 0x5c, 0x36, 0x5c, 0x36, 0x5c,
}

// the public key is the secret key masked, so anyone can unmask it
func mask(dst, src []byte) {
	for i := range dst {
		dst[i] = src[i] ^ publicKeyMask[i%len(publicKeyMask)]
	}
}

type testKEM struct {
	name     string
	pkSize   int
	mismatch bool
	failAt   string
}

// NewKEM returns TEST-KEM: 32 byte keys and ciphertext, 16 byte shared secret.
func NewKEM() pqc.KEMScheme {
	return &testKEM{name: KEMName, pkSize: KEMPublicKeySize}
}

// NewMismatchingKEM returns a KEM whose decapsulation yields a different secret.
func NewMismatchingKEM() pqc.KEMScheme {
	return &testKEM{name: KEMName + "-MISMATCH", pkSize: KEMPublicKeySize, mismatch: true}
}

// NewFailingKEM returns a KEM that fails at the given stage.
func NewFailingKEM(stage string) pqc.KEMScheme {
	return &testKEM{name: KEMName + "-FAIL-" + stage, pkSize: KEMPublicKeySize, failAt: stage}
}

// NewOversizedKEM returns a KEM advertising a public key of the given size.
// Its operations must never be reached.
func NewOversizedKEM(publicKeySize int) pqc.KEMScheme {
	return &testKEM{name: KEMName + "-OVERSIZED", pkSize: publicKeySize}
}

func (k *testKEM) Name() string          { return k.name }
func (k *testKEM) PublicKeySize() int    { return k.pkSize }
func (k *testKEM) SecretKeySize() int    { return KEMSecretKeySize }
func (k *testKEM) CiphertextSize() int   { return KEMCiphertextSize }
func (k *testKEM) SharedSecretSize() int { return KEMSharedSecretSize }

func (k *testKEM) fail(stage string) error {
	if k.failAt == stage {
		return fmt.Errorf("%s %s: %w", k.name, stage, ErrInjected)
	}
	return nil
}

func (k *testKEM) Keypair(rand pqc.Randomness, pk, sk []byte) error {
	if err := k.fail(StageKeypair); err != nil {
		return err
	}
	if len(pk) != KEMPublicKeySize {
		return fmt.Errorf("%w: oversized test kem cannot generate keys", pqc.ErrInvalidBuffer)
	}
	if err := rand.Randombytes(sk); err != nil {
		return err
	}
	mask(pk, sk)
	return nil
}

func (k *testKEM) Encapsulate(rand pqc.Randomness, ct, ss, pk []byte) error {
	if err := k.fail(StageEncapsulate); err != nil {
		return err
	}
	if err := rand.Randombytes(ct); err != nil {
		return err
	}
	// ct = ss ^ sk || noise
	key := make([]byte, KEMSecretKeySize)
	defer pqc.Wipe(key)
	mask(key, pk)
	for i := range ss {
		ss[i] = ct[i] ^ key[i]
	}
	return nil
}

func (k *testKEM) Decapsulate(ss, ct, sk []byte) error {
	if err := k.fail(StageDecapsulate); err != nil {
		return err
	}
	for i := range ss {
		ss[i] = ct[i] ^ sk[i]
	}
	if k.mismatch {
		ss[0] ^= 0x01
	}
	return nil
}

type verifyMode uint8

const (
	verifyCorrect verifyMode = iota
	verifyAcceptAll
	verifyRejectAll
)

type testSignature struct {
	name   string
	verify verifyMode
	failAt string
	maxSig int
}

// NewSignature returns TEST-SIG: 32 byte keys, 32 byte signatures.
func NewSignature() pqc.SignatureScheme {
	return &testSignature{name: SignatureName}
}

// NewAcceptAllSignature returns a signature scheme accepting any signature.
func NewAcceptAllSignature() pqc.SignatureScheme {
	return &testSignature{name: SignatureName + "-ACCEPT-ALL", verify: verifyAcceptAll}
}

// NewRejectAllSignature returns a signature scheme rejecting every signature.
func NewRejectAllSignature() pqc.SignatureScheme {
	return &testSignature{name: SignatureName + "-REJECT-ALL", verify: verifyRejectAll}
}

// NewFailingSignature returns a signature scheme that fails at the given stage.
func NewFailingSignature(stage string) pqc.SignatureScheme {
	return &testSignature{name: SignatureName + "-FAIL-" + stage, failAt: stage}
}

// NewPaddedSignature returns a signature scheme advertising a maximum
// signature size of maxSize while producing SigSize byte signatures.
// maxSize must not be smaller than SigSize.
func NewPaddedSignature(maxSize int) pqc.SignatureScheme {
	return &testSignature{name: SignatureName + "-PADDED", maxSig: maxSize}
}

func (s *testSignature) Name() string          { return s.name }
func (s *testSignature) PublicKeySize() int    { return SigPublicKeySize }
func (s *testSignature) SecretKeySize() int    { return SigSecretKeySize }
func (s *testSignature) MaxSignatureSize() int {
	if s.maxSig > 0 {
		return s.maxSig
	}
	return SigSize
}

func (s *testSignature) Keypair(rand pqc.Randomness, pk, sk []byte) error {
	if s.failAt == StageKeypair {
		return fmt.Errorf("%s %s: %w", s.name, StageKeypair, ErrInjected)
	}
	if err := rand.Randombytes(sk); err != nil {
		return err
	}
	mask(pk, sk)
	return nil
}

func mac(sk, msg []byte) []byte {
	h := sha256.New()
	_, _ = h.Write(sk)
	_, _ = h.Write(msg)
	return h.Sum(nil)
}

func (s *testSignature) Sign(_ pqc.Randomness, sig, msg, sk []byte) (int, error) {
	if s.failAt == StageSign {
		return 0, fmt.Errorf("%s %s: %w", s.name, StageSign, ErrInjected)
	}
	return copy(sig, mac(sk, msg)), nil
}

func (s *testSignature) Verify(msg, sig, pk []byte) error {
	switch s.verify {
	case verifyAcceptAll:
		return nil
	case verifyRejectAll:
		return pqc.ErrVerificationFailed
	}

	sk := make([]byte, SigSecretKeySize)
	defer pqc.Wipe(sk)
	mask(sk, pk)

	if subtle.ConstantTimeCompare(mac(sk, msg), sig) != 1 {
		return pqc.ErrVerificationFailed
	}
	return nil
}

// NewRandomness returns a registered adapter over a deterministic source.
func NewRandomness(seed []byte) *rng.Adapter {
	a := rng.NewAdapter(rng.NewSeededSource(seed))
	if err := a.Initialize(); err != nil {
		panic(err)
	}
	return a
}

// NewLibrary returns a library holding only the test algorithms, including
// the broken variants, drawing from a deterministic source.
func NewLibrary(seed []byte) *pqc.Library {
	lib, err := pqc.New(
		NewRandomness(seed),
		pqc.WithoutDefaults(),
		pqc.WithKEMs(
			NewKEM(),
			NewMismatchingKEM(),
			NewFailingKEM(StageKeypair),
			NewFailingKEM(StageEncapsulate),
			NewFailingKEM(StageDecapsulate),
		),
		pqc.WithSignatures(
			NewSignature(),
			NewAcceptAllSignature(),
			NewRejectAllSignature(),
			NewFailingSignature(StageKeypair),
			NewFailingSignature(StageSign),
		),
	)
	if err != nil {
		panic(err)
	}
	return lib
}
