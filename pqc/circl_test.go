package pqc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/pqc/pqctest"
)

func TestCirclKEMRoundTrip(t *testing.T) {
	t.Parallel()

	lib, err := pqc.New(pqctest.NewRandomness([]byte("circl kem")))
	require.NoError(t, err)

	for _, name := range lib.KEMAlgorithms() {
		k, err := lib.NewKEM(name)
		require.NoError(t, err, name)

		pk := make([]byte, k.PublicKeySize())
		sk := make([]byte, k.SecretKeySize())
		ct := make([]byte, k.CiphertextSize())
		ssA := make([]byte, k.SharedSecretSize())
		ssB := make([]byte, k.SharedSecretSize())

		require.NoError(t, k.Keypair(pk, sk), name)
		require.NoError(t, k.Encapsulate(ct, ssA, pk), name)
		require.NoError(t, k.Decapsulate(ssB, ct, sk), name)
		assert.Equal(t, ssA, ssB, name)
	}
}

func TestCirclKEMSizes(t *testing.T) {
	t.Parallel()

	lib, err := pqc.New(pqctest.NewRandomness([]byte("sizes")))
	require.NoError(t, err)

	k, err := lib.NewKEM("ML-KEM-768")
	require.NoError(t, err)
	assert.Equal(t, 1184, k.PublicKeySize())
	assert.Equal(t, 2400, k.SecretKeySize())
	assert.Equal(t, 1088, k.CiphertextSize())
	assert.Equal(t, 32, k.SharedSecretSize())
}

func TestCirclSignatureRoundTrip(t *testing.T) {
	t.Parallel()

	lib, err := pqc.New(pqctest.NewRandomness([]byte("circl sig")))
	require.NoError(t, err)

	msg := []byte("circl backend sign/verify test")
	for _, name := range lib.SignatureAlgorithms() {
		s, err := lib.NewSignature(name)
		require.NoError(t, err, name)

		pk := make([]byte, s.PublicKeySize())
		sk := make([]byte, s.SecretKeySize())
		sig := make([]byte, s.MaxSignatureSize())

		require.NoError(t, s.Keypair(pk, sk), name)
		n, err := s.Sign(sig, msg, sk)
		require.NoError(t, err, name)
		require.NoError(t, s.Verify(msg, sig[:n], pk), name)

		sig[0] ^= 0xFF
		assert.ErrorIs(t, s.Verify(msg, sig[:n], pk), pqc.ErrVerificationFailed, name)
	}
}

func TestCirclKeypairDeterministic(t *testing.T) {
	t.Parallel()

	keypair := func() []byte {
		lib, err := pqc.New(pqctest.NewRandomness([]byte("same seed")))
		require.NoError(t, err)
		s, err := lib.NewSignature("ML-DSA-65")
		require.NoError(t, err)
		pk := make([]byte, s.PublicKeySize())
		require.NoError(t, s.Keypair(pk, make([]byte, s.SecretKeySize())))
		return pk
	}
	assert.Equal(t, keypair(), keypair())
}
