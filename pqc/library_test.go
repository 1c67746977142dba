package pqc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/pqc/pqctest"
	"github.com/safing/pqbase/rng"
)

func TestNewRequiresRandomness(t *testing.T) {
	t.Parallel()

	_, err := pqc.New(nil)
	assert.ErrorIs(t, err, pqc.ErrNoRandomness)
}

func TestAlgorithmEnumeration(t *testing.T) {
	t.Parallel()

	lib, err := pqc.New(pqctest.NewRandomness([]byte("enum")))
	require.NoError(t, err)

	assert.Equal(t, []string{"ML-KEM-512", "ML-KEM-768", "ML-KEM-1024", "Kyber768"}, lib.KEMAlgorithms())
	assert.Equal(t, []string{"ML-DSA-44", "ML-DSA-65", "ML-DSA-87", "Dilithium3"}, lib.SignatureAlgorithms())
	assert.True(t, lib.IsKEMEnabled("ML-KEM-768"))
	assert.False(t, lib.IsKEMEnabled("ML-DSA-65"))
	assert.True(t, lib.IsSignatureEnabled("ML-DSA-65"))

	lib, err = pqc.New(
		pqctest.NewRandomness([]byte("enum")),
		pqc.WithKEMs(pqctest.NewKEM()),
		pqc.WithEnabled("ML-KEM-768", pqctest.KEMName, "ML-DSA-44", "NTRU-HPS-2048-509"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"ML-KEM-768", pqctest.KEMName}, lib.EnabledKEMs())
	assert.Equal(t, []string{"ML-DSA-44"}, lib.EnabledSignatures())
	assert.Equal(t, []string{"NTRU-HPS-2048-509"}, lib.UnknownAlgorithms())
	assert.False(t, lib.IsKEMEnabled("ML-KEM-512"))

	_, err = lib.NewKEM("ML-KEM-512")
	assert.ErrorIs(t, err, pqc.ErrUnknownAlgorithm)
	_, err = lib.NewKEM("does-not-exist")
	assert.ErrorIs(t, err, pqc.ErrUnknownAlgorithm)
	_, err = lib.NewSignature("ML-DSA-87")
	assert.ErrorIs(t, err, pqc.ErrUnknownAlgorithm)
}

func TestHandleBufferChecks(t *testing.T) {
	t.Parallel()

	lib := pqctest.NewLibrary([]byte("buffers"))
	k, err := lib.NewKEM(pqctest.KEMName)
	require.NoError(t, err)

	assert.ErrorIs(t, k.Keypair(make([]byte, 31), make([]byte, 32)), pqc.ErrInvalidBuffer)
	assert.ErrorIs(t, k.Encapsulate(make([]byte, 32), make([]byte, 32), make([]byte, 32)), pqc.ErrInvalidBuffer)
	assert.ErrorIs(t, k.Decapsulate(make([]byte, 16), nil, make([]byte, 32)), pqc.ErrInvalidBuffer)

	s, err := lib.NewSignature(pqctest.SignatureName)
	require.NoError(t, err)
	_, err = s.Sign(make([]byte, 10), []byte("msg"), make([]byte, 32))
	assert.ErrorIs(t, err, pqc.ErrInvalidBuffer)
	assert.ErrorIs(t, s.Verify([]byte("msg"), nil, make([]byte, 32)), pqc.ErrInvalidBuffer)
}

func TestUnregisteredRandomness(t *testing.T) {
	t.Parallel()

	adapter := rng.NewAdapter(rng.SystemSource{})
	lib, err := pqc.New(adapter)
	require.NoError(t, err)

	k, err := lib.NewKEM("ML-KEM-768")
	require.NoError(t, err)
	err = k.Keypair(make([]byte, k.PublicKeySize()), make([]byte, k.SecretKeySize()))
	assert.ErrorIs(t, err, rng.ErrNotRegistered)
}

func TestWipe(t *testing.T) {
	t.Parallel()

	b := []byte{1, 2, 3, 4}
	pqc.Wipe(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
	pqc.Wipe(nil)
}
