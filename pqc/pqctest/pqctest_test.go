package pqctest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/pqbase/pqc"
)

func TestKEMRoundTrip(t *testing.T) {
	t.Parallel()

	lib := NewLibrary([]byte("pqctest kem"))
	k, err := lib.NewKEM(KEMName)
	require.NoError(t, err)

	pk := make([]byte, k.PublicKeySize())
	sk := make([]byte, k.SecretKeySize())
	ct := make([]byte, k.CiphertextSize())
	ssA := make([]byte, k.SharedSecretSize())
	ssB := make([]byte, k.SharedSecretSize())

	require.NoError(t, k.Keypair(pk, sk))
	require.NoError(t, k.Encapsulate(ct, ssA, pk))
	require.NoError(t, k.Decapsulate(ssB, ct, sk))
	assert.Equal(t, ssA, ssB)

	m, err := lib.NewKEM(KEMName + "-MISMATCH")
	require.NoError(t, err)
	require.NoError(t, m.Decapsulate(ssB, ct, sk))
	assert.NotEqual(t, ssA, ssB)
}

func TestSignatureVariants(t *testing.T) {
	t.Parallel()

	lib := NewLibrary([]byte("pqctest sig"))
	s, err := lib.NewSignature(SignatureName)
	require.NoError(t, err)

	pk := make([]byte, s.PublicKeySize())
	sk := make([]byte, s.SecretKeySize())
	sig := make([]byte, s.MaxSignatureSize())
	msg := []byte("message")

	require.NoError(t, s.Keypair(pk, sk))
	n, err := s.Sign(sig, msg, sk)
	require.NoError(t, err)
	assert.Equal(t, SigSize, n)
	require.NoError(t, s.Verify(msg, sig[:n], pk))

	assert.ErrorIs(t, s.Verify([]byte("other"), sig[:n], pk), pqc.ErrVerificationFailed)

	acceptAll, err := lib.NewSignature(SignatureName + "-ACCEPT-ALL")
	require.NoError(t, err)
	assert.NoError(t, acceptAll.Verify([]byte("other"), sig[:n], pk))

	rejectAll, err := lib.NewSignature(SignatureName + "-REJECT-ALL")
	require.NoError(t, err)
	assert.ErrorIs(t, rejectAll.Verify(msg, sig[:n], pk), pqc.ErrVerificationFailed)

	failing, err := lib.NewSignature(SignatureName + "-FAIL-" + StageSign)
	require.NoError(t, err)
	_, err = failing.Sign(sig, msg, sk)
	assert.ErrorIs(t, err, ErrInjected)
}

func TestPaddedSignature(t *testing.T) {
	t.Parallel()

	lib, err := pqc.New(NewRandomness([]byte("padded")), pqc.WithoutDefaults(), pqc.WithSignatures(NewPaddedSignature(64)))
	require.NoError(t, err)
	s, err := lib.NewSignature(SignatureName + "-PADDED")
	require.NoError(t, err)
	assert.Equal(t, 64, s.MaxSignatureSize())

	pk := make([]byte, s.PublicKeySize())
	sk := make([]byte, s.SecretKeySize())
	sig := make([]byte, s.MaxSignatureSize())
	msg := []byte("message")

	require.NoError(t, s.Keypair(pk, sk))
	n, err := s.Sign(sig, msg, sk)
	require.NoError(t, err)
	assert.Equal(t, SigSize, n)
	require.NoError(t, s.Verify(msg, sig[:n], pk))
	assert.ErrorIs(t, s.Verify(msg, sig, pk), pqc.ErrVerificationFailed)
}
