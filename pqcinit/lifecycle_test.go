package pqcinit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/pqc/pqctest"
	"github.com/safing/pqbase/rng"
)

func TestLifecycle(t *testing.T) {
	t.Parallel()

	ctx := NewContext(DefaultConfig(), rng.NewSeededSource([]byte("lifecycle")))
	assert.Equal(t, NotStarted, ctx.State())
	assert.False(t, ctx.IsReady())
	assert.Equal(t, rng.Unregistered, ctx.Adapter().Registration())

	// crypto use before initialization is rejected
	_, err := ctx.Library()
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, ctx.Adapter().Randombytes(make([]byte, 8)), rng.ErrNotRegistered)

	require.NoError(t, ctx.Initialize())
	assert.Equal(t, Ready, ctx.State())
	assert.True(t, ctx.IsReady())
	assert.Equal(t, rng.Registered, ctx.Adapter().Registration())

	lib, err := ctx.Library()
	require.NoError(t, err)
	assert.True(t, lib.IsKEMEnabled("ML-KEM-768"))

	// initializing again changes nothing
	require.NoError(t, ctx.Initialize())
	assert.Equal(t, Ready, ctx.State())
	assert.Equal(t, rng.Registered, ctx.Adapter().Registration())
	again, err := ctx.Library()
	require.NoError(t, err)
	assert.Same(t, lib, again)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Enabled = false
	ctx := NewContext(cfg, rng.SystemSource{})

	assert.ErrorIs(t, ctx.Initialize(), ErrDisabled)
	assert.Equal(t, NotStarted, ctx.State())
	assert.Equal(t, rng.Unregistered, ctx.Adapter().Registration())
	_, err := ctx.Library()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestFailedInitialization(t *testing.T) {
	t.Parallel()

	ctx := NewContext(DefaultConfig(), rng.SourceFunc(func(b []byte) {
		panic("entropy source broken")
	}))

	err := ctx.Initialize()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInitFailed)
	assert.ErrorIs(t, err, rng.ErrSelfCheckFailed)
	assert.Equal(t, Failed, ctx.State())
	assert.Equal(t, err, ctx.Err())

	// failure is final
	assert.Equal(t, err, ctx.Initialize())
	assert.Equal(t, Failed, ctx.State())
	_, err = ctx.Library()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestAlgorithmSelection(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.VerboseLogging = true
	cfg.AlgorithmsEnabled = []string{"ML-KEM-768", "ML-DSA-65", pqctest.KEMName, "SPHINCS+-SHA2-128f"}
	ctx := NewContext(cfg, rng.NewSeededSource([]byte("selection")), pqc.WithKEMs(pqctest.NewKEM()))

	require.NoError(t, ctx.Initialize())
	lib, err := ctx.Library()
	require.NoError(t, err)

	assert.Equal(t, []string{"ML-KEM-768", pqctest.KEMName}, lib.EnabledKEMs())
	assert.Equal(t, []string{"ML-DSA-65"}, lib.EnabledSignatures())
	assert.Equal(t, []string{"SPHINCS+-SHA2-128f"}, lib.UnknownAlgorithms())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "not started", NotStarted.String())
	assert.Equal(t, "rng registered", RngRegistered.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "failed", Failed.String())
}
