package pqcinit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/pqbase/modules"
)

func TestModule(t *testing.T) { //nolint:paralleltest // uses the global module system
	assert.False(t, IsReady())
	assert.ErrorIs(t, Initialize(), ErrNotReady)
	_, err := NewHarness()
	assert.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, modules.Start())
	assert.True(t, IsReady())

	cfg := Default().Config()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.AutoInitRNG)
	assert.Empty(t, cfg.AlgorithmsEnabled)

	// manual initialization after auto init is a no-op
	require.NoError(t, Initialize())

	h, err := NewHarness()
	require.NoError(t, err)
	res := h.RunKEM("ML-KEM-768")
	assert.True(t, res.OK(), res.Err)
	res = h.RunSignature("ML-DSA-44")
	assert.True(t, res.OK(), res.Err)
	assert.Equal(t, 100, res.Sizes["message"])
}
