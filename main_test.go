package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/pqbase/config"
	"github.com/safing/pqbase/modules"
	"github.com/safing/pqbase/pqcinit"
)

func TestSelectAlgorithms(t *testing.T) {
	t.Parallel()

	enabled := []string{"ML-KEM-768", "ML-KEM-1024"}

	assert.Equal(t, enabled, selectAlgorithms("all", enabled))
	assert.Equal(t, enabled, selectAlgorithms("", enabled))
	assert.Nil(t, selectAlgorithms("none", enabled))
	assert.Equal(t, []string{"ML-KEM-512", "TEST-KEM"}, selectAlgorithms(" ML-KEM-512, ,TEST-KEM", enabled))
}

func TestDisabledNote(t *testing.T) {
	t.Parallel()

	assert.Empty(t, disabledNote(true))
	assert.Equal(t, " (disabled)", disabledNote(false))
}

func TestSelfTestWithoutAutoInit(t *testing.T) { //nolint:paralleltest // uses the global module system
	cfgFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`{"pqc":{"auto_init_rng":false}}`), 0o600))
	config.SetConfigFile(cfgFile)

	require.NoError(t, modules.Start())
	require.NotNil(t, pqcinit.Default())
	assert.False(t, pqcinit.Default().Config().AutoInitRNG)
	assert.Equal(t, pqcinit.NotStarted, pqcinit.Default().State())
	_, err := pqcinit.Library()
	assert.ErrorIs(t, err, pqcinit.ErrNotReady)

	kemFlag, sigFlag = "ML-KEM-512", "none"
	require.NoError(t, selfTest(context.Background()))
	assert.Equal(t, pqcinit.Ready, pqcinit.Default().State())
	assert.True(t, pqcinit.IsReady())
}
