package selftest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/pqc/pqctest"
)

// newTestHarness returns a harness over the test algorithms with
// deterministic randomness.
func newTestHarness(t *testing.T, opts ...pqc.Option) *Harness {
	t.Helper()

	randomness := pqctest.NewRandomness([]byte("selftest library"))
	lib, err := pqc.New(randomness, opts...)
	require.NoError(t, err)

	return New(lib, pqctest.NewRandomness([]byte("selftest message")), Options{})
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
