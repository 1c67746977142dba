package report

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/pqbase/formats/dsd"
	"github.com/safing/pqbase/pqc/pqctest"
	"github.com/safing/pqbase/selftest"
)

func testResults(t *testing.T) []*selftest.Result {
	t.Helper()

	h := selftest.New(pqctest.NewLibrary([]byte("report")), pqctest.NewRandomness([]byte("msg")), selftest.Options{})
	results, err := h.RunAll()
	require.Error(t, err)
	require.Len(t, results, 10)
	return results
}

func TestSummary(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.NoError(t, Summary(buf, testResults(t)))
	out := buf.String()

	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "corrupted_signature_accepted")
	assert.Contains(t, out, "Performance summary:")
	assert.Contains(t, out, "2 of 10 round trips passed")
}

func TestDump(t *testing.T) {
	t.Parallel()

	r := New(testResults(t))
	assert.Equal(t, 2, r.Passed)
	assert.Equal(t, 8, r.Failed)

	for _, format := range []dsd.SerializationFormat{dsd.JSON, dsd.CBOR, dsd.MsgPack, dsd.YAML} {
		buf := &bytes.Buffer{}
		require.NoError(t, Dump(buf, r, format), format.String())

		loaded := &Report{}
		require.NoError(t, dsd.LoadAsFormat(buf.Bytes(), format, loaded), format.String())
		require.Len(t, loaded.Results, len(r.Results), format.String())
		for i, res := range loaded.Results {
			assert.Equal(t, r.Results[i].Algorithm, res.Algorithm, format.String())
			assert.Equal(t, r.Results[i].Status(), res.Status(), format.String())
			assert.Equal(t, r.Results[i].Stage, res.Stage, format.String())
			assert.Nil(t, res.Err)
		}
	}
}

func TestStore(t *testing.T) {
	t.Parallel()

	store, err := OpenStore(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, store.Close())
	}()

	results := testResults(t)
	require.NoError(t, store.Save(results...))

	all, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, all, len(results))
	// newest first
	assert.False(t, all[0].Started.Before(all[len(all)-1].Started))

	latest, err := store.List(3)
	require.NoError(t, err)
	assert.Len(t, latest, 3)

	res, err := store.Get(results[1].ID)
	require.NoError(t, err)
	assert.Equal(t, results[1].Algorithm, res.Algorithm)
	assert.Equal(t, results[1].Status(), res.Status())
	assert.True(t, results[1].Started.Equal(res.Started))
	assert.Equal(t, results[1].Timings, res.Timings)

	_, err = store.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get("")
	assert.ErrorIs(t, err, ErrNotFound)
	// partial ids do not match
	_, err = store.Get(results[1].ID[1:])
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := store.Purge(time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, len(results), n)
	all, err = store.List(0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
