package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripMetrics(t *testing.T) {
	RecordRoundTrip("kem", "TEST-KEM", "success")
	RecordRoundTrip("kem", "TEST-KEM", "success")
	ObserveStage("kem", "TEST-KEM", "keypair", 3*time.Millisecond)

	buf := &bytes.Buffer{}
	WritePrometheus(buf, false)
	out := buf.String()

	assert.Contains(t, out, `pqbase_roundtrip_total{kind="kem",algorithm="TEST-KEM",status="success"} 2`)
	assert.Contains(t, out, `pqbase_stage_seconds_bucket{kind="kem",algorithm="TEST-KEM",stage="keypair"`)
	assert.NotContains(t, out, "process_resident_memory_bytes")
}

func TestFreeMemory(t *testing.T) {
	free, ok := FreeMemory()
	if ok {
		assert.Greater(t, free, uint64(0))
	}
}

func TestCachedStat(t *testing.T) {
	t.Parallel()

	calls := 0
	stat := &cachedStat[int]{
		name: "test stat",
		fetch: func() (*int, error) {
			calls++
			v := calls
			return &v, nil
		},
	}

	assert.Equal(t, 1, *stat.get())
	assert.Equal(t, 1, *stat.get())
	assert.Equal(t, 1, calls)

	stat.expires = time.Time{}
	assert.Equal(t, 2, *stat.get())

	failing := &cachedStat[int]{
		name:  "failing stat",
		fetch: func() (*int, error) { return nil, errors.New("unavailable") },
	}
	assert.Nil(t, failing.get())
}

func TestPush(t *testing.T) {
	RecordRoundTrip("signature", "TEST-SIG", "success")

	received := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- body
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	require.NoError(t, Push(context.Background(), srv.URL))
	assert.Contains(t, string(<-received), `algorithm="TEST-SIG"`)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer failing.Close()
	assert.Error(t, Push(context.Background(), failing.URL))
}
