package rng

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFortunaCiphers(t *testing.T) {
	t.Parallel()

	seed := []byte("0123456789abcdef")
	for _, name := range []string{"aes", "serpent"} {
		fs, err := NewFortunaSource(name, seed)
		require.NoError(t, err, name)

		b := make([]byte, 48)
		fs.Fill(b)
		assert.NotEqual(t, make([]byte, 48), b, name)
	}

	_, err := NewFortunaSource("rot13", seed)
	assert.ErrorIs(t, err, ErrUnknownCipher)

	_, err = NewFortunaSource("aes", nil)
	assert.Error(t, err)
}

func TestFortunaLargeFill(t *testing.T) {
	t.Parallel()

	fs := NewSeededSource([]byte("large"))
	b := make([]byte, 3*maxRequestSize+17)
	fs.Fill(b)
	assert.NotEqual(t, make([]byte, 17), b[len(b)-17:])
}

func TestFeederReseeds(t *testing.T) {
	t.Parallel()

	seed := []byte("feeder seed")
	fed, err := NewFortunaSource("aes", seed)
	require.NoError(t, err)
	fed.ReseedAfter = 0
	fed.ReseedAfterBytes = 1
	fed.MinFeedEntropy = 64

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	feeder := fed.NewFeeder()
	assert.True(t, feeder.NeedsEntropy())

	done := make(chan error, 1)
	go func() {
		done <- feeder.SupplyEntropy(ctx, bytes.Repeat([]byte{0x42}, 8), 64)
	}()

	// keep drawing until the waiting entropy was consumed
	b := make([]byte, 8)
	require.Eventually(t, func() bool {
		fed.Fill(b)
		select {
		case err := <-done:
			return err == nil
		default:
			return false
		}
	}, 5*time.Second, time.Millisecond)
	assert.True(t, feeder.NeedsEntropy())
}

func TestFeederCanceled(t *testing.T) {
	t.Parallel()

	fs, err := NewFortunaSource("aes", []byte("cancel"))
	require.NoError(t, err)
	fs.MinFeedEntropy = 8

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	feeder := fs.NewFeeder()
	assert.ErrorIs(t, feeder.SupplyEntropyAsInt(ctx, 42, 8), context.Canceled)
}

func TestTickDuration(t *testing.T) {
	t.Parallel()

	fs := &FortunaSource{ReseedAfter: DefaultReseedAfter, MinFeedEntropy: DefaultMinFeedEntropy}
	assert.Equal(t, 17*time.Millisecond, fs.tickDuration())

	fs.ReseedAfter = time.Second
	assert.Equal(t, 10*time.Millisecond, fs.tickDuration())
}
