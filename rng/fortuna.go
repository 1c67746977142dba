package rng

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aead/serpent"
	"github.com/seehuhn/fortuna"
)

const (
	// fortuna rekeys after every request, keep requests reasonably small
	maxRequestSize = 1 << 16

	// DefaultMinFeedEntropy is the default minimum entropy, in bits, a feeder gathers before reseeding.
	DefaultMinFeedEntropy = 256
	// DefaultReseedAfter is the default time after which the generator reseeds.
	DefaultReseedAfter = 6 * time.Minute
	// DefaultReseedAfterBytes is the default amount of output after which the generator reseeds.
	DefaultReseedAfterBytes = 1000000
)

// ErrUnknownCipher is returned for unsupported fortuna ciphers.
var ErrUnknownCipher = errors.New("unknown or unsupported cipher")

// FortunaSource is an EntropySource backed by a fortuna generator.
// Feeders supply fresh entropy, which is mixed into the generator whenever a
// reseed is due.
type FortunaSource struct {
	lock      sync.Mutex
	generator *fortuna.Generator
	feed      chan []byte

	bytesSinceReseed int64
	lastReseed       time.Time

	// ReseedAfter and ReseedAfterBytes control when fed entropy is consumed.
	// Zero disables the respective trigger.
	ReseedAfter      time.Duration
	ReseedAfterBytes int64
	// MinFeedEntropy is the entropy in bits a Feeder gathers before passing it on.
	MinFeedEntropy int64
}

func newCipherFunc(name string) (func([]byte) (cipher.Block, error), error) {
	switch name {
	case "aes", "":
		return aes.NewCipher, nil
	case "serpent":
		return serpent.NewCipher, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCipher, name)
	}
}

// NewFortunaSource returns a fortuna based source using the given cipher
// ("aes" or "serpent"), seeded with seed.
func NewFortunaSource(cipherName string, seed []byte) (*FortunaSource, error) {
	newCipher, err := newCipherFunc(cipherName)
	if err != nil {
		return nil, err
	}
	if len(seed) == 0 {
		return nil, errors.New("initial seed must not be empty")
	}

	fs := &FortunaSource{
		generator:        fortuna.NewGenerator(newCipher),
		feed:             make(chan []byte),
		lastReseed:       time.Now(),
		ReseedAfter:      DefaultReseedAfter,
		ReseedAfterBytes: DefaultReseedAfterBytes,
		MinFeedEntropy:   DefaultMinFeedEntropy,
	}
	fs.generator.Reseed(seed)
	return fs, nil
}

// NewSeededSource returns a deterministic source: the same seed always
// yields the same byte stream. It never reseeds and must only be used for
// testing.
func NewSeededSource(seed []byte) *FortunaSource {
	fs := &FortunaSource{
		generator: fortuna.NewGenerator(aes.NewCipher),
	}
	fs.generator.Reseed(seed)
	return fs
}

// Fill fills b with pseudo random data.
func (fs *FortunaSource) Fill(b []byte) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.reseedIfDue()

	for len(b) > 0 {
		n := len(b)
		if n > maxRequestSize {
			n = maxRequestSize
		}
		copy(b, fs.generator.PseudoRandomData(uint(n)))
		b = b[n:]
		fs.bytesSinceReseed += int64(n)
	}
}

// Reseed mixes seed into the generator immediately.
func (fs *FortunaSource) Reseed(seed []byte) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.reseed(seed)
}

func (fs *FortunaSource) reseed(seed []byte) {
	fs.generator.Reseed(seed)
	fs.bytesSinceReseed = 0
	fs.lastReseed = time.Now()
}

func (fs *FortunaSource) reseedIfDue() {
	if fs.feed == nil {
		return
	}

	due := (fs.ReseedAfterBytes > 0 && fs.bytesSinceReseed >= fs.ReseedAfterBytes) ||
		(fs.ReseedAfter > 0 && time.Since(fs.lastReseed) >= fs.ReseedAfter)
	if !due {
		return
	}

	// only use entropy that is ready, never block a caller
	select {
	case seed := <-fs.feed:
		fs.reseed(seed)
	default:
	}
}

func (fs *FortunaSource) fullFeedDuration() time.Duration {
	// full feed every 5x the reseed interval, but at most once per minute
	d := fs.ReseedAfter * 5
	if d < time.Minute {
		d = time.Minute
	}
	return d
}

// fullFeeder periodically consumes all waiting entropy.
func (fs *FortunaSource) fullFeeder(ctx context.Context) error {
	for {
		select {
		case <-time.After(fs.fullFeedDuration()):
		case <-ctx.Done():
			return nil
		}

		fs.lock.Lock()
	feedAll:
		for {
			select {
			case seed := <-fs.feed:
				fs.reseed(seed)
			default:
				break feedAll
			}
		}
		fs.lock.Unlock()
	}
}
