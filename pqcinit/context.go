package pqcinit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/safing/pqbase/info"
	"github.com/safing/pqbase/log"
	"github.com/safing/pqbase/metrics"
	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/rng"
)

// Errors.
var (
	ErrDisabled   = errors.New("post-quantum cryptography is disabled")
	ErrNotReady   = errors.New("post-quantum cryptography is not initialized")
	ErrInitFailed = errors.New("post-quantum cryptography initialization failed")
)

// Config holds the settings of a Context.
type Config struct {
	Enabled        bool
	AutoInitRNG    bool
	VerboseLogging bool
	// AlgorithmsEnabled restricts the usable algorithms. Empty enables all.
	AlgorithmsEnabled []string
	// HeapWarningKB is the free memory threshold below which a warning is logged.
	HeapWarningKB int64
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		AutoInitRNG:   true,
		HeapWarningKB: 64,
	}
}

// State is the initialization state of a Context.
type State uint8

// States.
const (
	NotStarted State = iota
	RngRegistered
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case RngRegistered:
		return "rng registered"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Context ties an entropy source to a pqc.Library. It is initialized at most
// once; a failed initialization is final.
type Context struct {
	lock sync.Mutex

	cfg     Config
	adapter *rng.Adapter
	opts    []pqc.Option

	state State
	lib   *pqc.Library
	err   error
}

// NewContext returns a context drawing from source. Additional library
// options, such as extra schemes, are applied when the library is created.
func NewContext(cfg Config, source rng.EntropySource, opts ...pqc.Option) *Context {
	return &Context{
		cfg:     cfg,
		adapter: rng.NewAdapter(source),
		opts:    opts,
	}
}

// Initialize registers the randomness provider and creates the library.
// Calling it on a ready context does nothing; on a failed context it returns
// the original failure.
func (c *Context) Initialize() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	switch c.state {
	case Ready:
		log.Debug("pqc: already initialized")
		return nil
	case Failed:
		return c.err
	}

	if !c.cfg.Enabled {
		log.Warning("pqc: not initializing, post-quantum cryptography is disabled")
		return ErrDisabled
	}

	log.Info("pqc: initializing post-quantum cryptography")
	c.adapter.SetVerbose(c.cfg.VerboseLogging)

	if err := c.adapter.Initialize(); err != nil {
		return c.fail(err)
	}
	c.state = RngRegistered

	opts := append([]pqc.Option{}, c.opts...)
	opts = append(opts, pqc.WithEnabled(c.cfg.AlgorithmsEnabled...))
	lib, err := pqc.New(c.adapter, opts...)
	if err != nil {
		return c.fail(err)
	}
	for _, name := range lib.UnknownAlgorithms() {
		log.Warningf("pqc: enabled algorithm %s is not available", name)
	}

	c.lib = lib
	c.state = Ready
	c.logSummary()
	return nil
}

func (c *Context) fail(err error) error {
	c.state = Failed
	c.err = fmt.Errorf("%w: %w", ErrInitFailed, err)
	log.Errorf("pqc: %s", c.err)
	return c.err
}

func (c *Context) logSummary() {
	log.Infof("pqc: %s %s using %s %s", info.GetInfo().Name, info.Version(), pqc.BackendModule, info.DependencyVersion(pqc.BackendModule))

	kems := c.lib.EnabledKEMs()
	sigs := c.lib.EnabledSignatures()
	log.Infof("pqc: %d KEM and %d signature algorithms enabled", len(kems), len(sigs))

	if c.cfg.VerboseLogging {
		log.Info("pqc: enabled KEM algorithms:")
		for _, name := range kems {
			log.Infof("pqc:   %s", name)
		}
		log.Info("pqc: enabled signature algorithms:")
		for _, name := range sigs {
			log.Infof("pqc:   %s", name)
		}
	}

	free, ok := metrics.FreeMemory()
	if !ok {
		log.Debugf("pqc: host memory stats unavailable, %d KB of unused heap", free/1024)
	} else {
		log.Infof("pqc: %d KB of memory available", free/1024)
	}
	if c.cfg.HeapWarningKB > 0 && free/1024 < uint64(c.cfg.HeapWarningKB) {
		log.Warningf("pqc: low memory: %d KB available, below the warning threshold of %d KB", free/1024, c.cfg.HeapWarningKB)
	}

	log.Info("pqc: initialized successfully")
}

// IsReady reports whether the library may be used.
func (c *Context) IsReady() bool {
	return c.State() == Ready
}

// State returns the current state.
func (c *Context) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.state
}

// Err returns the initialization failure, if any.
func (c *Context) Err() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.err
}

// Library returns the library, or ErrNotReady before successful initialization.
func (c *Context) Library() (*pqc.Library, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.state != Ready {
		return nil, ErrNotReady
	}
	return c.lib, nil
}

// Adapter returns the randomness adapter of the context.
func (c *Context) Adapter() *rng.Adapter {
	return c.adapter
}

// Config returns the settings of the context.
func (c *Context) Config() Config {
	return c.cfg
}
