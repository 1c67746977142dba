package pqcinit

import (
	"fmt"
	"sync"

	"github.com/safing/pqbase/config"
	"github.com/safing/pqbase/log"
	"github.com/safing/pqbase/modules"
	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/rng"
	"github.com/safing/pqbase/selftest"
)

// Configuration Keys.
const (
	CfgEnabledKey           = "pqc/enabled"
	CfgAutoInitRNGKey       = "pqc/auto_init_rng"
	CfgVerboseLoggingKey    = "pqc/verbose_logging"
	CfgAlgorithmsEnabledKey = "pqc/algorithms_enabled"
	CfgHeapWarningKBKey     = "pqc/heap_warning_kb"
	CfgMaxBufferSizeKey     = "pqc/max_buffer_size"
	CfgMessageLengthKey     = "pqc/message_length"
)

var (
	module *modules.Module

	defaultCtx     *Context
	defaultCtxLock sync.RWMutex
	libraryOptions []pqc.Option

	enabledOption           config.BoolOption
	autoInitRNGOption       config.BoolOption
	verboseLoggingOption    config.BoolOption
	algorithmsEnabledOption config.StringArrayOption
	heapWarningKBOption     config.IntOption
	maxBufferSizeOption     config.IntOption
	messageLengthOption     config.IntOption
)

func init() {
	module = modules.Register("pqc", prep, start, nil, "random")
}

func prep() error {
	err := config.Register(&config.Option{
		Name:           "Enable Post-Quantum Cryptography",
		Key:            CfgEnabledKey,
		Description:    "Enable the post-quantum cryptography library.",
		OptType:        config.OptTypeBool,
		ExpertiseLevel: config.ExpertiseLevelUser,
		DefaultValue:   true,
	})
	if err != nil {
		return err
	}
	enabledOption = config.GetAsBool(CfgEnabledKey, true)

	err = config.Register(&config.Option{
		Name:           "Initialize RNG Automatically",
		Key:            CfgAutoInitRNGKey,
		Description:    "Register the entropy source as randomness provider on start. If disabled, the application must initialize it before using any algorithm.",
		OptType:        config.OptTypeBool,
		ExpertiseLevel: config.ExpertiseLevelExpert,
		DefaultValue:   true,
	})
	if err != nil {
		return err
	}
	autoInitRNGOption = config.GetAsBool(CfgAutoInitRNGKey, true)

	err = config.Register(&config.Option{
		Name:           "Verbose Logging",
		Key:            CfgVerboseLoggingKey,
		Description:    "Log enabled algorithms, key material previews and timings of every stage.",
		OptType:        config.OptTypeBool,
		ExpertiseLevel: config.ExpertiseLevelDeveloper,
		DefaultValue:   false,
	})
	if err != nil {
		return err
	}
	verboseLoggingOption = config.GetAsBool(CfgVerboseLoggingKey, false)

	err = config.Register(&config.Option{
		Name:            "Enabled Algorithms",
		Key:             CfgAlgorithmsEnabledKey,
		Description:     "Names of the algorithms that may be used. Leave empty to enable all available algorithms.",
		OptType:         config.OptTypeStringArray,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		DefaultValue:    []string{},
		ValidationRegex: `^[A-Za-z0-9][A-Za-z0-9_+\-]*$`,
	})
	if err != nil {
		return err
	}
	algorithmsEnabledOption = config.GetAsStringArray(CfgAlgorithmsEnabledKey, []string{})

	err = config.Register(&config.Option{
		Name:            "Low Memory Warning",
		Key:             CfgHeapWarningKBKey,
		Description:     "Warn if less memory than this is available after initialization, in KB.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    DefaultConfig().HeapWarningKB,
		ValidationRegex: "^[0-9]{1,9}$",
	})
	if err != nil {
		return err
	}
	heapWarningKBOption = config.GetAsInt(CfgHeapWarningKBKey, DefaultConfig().HeapWarningKB)

	err = config.Register(&config.Option{
		Name:            "Maximum Buffer Size",
		Key:             CfgMaxBufferSizeKey,
		Description:     "Largest buffer a self-test may allocate, in bytes.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    selftest.DefaultMaxBufferSize,
		ValidationRegex: "^[1-9][0-9]{0,9}$",
	})
	if err != nil {
		return err
	}
	maxBufferSizeOption = config.GetAsInt(CfgMaxBufferSizeKey, selftest.DefaultMaxBufferSize)

	err = config.Register(&config.Option{
		Name:            "Self-Test Message Length",
		Key:             CfgMessageLengthKey,
		Description:     "Length of the random message signed by the signature self-test, in bytes.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    selftest.DefaultMessageLength,
		ValidationRegex: "^[1-9][0-9]{0,6}$",
	})
	if err != nil {
		return err
	}
	messageLengthOption = config.GetAsInt(CfgMessageLengthKey, selftest.DefaultMessageLength)

	return nil
}

func start() error {
	cfg := ConfigFromOptions()
	if cfg.VerboseLogging {
		log.SetPkgLevels(map[string]log.Severity{
			"pqcinit":  log.TraceLevel,
			"pqc":      log.TraceLevel,
			"rng":      log.TraceLevel,
			"selftest": log.TraceLevel,
		})
	}

	ctx := NewContext(cfg, rng.Source(), libraryOptions...)
	setDefault(ctx)

	switch {
	case !cfg.Enabled:
		log.Info("pqc: post-quantum cryptography is disabled")
	case !cfg.AutoInitRNG:
		log.Info("pqc: automatic initialization disabled, waiting for manual initialization")
	default:
		return ctx.Initialize()
	}
	return nil
}

// ConfigFromOptions assembles a Config from the registered configuration options.
func ConfigFromOptions() Config {
	return Config{
		Enabled:           enabledOption(),
		AutoInitRNG:       autoInitRNGOption(),
		VerboseLogging:    verboseLoggingOption(),
		AlgorithmsEnabled: algorithmsEnabledOption(),
		HeapWarningKB:     heapWarningKBOption(),
	}
}

// AddLibraryOptions adds options applied to the process-wide library, such
// as additional schemes. It must be called before the module system starts.
func AddLibraryOptions(opts ...pqc.Option) {
	libraryOptions = append(libraryOptions, opts...)
}

func setDefault(ctx *Context) {
	defaultCtxLock.Lock()
	defer defaultCtxLock.Unlock()

	defaultCtx = ctx
}

// Default returns the process-wide context, or nil if the module has not started.
func Default() *Context {
	defaultCtxLock.RLock()
	defer defaultCtxLock.RUnlock()

	return defaultCtx
}

// Initialize initializes the process-wide context. Use it when automatic
// initialization is disabled.
func Initialize() error {
	ctx := Default()
	if ctx == nil {
		return fmt.Errorf("%w: module pqc not started", ErrNotReady)
	}
	return ctx.Initialize()
}

// IsReady reports whether the process-wide context is ready.
func IsReady() bool {
	ctx := Default()
	return ctx != nil && ctx.IsReady()
}

// Library returns the process-wide library.
func Library() (*pqc.Library, error) {
	ctx := Default()
	if ctx == nil {
		return nil, ErrNotReady
	}
	return ctx.Library()
}

// NewHarness returns a self-test harness for the process-wide library,
// configured from the registered configuration options.
func NewHarness() (*selftest.Harness, error) {
	ctx := Default()
	if ctx == nil {
		return nil, ErrNotReady
	}
	lib, err := ctx.Library()
	if err != nil {
		return nil, err
	}

	return selftest.New(lib, ctx.Adapter(), selftest.Options{
		MaxBufferSize: int(maxBufferSizeOption()),
		MessageLength: int(messageLengthOption()),
		Verbose:       ctx.Config().VerboseLogging,
	}), nil
}
