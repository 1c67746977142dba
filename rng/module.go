package rng

import (
	"sync"
	"time"

	"github.com/tevino/abool"

	"github.com/safing/pqbase/config"
	"github.com/safing/pqbase/log"
	"github.com/safing/pqbase/modules"
)

var (
	module *modules.Module

	defaultSource     EntropySource = SystemSource{}
	defaultSourceLock sync.RWMutex
	sourceOverridden  = abool.New()

	entropySourceOption config.StringOption
	rngCipherOption     config.StringOption
	minFeedEntropy      config.IntOption
	reseedAfterSeconds  config.IntOption
	reseedAfterBytes    config.IntOption
)

func init() {
	module = modules.Register("random", prep, start, nil, "config")
}

func prep() error {
	err := config.Register(&config.Option{
		Name:            "Entropy Source",
		Key:             "random/entropy_source",
		Description:     "Entropy source for cryptographic operations: the kernel RNG or a fortuna CSPRNG fed by the kernel RNG and scheduling jitter. Requires restart to take effect.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		ExternalOptType: "string list",
		DefaultValue:    "system",
		ValidationRegex: "^(system|fortuna)$",
	})
	if err != nil {
		return err
	}
	entropySourceOption = config.GetAsString("random/entropy_source", "system")

	err = config.Register(&config.Option{
		Name:            "RNG Cipher",
		Key:             "random/rng_cipher",
		Description:     "Cipher to use for the Fortuna RNG. Requires restart to take effect.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		ExternalOptType: "string list",
		DefaultValue:    "aes",
		ValidationRegex: "^(aes|serpent)$",
	})
	if err != nil {
		return err
	}
	rngCipherOption = config.GetAsString("random/rng_cipher", "aes")

	err = config.Register(&config.Option{
		Name:            "Minimum Feed Entropy",
		Key:             "random/min_feed_entropy",
		Description:     "The minimum amount of entropy before a entropy source is feed to the RNG, in bits.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    DefaultMinFeedEntropy,
		ValidationRegex: "^[0-9]{3,5}$",
	})
	if err != nil {
		return err
	}
	minFeedEntropy = config.Concurrent.GetAsInt("random/min_feed_entropy", DefaultMinFeedEntropy)

	err = config.Register(&config.Option{
		Name:            "Reseed after x seconds",
		Key:             "random/reseed_after_seconds",
		Description:     "Number of seconds until reseed",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    int64(DefaultReseedAfter / time.Second),
		ValidationRegex: "^[1-9][0-9]{1,5}$",
	})
	if err != nil {
		return err
	}
	reseedAfterSeconds = config.Concurrent.GetAsInt("random/reseed_after_seconds", int64(DefaultReseedAfter/time.Second))

	err = config.Register(&config.Option{
		Name:            "Reseed after x bytes",
		Key:             "random/reseed_after_bytes",
		Description:     "Number of fetched bytes until reseed",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    DefaultReseedAfterBytes,
		ValidationRegex: "^[1-9][0-9]{2,9}$",
	})
	if err != nil {
		return err
	}
	reseedAfterBytes = config.GetAsInt("random/reseed_after_bytes", DefaultReseedAfterBytes)

	return nil
}

func start() error {
	if sourceOverridden.IsSet() {
		log.Warning("random: using entropy source set by application, ignoring random/entropy_source")
		return nil
	}

	switch entropySourceOption() {
	case "fortuna":
		seed := make([]byte, 64)
		SystemSource{}.Fill(seed)

		fs, err := NewFortunaSource(rngCipherOption(), seed)
		if err != nil {
			return err
		}
		fs.MinFeedEntropy = minFeedEntropy()
		fs.ReseedAfter = time.Duration(reseedAfterSeconds()) * time.Second
		fs.ReseedAfterBytes = reseedAfterBytes()

		module.StartServiceWorker("os feeder", 0, fs.osFeeder)
		module.StartServiceWorker("tick feeder", 0, fs.tickFeeder)
		module.StartServiceWorker("full feeder", 0, fs.fullFeeder)

		setSource(fs)
		log.Infof("random: using fortuna entropy source with %s cipher", rngCipherOption())
	default:
		setSource(SystemSource{})
		log.Info("random: using system entropy source")
	}

	return nil
}

// Source returns the process-wide entropy source.
func Source() EntropySource {
	defaultSourceLock.RLock()
	defer defaultSourceLock.RUnlock()

	return defaultSource
}

// SetSource replaces the process-wide entropy source. It must be called
// before the module system is started to take precedence over configuration.
func SetSource(src EntropySource) {
	sourceOverridden.Set()
	setSource(src)
}

func setSource(src EntropySource) {
	defaultSourceLock.Lock()
	defer defaultSourceLock.Unlock()

	defaultSource = src
}
