package config

import (
	"sync"

	"github.com/safing/pqbase/log"
)

type (
	// StringOption returns the current value of a string option.
	StringOption func() string
	// StringArrayOption returns the current value of a string list option.
	StringArrayOption func() []string
	// IntOption returns the current value of an integer option.
	IntOption func() int64
	// BoolOption returns the current value of a boolean option.
	BoolOption func() bool
)

// cached returns a getter that only looks up the option again after the
// configuration changed. With a non-nil lock the getter may be shared
// between goroutines.
func cached[T any](key string, fallback T, lock sync.Locker, find func(interface{}) (T, bool)) func() T {
	lookup := func() T {
		if v, ok := find(findValue(key)); ok {
			return v
		}
		return fallback
	}

	valid := getValidityFlag()
	value := lookup()
	return func() T {
		if lock != nil {
			lock.Lock()
			defer lock.Unlock()
		}
		if !valid.IsSet() {
			valid = getValidityFlag()
			value = lookup()
		}
		return value
	}
}

// GetAsString returns a getter for a string option.
func GetAsString(key string, fallback string) StringOption {
	return cached(key, fallback, nil, asString)
}

// GetAsStringArray returns a getter for a string list option.
func GetAsStringArray(key string, fallback []string) StringArrayOption {
	return cached(key, fallback, nil, asStringArray)
}

// GetAsInt returns a getter for an integer option.
func GetAsInt(key string, fallback int64) IntOption {
	return cached(key, fallback, nil, asInt64)
}

// GetAsBool returns a getter for a boolean option.
func GetAsBool(key string, fallback bool) BoolOption {
	return cached(key, fallback, nil, asBool)
}

type concurrent struct{}

// Concurrent provides getters that are safe to share between goroutines.
var Concurrent = concurrent{}

// GetAsString is the goroutine safe variant of config.GetAsString.
func (concurrent) GetAsString(key string, fallback string) StringOption {
	return cached(key, fallback, &sync.Mutex{}, asString)
}

// GetAsStringArray is the goroutine safe variant of config.GetAsStringArray.
func (concurrent) GetAsStringArray(key string, fallback []string) StringArrayOption {
	return cached(key, fallback, &sync.Mutex{}, asStringArray)
}

// GetAsInt is the goroutine safe variant of config.GetAsInt.
func (concurrent) GetAsInt(key string, fallback int64) IntOption {
	return cached(key, fallback, &sync.Mutex{}, asInt64)
}

// GetAsBool is the goroutine safe variant of config.GetAsBool.
func (concurrent) GetAsBool(key string, fallback bool) BoolOption {
	return cached(key, fallback, &sync.Mutex{}, asBool)
}

// findValue returns the user value, the runtime default or the registered
// default of an option, in that order.
func findValue(key string) interface{} {
	option, err := GetOption(key)
	if err != nil {
		log.Errorf("config: request for unregistered option: %s", key)
		return nil
	}

	option.Lock()
	defer option.Unlock()

	for _, layer := range []layer{userLayer, defaultLayer} {
		if v := option.layers[layer]; v != nil {
			return v
		}
	}
	return option.DefaultValue
}
