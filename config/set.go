package config

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"
)

var (
	validityFlag     = abool.NewBool(true)
	validityFlagLock sync.RWMutex
)

// getValidityFlag returns a flag that is unset as soon as the configuration
// changes. Holders must only read it.
func getValidityFlag() *abool.AtomicBool {
	validityFlagLock.RLock()
	defer validityFlagLock.RUnlock()
	return validityFlag
}

// signalChanges invalidates all cached option values.
func signalChanges() {
	validityFlagLock.Lock()
	defer validityFlagLock.Unlock()

	validityFlag.UnSet()
	validityFlag = abool.NewBool(true)
}

// replaceLayer replaces all values of a layer. Invalid values are skipped
// and reported together.
func replaceLayer(l layer, values map[string]interface{}) error {
	var errs *multierror.Error

	for _, option := range sortedOptions() {
		option.Lock()
		option.layers[l] = nil
		if value, ok := values[option.Key]; ok {
			normalized, err := normalize(option, value)
			if err != nil {
				errs = multierror.Append(errs, err)
			} else {
				option.layers[l] = normalized
			}
		}
		option.Unlock()
	}

	signalChanges()
	return errs.ErrorOrNil()
}

// setLayerValue sets or, with a nil value, clears a single value of a layer.
func setLayerValue(l layer, key string, value interface{}) error {
	option, err := GetOption(key)
	if err != nil {
		return fmt.Errorf("%w: %s", err, key)
	}

	var normalized interface{}
	if value != nil {
		option.Lock()
		normalized, err = normalize(option, value)
		option.Unlock()
		if err != nil {
			return err
		}
	}

	option.Lock()
	option.layers[l] = normalized
	option.Unlock()

	signalChanges()
	return nil
}

// setConfig replaces the user configuration.
func setConfig(values map[string]interface{}) error {
	return replaceLayer(userLayer, values)
}

// SetDefaultConfig replaces the runtime defaults.
func SetDefaultConfig(values map[string]interface{}) error {
	return replaceLayer(defaultLayer, values)
}

// SetConfigOption sets a user value and persists the user configuration.
func SetConfigOption(key string, value interface{}) error {
	if err := setLayerValue(userLayer, key, value); err != nil {
		return err
	}
	return saveConfig()
}

// SetDefaultConfigOption sets a runtime default. Defaults are not persisted.
func SetDefaultConfigOption(key string, value interface{}) error {
	return setLayerValue(defaultLayer, key, value)
}
