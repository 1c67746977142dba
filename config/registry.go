package config

import (
	"regexp"
	"sort"
	"sync"

	"github.com/tidwall/sjson"
)

var (
	optionsLock sync.RWMutex
	options     = make(map[string]*Option)
)

// Register adds a configuration option. Registering a key again replaces
// the option but keeps its values.
func Register(option *Option) error {
	if option.Name == "" || option.Key == "" || option.Description == "" ||
		option.ExpertiseLevel == 0 || option.OptType == 0 {
		return &InvalidOptionError{Key: option.Key, Msg: "only ValidationRegex, ExternalOptType and DefaultValue are optional"}
	}
	if _, ok := typeNames[option.OptType]; !ok {
		return &InvalidOptionError{Key: option.Key, Msg: "unknown option type", Err: ErrUnsupportedType}
	}

	if option.ValidationRegex != "" {
		re, err := regexp.Compile(option.ValidationRegex)
		if err != nil {
			return &InvalidOptionError{Key: option.Key, Msg: "invalid validation regex", Err: err}
		}
		option.compiledRegex = re
	}

	if option.DefaultValue != nil {
		if _, err := normalize(option, option.DefaultValue); err != nil {
			return &InvalidOptionError{Key: option.Key, Msg: "invalid default value", Err: err}
		}
	}

	optionsLock.Lock()
	defer optionsLock.Unlock()

	if existing, ok := options[option.Key]; ok {
		existing.Lock()
		option.layers = existing.layers
		existing.Unlock()
	}
	options[option.Key] = option

	return nil
}

// GetOption returns the option registered under key. Callers must lock
// the option while accessing it.
func GetOption(key string) (*Option, error) {
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	option, ok := options[key]
	if !ok {
		return nil, ErrUnknownOption
	}
	return option, nil
}

func sortedOptions() []*Option {
	optionsLock.RLock()
	list := make([]*Option, 0, len(options))
	for _, option := range options {
		list = append(list, option)
	}
	optionsLock.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Key < list[j].Key
	})
	return list
}

// ExportOptions returns all options, sorted by key, as a JSON list.
func ExportOptions() ([]byte, error) {
	data := []byte("[]")
	for _, option := range sortedOptions() {
		exported, err := option.Export()
		if err != nil {
			return nil, err
		}
		data, err = sjson.SetRawBytes(data, "-1", exported)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
