package config

import (
	"encoding/json"
	"regexp"
	"sync"

	"github.com/tidwall/sjson"
)

// Option types.
const (
	OptTypeString      uint8 = 1
	OptTypeStringArray uint8 = 2
	OptTypeInt         uint8 = 3
	OptTypeBool        uint8 = 4
)

// Expertise levels.
const (
	ExpertiseLevelUser      uint8 = 1
	ExpertiseLevelExpert    uint8 = 2
	ExpertiseLevelDeveloper uint8 = 3
)

var typeNames = map[uint8]string{
	OptTypeString:      "string",
	OptTypeStringArray: "[]string",
	OptTypeInt:         "int",
	OptTypeBool:        "bool",
}

type layer int

const (
	userLayer layer = iota
	defaultLayer
	layerCount
)

// Option describes a configuration option.
type Option struct {
	sync.Mutex

	Name            string
	Key             string // category/sub/key
	Description     string
	ExpertiseLevel  uint8
	OptType         uint8
	DefaultValue    interface{}
	ExternalOptType string
	ValidationRegex string

	compiledRegex *regexp.Regexp
	// normalized values, nil when unset
	layers [layerCount]interface{}
}

// Export returns the option as JSON, including the active values.
func (option *Option) Export() ([]byte, error) {
	option.Lock()
	defer option.Unlock()

	data, err := json.Marshal(option)
	if err != nil {
		return nil, err
	}

	set := map[string]interface{}{"TypeName": typeNames[option.OptType]}
	if v := option.layers[userLayer]; v != nil {
		set["Value"] = v
	}
	if v := option.layers[defaultLayer]; v != nil {
		set["DefaultValue"] = v
	}
	for path, v := range set {
		data, err = sjson.SetBytes(data, path, v)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
