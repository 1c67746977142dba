package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var (
	configFile     string
	configFileLock sync.Mutex
)

// SetConfigFile sets the JSON file user values are loaded from and saved
// to. An empty path disables persistence.
func SetConfigFile(path string) {
	configFileLock.Lock()
	defer configFileLock.Unlock()

	configFile = path
}

func getConfigFile() string {
	configFileLock.Lock()
	defer configFileLock.Unlock()

	return configFile
}

// LoadConfig replaces the user values with the content of the config file.
func LoadConfig() error {
	path := getConfigFile()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	values, err := JSONToMap(data)
	if err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return setConfig(values)
}

func saveConfig() error {
	path := getConfigFile()
	if path == "" {
		return nil
	}

	values := make(map[string]interface{})
	for _, option := range sortedOptions() {
		option.Lock()
		if v := option.layers[userLayer]; v != nil {
			values[option.Key] = v
		}
		option.Unlock()
	}

	data, err := MapToJSON(values)
	if err != nil {
		return fmt.Errorf("config: failed to save %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o600)
}

// JSONToMap flattens a JSON object into a map keyed by slash separated
// paths. Numbers are returned as float64.
func JSONToMap(data []byte) (map[string]interface{}, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrInvalidData
	}

	flat := make(map[string]interface{})
	var walk func(prefix string, node gjson.Result)
	walk = func(prefix string, node gjson.Result) {
		node.ForEach(func(key, value gjson.Result) bool {
			path := key.String()
			if prefix != "" {
				path = prefix + "/" + path
			}
			if value.IsObject() {
				walk(path, value)
			} else {
				flat[path] = value.Value()
			}
			return true
		})
	}
	walk("", root)

	return flat, nil
}

// MapToJSON is the inverse of JSONToMap.
func MapToJSON(values map[string]interface{}) ([]byte, error) {
	data := []byte("{}")
	for key, value := range values {
		var err error
		// sjson paths use dots, so escape any in the key parts
		path := strings.ReplaceAll(strings.ReplaceAll(key, ".", `\.`), "/", ".")
		data, err = sjson.SetBytes(data, path, value)
		if err != nil {
			return nil, err
		}
	}

	var indented interface{}
	if err := json.Unmarshal(data, &indented); err != nil {
		return nil, err
	}
	return json.MarshalIndent(indented, "", "  ")
}
