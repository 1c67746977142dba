package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerTestOptions(t *testing.T) {
	t.Helper()

	for _, opt := range []*Option{
		{
			Name:           "Monkey",
			Key:            "test/monkey",
			Description:    "Monkey business.",
			ExpertiseLevel: ExpertiseLevelUser,
			OptType:        OptTypeString,
			DefaultValue:   "0",
		},
		{
			Name:           "Zebras",
			Key:            "test/zebras/zebra",
			Description:    "Stripes.",
			ExpertiseLevel: ExpertiseLevelUser,
			OptType:        OptTypeStringArray,
			DefaultValue:   []string{},
		},
		{
			Name:            "Elephant",
			Key:             "test/elephant",
			Description:     "Weight in tons.",
			ExpertiseLevel:  ExpertiseLevelExpert,
			OptType:         OptTypeInt,
			DefaultValue:    0,
			ValidationRegex: "^[0-9]$",
		},
		{
			Name:           "Hot",
			Key:            "test/hot",
			Description:    "Temperature.",
			ExpertiseLevel: ExpertiseLevelDeveloper,
			OptType:        OptTypeBool,
			DefaultValue:   false,
		},
	} {
		require.NoError(t, Register(opt))
	}
}

func TestGetAndSet(t *testing.T) {
	registerTestOptions(t)

	monkey := GetAsString("test/monkey", "none")
	elephant := GetAsInt("test/elephant", -1)
	hot := Concurrent.GetAsBool("test/hot", true)
	zebra := GetAsStringArray("test/zebras/zebra", nil)

	assert.Equal(t, "0", monkey())
	assert.Equal(t, int64(0), elephant())
	assert.False(t, hot())
	assert.Empty(t, zebra())

	m, err := JSONToMap([]byte(`{
		"test": {
			"monkey": "1",
			"zebras": {"zebra": ["black", "white"]},
			"elephant": 2,
			"hot": true
		}
	}`))
	require.NoError(t, err)
	require.NoError(t, setConfig(m))

	assert.Equal(t, "1", monkey())
	assert.Equal(t, int64(2), elephant())
	assert.True(t, hot())
	assert.Equal(t, []string{"black", "white"}, zebra())

	// invalid values are rejected
	err = SetConfigOption("test/elephant", 12)
	var ive *InvalidValueError
	assert.ErrorAs(t, err, &ive)
	err = SetConfigOption("test/monkey", true)
	assert.ErrorAs(t, err, &ive)
	assert.ErrorIs(t, SetConfigOption("test/unknown", 1), ErrUnknownOption)

	// default layer
	require.NoError(t, SetConfigOption("test/monkey", nil))
	require.NoError(t, SetDefaultConfigOption("test/monkey", "fallback"))
	assert.Equal(t, "fallback", monkey())

	// unregistered options return the fallback
	assert.Equal(t, "fb", GetAsString("test/missing", "fb")())
}

func TestRegisterIncomplete(t *testing.T) {
	t.Parallel()

	var ioe *InvalidOptionError
	assert.ErrorAs(t, Register(&Option{Name: "x"}), &ioe)
	assert.ErrorAs(t, Register(&Option{
		Name:            "Bad Regex",
		Key:             "test/bad_regex",
		Description:     "Does not compile.",
		ExpertiseLevel:  ExpertiseLevelUser,
		OptType:         OptTypeString,
		ValidationRegex: "([",
	}), &ioe)
	assert.ErrorAs(t, Register(&Option{
		Name:           "Bad Default",
		Key:            "test/bad_default",
		Description:    "Wrong type.",
		ExpertiseLevel: ExpertiseLevelUser,
		OptType:        OptTypeBool,
		DefaultValue:   "yes",
	}), &ioe)
}

func TestPersistence(t *testing.T) {
	require.NoError(t, Register(&Option{
		Name:           "Persisted",
		Key:            "persist/value",
		Description:    "Survives restarts.",
		ExpertiseLevel: ExpertiseLevelUser,
		OptType:        OptTypeInt,
		DefaultValue:   1,
	}))

	path := filepath.Join(t.TempDir(), "config.json")
	SetConfigFile(path)
	defer SetConfigFile("")

	require.NoError(t, SetConfigOption("persist/value", 7))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"persist"`)

	// wipe in-memory value and load from disk again
	require.NoError(t, setConfig(map[string]interface{}{}))
	assert.Equal(t, int64(1), GetAsInt("persist/value", 0)())
	require.NoError(t, LoadConfig())
	assert.Equal(t, int64(7), GetAsInt("persist/value", 0)())

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o0600))
	assert.ErrorIs(t, LoadConfig(), ErrInvalidJSON)
}

func TestExportOptions(t *testing.T) {
	require.NoError(t, Register(&Option{
		Name:           "Exported",
		Key:            "export/value",
		Description:    "Shows up in exports.",
		ExpertiseLevel: ExpertiseLevelUser,
		OptType:        OptTypeString,
		DefaultValue:   "x",
	}))

	data, err := ExportOptions()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Key":"export/value"`)
	assert.Contains(t, string(data), `"TypeName":"string"`)
}

func TestFlattenExpand(t *testing.T) {
	t.Parallel()

	m, err := JSONToMap([]byte(`{"a": {"b": {"c": 1}, "d": "x"}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a/b/c": float64(1), "a/d": "x"}, m)

	data, err := MapToJSON(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": {"b": {"c": 1}, "d": "x"}}`, string(data))
}

func TestDefaultLayer(t *testing.T) {
	require.NoError(t, Register(&Option{
		Name:           "Layered",
		Key:            "layer/value",
		Description:    "Has a runtime default.",
		ExpertiseLevel: ExpertiseLevelUser,
		OptType:        OptTypeInt,
		DefaultValue:   1,
	}))
	value := Concurrent.GetAsInt("layer/value", 0)
	assert.Equal(t, int64(1), value())

	require.NoError(t, SetDefaultConfig(map[string]interface{}{"layer/value": 5}))
	assert.Equal(t, int64(5), value())

	require.NoError(t, SetConfigOption("layer/value", 9))
	assert.Equal(t, int64(9), value())

	// invalid runtime defaults are reported and skipped
	err := SetDefaultConfig(map[string]interface{}{"layer/value": "five"})
	var ive *InvalidValueError
	assert.ErrorAs(t, err, &ive)

	require.NoError(t, SetConfigOption("layer/value", nil))
	assert.Equal(t, int64(1), value())
}
