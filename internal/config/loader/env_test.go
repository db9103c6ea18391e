package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("TBTEST_LOG_LEVEL", "debug")
	t.Setenv("TBTEST_BLOB_COUNT", "1")
	t.Setenv("TBTEST_DEMO_STRIDE", "3")
	t.Setenv("TBTEST_CHAIN_MAX_BLOBS", "64")
	t.Setenv("TBTEST_SCRIPT_SANDBOXED", "off")
	t.Setenv("TBTEST_CONFIG", "/etc/textblob.toml")

	config, err := NewEnvLoader("TBTEST_").Load()
	require.NoError(t, err)

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"demo.count", int64(1)},
		{"demo.stride", int64(3)},
		{"chain.maxBlobs", int64(64)},
		{"script.sandboxed", false},
	}
	for _, tt := range tests {
		got, ok := getByPath(config, tt.path)
		require.True(t, ok, "missing %s", tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, ok := config["config"]
	assert.False(t, ok, "the config path variable is not a setting")
}

func TestEnvLoader_LoadEmpty(t *testing.T) {
	config, err := NewEnvLoader("TBNOTHING_SET_").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestEnvLoader_KeepString(t *testing.T) {
	t.Setenv("TBSTR_QUERY", "true")
	t.Setenv("TBSTR_OUTPUT_FORMAT", "1")
	t.Setenv("TBSTR_DEMO_COUNT", "7")

	l := NewEnvLoader("TBSTR_")
	l.KeepString("output.query", "output.format")
	config, err := l.Load()
	require.NoError(t, err)

	tests := []struct {
		path string
		want any
	}{
		{"output.query", "true"},
		{"output.format", "1"},
		{"demo.count", int64(7)},
	}
	for _, tt := range tests {
		got, ok := getByPath(config, tt.path)
		require.True(t, ok, "missing %s", tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("TEXTBLOB_")

	tests := []struct {
		env  string
		want string
	}{
		{"TEXTBLOB_DEMO_COUNT", "demo.count"},
		{"TEXTBLOB_CHAIN_MAX_BLOBS", "chain.maxBlobs"},
		{"TEXTBLOB_SCRIPT_OPERATION_LIMIT", "script.operationLimit"},
		{"TEXTBLOB_VERBOSE", "verbose"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.envToPath(tt.env))
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"Yes", true},
		{"off", false},
		{"0", int64(0)},
		{"1", int64(1)},
		{"-12", int64(-12)},
		{"2.5", 2.5},
		{"json", "json"},
		{"v1.2.3", "v1.2.3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), "parseValue(%q)", tt.in)
	}
}
