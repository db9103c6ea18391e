package loader

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
[demo]
count = 30
stride = 5

[output]
format = "json"
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/config.toml").Load()
	require.NoError(t, err)

	demo, ok := config["demo"].(map[string]any)
	require.True(t, ok, "expected demo to be a map")
	assert.Equal(t, int64(30), demo["count"])
	assert.Equal(t, int64(5), demo["stride"])

	output, ok := config["output"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json", output["format"])
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", "\n[demo\ncount = 4\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/invalid.toml").Load()
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "/invalid.toml", parseErr.Path)
	assert.Positive(t, parseErr.Line)
	assert.Contains(t, parseErr.Error(), "/invalid.toml at line")
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.yaml", `
demo:
  count: 8
  reach: 3
logging:
  level: debug
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/config.yaml").Load()
	require.NoError(t, err)

	demo, ok := config["demo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 8, demo["count"])
	assert.Equal(t, 3, demo["reach"])

	logging, ok := config["logging"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "debug", logging["level"])
}

func TestYAMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yml", "demo: [unclosed\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yml").Load()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "/bad.yml", parseErr.Path)
}

func TestYAMLLoader_NormalizesNonStringKeys(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/codes.yaml", "codes:\n  1: one\n  2: two\n")

	config, err := NewYAMLLoaderWithFS(memfs, "/codes.yaml").Load()
	require.NoError(t, err)

	codes, ok := config["codes"].(map[string]any)
	require.True(t, ok, "got %T", config["codes"])
	assert.Equal(t, "one", codes["1"])
}

func TestForPath(t *testing.T) {
	memfs := NewMemFS()

	l, err := ForPath(memfs, "a.toml")
	require.NoError(t, err)
	assert.IsType(t, &TOMLLoader{}, l)

	l, err = ForPath(memfs, "a.YML")
	require.NoError(t, err)
	assert.IsType(t, &YAMLLoader{}, l)

	_, err = ForPath(memfs, "a.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"demo":   map[string]any{"count": 20, "stride": 4},
		"output": map[string]any{"format": "both"},
	}
	src := map[string]any{
		"demo":    map[string]any{"count": 8},
		"logging": map[string]any{"level": "warn"},
		"output":  "flat",
	}

	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{"count": 8, "stride": 4}, got["demo"])
	assert.Equal(t, map[string]any{"level": "warn"}, got["logging"])
	assert.Equal(t, "flat", got["output"])

	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(nil, map[string]any{"a": 1}))
	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(map[string]any{"a": 1}, nil))
}
