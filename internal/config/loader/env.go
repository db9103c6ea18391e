package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix   string            // Environment variable prefix (e.g., "TEXTBLOB_")
	mapping  map[string]string // Env var -> config path
	skip     map[string]bool   // Prefixed variables that are not settings
	verbatim map[string]bool   // Config paths whose values are kept as strings
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "TEXTBLOB_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:   prefix,
		mapping:  defaultEnvMapping(prefix),
		skip:     map[string]bool{prefix + "CONFIG": true},
		verbatim: make(map[string]bool),
	}
}

// defaultEnvMapping maps variables whose names do not follow the
// SECTION_SETTING convention.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":  "logging.level",
		prefix + "FORMAT":     "output.format",
		prefix + "QUERY":      "output.query",
		prefix + "MAX_BLOBS":  "chain.maxBlobs",
		prefix + "BLOB_COUNT": "demo.count",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			setByPath(config, path, l.value(path, val))
		}
	}

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped || l.skip[name] {
			continue
		}
		path := l.envToPath(name)
		setByPath(config, path, l.value(path, value))
	}

	if len(config) == 0 {
		return nil, nil
	}
	return config, nil
}

// KeepString marks config paths whose environment values are strings and
// must not be converted to bools or numbers.
func (l *EnvLoader) KeepString(paths ...string) {
	for _, path := range paths {
		l.verbatim[path] = true
	}
}

func (l *EnvLoader) value(path, raw string) any {
	if l.verbatim[path] {
		return raw
	}
	return parseValue(raw)
}

// envToPath converts TEXTBLOB_CHAIN_MAX_BLOBS to chain.maxBlobs.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}

// parseValue converts an environment string into a bool, integer, float or
// string. Digits are always numbers, so "1" is an integer, not true.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
