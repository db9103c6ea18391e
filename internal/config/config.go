package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/textblob/internal/config/loader"
	"github.com/dshills/textblob/internal/logging"
	"github.com/dshills/textblob/internal/snapshot"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TEXTBLOB_"

// Config holds every textblob setting.
type Config struct {
	Demo    DemoConfig    `toml:"demo" yaml:"demo"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Chain   ChainConfig   `toml:"chain" yaml:"chain"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
}

// DemoConfig shapes the numbered-blob demonstration.
type DemoConfig struct {
	Count  int `toml:"count" yaml:"count"`
	Stride int `toml:"stride" yaml:"stride"`
	Phase  int `toml:"phase" yaml:"phase"`
	Reach  int `toml:"reach" yaml:"reach"`
}

// OutputConfig selects how the chain is printed.
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
	// Query is a JSON path applied to the json rendering.
	Query string `toml:"query" yaml:"query"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// ChainConfig configures blob chains.
type ChainConfig struct {
	// MaxBlobs limits live blobs per chain. Zero means unlimited.
	MaxBlobs int `toml:"maxBlobs" yaml:"maxBlobs"`
}

// ScriptConfig configures the Lua runtime.
type ScriptConfig struct {
	// OperationLimit caps chain calls per script run. Zero means unlimited.
	OperationLimit int64 `toml:"operationLimit" yaml:"operationLimit"`
	// TimeoutMs cancels a script run after this many milliseconds. Zero
	// disables the timeout.
	TimeoutMs int `toml:"timeoutMs" yaml:"timeoutMs"`
	// WatchDebounceMs delays re-runs after a script change.
	WatchDebounceMs int `toml:"watchDebounceMs" yaml:"watchDebounceMs"`
}

// stringSettings are the string-typed settings. Environment values for them
// are used verbatim.
var stringSettings = []string{
	"output.format",
	"output.query",
	"logging.level",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Demo: DemoConfig{
			Count:  20,
			Stride: 4,
			Phase:  1,
			Reach:  2,
		},
		Output: OutputConfig{
			Format: string(snapshot.FormatBoth),
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Script: ScriptConfig{
			OperationLimit:  10_000_000,
			WatchDebounceMs: 100,
		},
	}
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path      string
	fs        loader.FileSystem
	envPrefix string
	useEnv    bool
}

// WithFile adds a TOML or YAML config file layer. A missing file is not an
// error.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithFS sets the file system used to read the config file.
func WithFS(fs loader.FileSystem) LoadOption {
	return func(o *loadOptions) {
		o.fs = fs
	}
}

// WithEnvPrefix changes the environment variable prefix.
func WithEnvPrefix(prefix string) LoadOption {
	return func(o *loadOptions) {
		o.envPrefix = prefix
	}
}

// WithoutEnv skips the environment layer.
func WithoutEnv() LoadOption {
	return func(o *loadOptions) {
		o.useEnv = false
	}
}

// Load builds a Config from defaults, the config file and the environment,
// then validates it.
func Load(opts ...LoadOption) (Config, error) {
	o := loadOptions{
		fs:        loader.DefaultFS(),
		envPrefix: EnvPrefix,
		useEnv:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var layers []loader.Loader
	if o.path != "" {
		l, err := loader.ForPath(o.fs, o.path)
		if err != nil {
			return Config{}, err
		}
		layers = append(layers, l)
	}
	if o.useEnv {
		env := loader.NewEnvLoader(o.envPrefix)
		env.KeepString(stringSettings...)
		layers = append(layers, env)
	}

	merged := make(map[string]any)
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return Config{}, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg, err := decode(merged)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode applies merged settings on top of the defaults. Settings absent
// from merged keep their default values.
func decode(merged map[string]any) (Config, error) {
	cfg := Default()
	if len(merged) == 0 {
		return cfg, nil
	}

	data, err := toml.Marshal(merged)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg, nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Demo.Count <= 0:
		return fmt.Errorf("%w: demo.count %d must be positive", ErrInvalidConfig, c.Demo.Count)
	case c.Demo.Stride <= 0:
		return fmt.Errorf("%w: demo.stride %d must be positive", ErrInvalidConfig, c.Demo.Stride)
	case c.Demo.Phase < 0 || c.Demo.Phase >= c.Demo.Stride:
		return fmt.Errorf("%w: demo.phase %d must be below demo.stride", ErrInvalidConfig, c.Demo.Phase)
	case c.Demo.Reach <= 0:
		return fmt.Errorf("%w: demo.reach %d must be positive", ErrInvalidConfig, c.Demo.Reach)
	case c.Chain.MaxBlobs < 0:
		return fmt.Errorf("%w: chain.maxBlobs %d is negative", ErrInvalidConfig, c.Chain.MaxBlobs)
	case c.Script.OperationLimit < 0:
		return fmt.Errorf("%w: script.operationLimit %d is negative", ErrInvalidConfig, c.Script.OperationLimit)
	case c.Script.TimeoutMs < 0:
		return fmt.Errorf("%w: script.timeoutMs %d is negative", ErrInvalidConfig, c.Script.TimeoutMs)
	case c.Script.WatchDebounceMs < 0:
		return fmt.Errorf("%w: script.watchDebounceMs %d is negative", ErrInvalidConfig, c.Script.WatchDebounceMs)
	case !logging.ValidLevel(c.Logging.Level):
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}
	if _, err := snapshot.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalidConfig, err)
	}
	return nil
}
