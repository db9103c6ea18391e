// Package config provides the configuration system for textblob.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← TEXTBLOB_DEMO_COUNT=30
//	├─────────────────────────────┤
//	│  2. Config File             │  ← textblob.toml or textblob.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on top of the loaded Config.
//
// # Usage
//
//	cfg, err := config.Load(config.WithFile("textblob.toml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Demo.Count)
//
// # Sub-packages
//
//   - loader: Configuration file loading (TOML, YAML, environment variables)
package config
