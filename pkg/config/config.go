// Package config loads modtidy configuration: built-in defaults
// embedded in the binary, optionally overridden by a modtidy.toml in
// the XDG config directory and then by one in the mod root itself.
// The loaded Config is immutable by convention; components receive
// it at construction and never write back.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/simstack/modtidy/pkg/errors"
)

// ConfigFileName is the name of the user override file.
const ConfigFileName = "modtidy.toml"

// CategoryRule maps a category folder name to the keywords that
// route a file into it. Rule order in the config file is the match
// order: first match wins.
type CategoryRule struct {
	Name     string   `koanf:"name"`
	Keywords []string `koanf:"keywords"`
}

// Scan holds thresholds for the discovery and corruption passes.
type Scan struct {
	TinyThreshold int64 `koanf:"tiny_threshold"`
	MaxDepth      int   `koanf:"max_depth"`
}

// Extensions holds the fixed extension sets that drive file kind
// classification.
type Extensions struct {
	Archive []string `koanf:"archive"`
	Package []string `koanf:"package"`
	Script  []string `koanf:"script"`
}

// Garbage holds the exact file names deleted during discovery.
type Garbage struct {
	Names []string `koanf:"names"`
}

// Versions holds the version-check feed location.
type Versions struct {
	FeedURL string `koanf:"feed_url"`
}

// Config is the main configuration structure.
type Config struct {
	Scan       Scan           `koanf:"scan"`
	Extensions Extensions     `koanf:"extensions"`
	Garbage    Garbage        `koanf:"garbage"`
	Versions   Versions       `koanf:"versions"`
	Categories []CategoryRule `koanf:"category"`
}

// Load builds the effective configuration for a run. Precedence,
// lowest first: embedded defaults, XDG config dir override, mod root
// override.
func Load(modsRoot string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	xdgPath := filepath.Join(xdg.ConfigHome, "modtidy", ConfigFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		if err := k.Load(file.Provider(xdgPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", xdgPath)
		}
	}

	if modsRoot != "" {
		rootPath := filepath.Join(modsRoot, ConfigFileName)
		if _, err := os.Stat(rootPath); err == nil {
			if err := k.Load(file.Provider(rootPath), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", rootPath)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in default configuration. The defaults
// are compiled into the binary; a parse failure here is a programming
// error, not a runtime condition.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic("config: embedded defaults failed to parse: " + err.Error())
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic("config: embedded defaults failed to unmarshal: " + err.Error())
	}
	return &cfg
}

func validate(cfg *Config) error {
	if cfg.Scan.MaxDepth < 1 {
		return errors.Newf(errors.ErrConfigValid, "scan.max_depth must be at least 1, got %d", cfg.Scan.MaxDepth)
	}
	if cfg.Scan.TinyThreshold < 0 {
		return errors.Newf(errors.ErrConfigValid, "scan.tiny_threshold must not be negative, got %d", cfg.Scan.TinyThreshold)
	}
	seen := make(map[string]bool, len(cfg.Categories))
	for _, rule := range cfg.Categories {
		if rule.Name == "" {
			return errors.New(errors.ErrConfigValid, "category rule with empty name")
		}
		if seen[rule.Name] {
			return errors.Newf(errors.ErrConfigValid, "duplicate category rule %q", rule.Name)
		}
		seen[rule.Name] = true
	}
	return nil
}
