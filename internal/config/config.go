// Package config loads the recipe configuration.
//
// Values are layered: built-in defaults, then an optional recipe.toml (or an
// explicit --config file), then RECIPE_* environment variables. Nested keys
// use "__" in environment variable names, e.g. RECIPE_CONAN__PROFILE.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

const (
	FileName  = "recipe.toml"
	EnvPrefix = "RECIPE_"
)

type Folders struct {
	Build   string `koanf:"build" toml:"build"`
	Package string `koanf:"package" toml:"package"`
}

type Generate struct {
	// BinaryPatterns selects the files copied from dependency bin dirs.
	BinaryPatterns []string `koanf:"binary_patterns" toml:"binary_patterns"`
}

type Conan struct {
	Executable      string            `koanf:"executable" toml:"executable"`
	RequiredVersion string            `koanf:"required_version" toml:"required_version"`
	Build           string            `koanf:"build" toml:"build"`
	Profile         string            `koanf:"profile" toml:"profile,omitempty"`
	Options         []string          `koanf:"options" toml:"options"`
	Settings        map[string]string `koanf:"settings" toml:"settings,omitempty"`
}

type Log struct {
	Verbosity int `koanf:"verbosity" toml:"verbosity"`
}

type Config struct {
	Sidecar       string   `koanf:"sidecar" toml:"sidecar"`
	GeneratedFile string   `koanf:"generated_file" toml:"generated_file"`
	Folders       Folders  `koanf:"folders" toml:"folders"`
	Generate      Generate `koanf:"generate" toml:"generate"`
	Conan         Conan    `koanf:"conan" toml:"conan"`
	Log           Log      `koanf:"log" toml:"log"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"sidecar":                  "name-version.txt",
		"generated_file":           "conan-packages.cmake",
		"folders.build":            "build",
		"folders.package":          "package",
		"generate.binary_patterns": []string{"*.dll"},
		"conan.executable":         "conan",
		"conan.required_version":   ">=2.0",
		"conan.build":              "missing",
		"conan.options":            []string{"*:shared=True"},
		"log.verbosity":            0,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := load(nil)
	if err != nil {
		// defaults are static and always decode
		panic(err)
	}
	return cfg
}

// Load builds the configuration for a recipe directory. When configPath is
// empty, <recipeDir>/recipe.toml is used if it exists.
func Load(recipeDir, configPath string) (*Config, error) {
	if configPath == "" {
		candidate := filepath.Join(recipeDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			configPath = candidate
		}
	}
	return load(func(k *koanf.Koanf) error {
		if configPath != "" {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return fmt.Errorf("config: failed to load %s: %w", configPath, err)
			}
		}
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return fmt.Errorf("config: failed to load environment: %w", err)
		}
		return nil
	})
}

func load(overlay func(k *koanf.Koanf) error) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}
	if overlay != nil {
		if err := overlay(k); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// RECIPE_CONAN__REQUIRED_VERSION -> conan.required_version
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// ResolveFolder returns folder made absolute against base.
func ResolveFolder(base, folder string) string {
	if filepath.IsAbs(folder) {
		return filepath.Clean(folder)
	}
	return filepath.Join(base, folder)
}

// TOML encodes the configuration.
func (c *Config) TOML() ([]byte, error) {
	return gotoml.Marshal(c)
}
