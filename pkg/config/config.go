// Package config loads phylosim configuration from a TOML file.
//
// The file carries taxon presets, generation defaults, and the backend
// settings for server mode:
//
//	[defaults]
//	policy = "binary"
//	mutation_min = 0.0
//	mutation_max = 100.0
//
//	[[preset]]
//	name = "primates"
//	taxa = ["Human", "Chimpanzee", "Gorilla", "Orangutan"]
//
//	[server]
//	addr = ":8080"
//
//	[server.redis]
//	addr = "localhost:6379"
//
//	[server.mongo]
//	uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/evoviz/phylosim/pkg/errors"
)

// Config is the root configuration document.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Presets  []Preset `toml:"preset"`
	Server   Server   `toml:"server"`
}

// Defaults are the generation parameters used when flags are omitted.
type Defaults struct {
	Policy      string  `toml:"policy"`
	KMin        int     `toml:"k_min"`
	KMax        int     `toml:"k_max"`
	MutationMin float64 `toml:"mutation_min"`
	MutationMax float64 `toml:"mutation_max"`
}

// Preset is a named taxon set selectable by name or interactively.
type Preset struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Taxa        []string `toml:"taxa"`
}

// Server configures the HTTP API and its backends.
type Server struct {
	Addr  string `toml:"addr"`
	Redis Redis  `toml:"redis"`
	Mongo Mongo  `toml:"mongo"`
}

// Redis configures the artifact cache backend. An empty Addr disables Redis
// and the server runs without an artifact cache.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Mongo configures the history backend. An empty URI disables MongoDB and
// the server falls back to an in-memory store.
type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration: the primate preset from the
// original simulator and the integer mutation range it sampled from.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Policy:      "binary",
			MutationMin: 10,
			MutationMax: 100,
		},
		Presets: []Preset{
			{
				Name:        "primates",
				Description: "Great apes divergence demo",
				Taxa:        []string{"Human", "Chimpanzee", "Gorilla", "Orangutan"},
			},
			{
				Name:        "hominins",
				Description: "Extended hominin set",
				Taxa:        []string{"Human", "Neanderthal", "Denisovan", "Chimpanzee", "Bonobo"},
			},
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads a TOML config file and merges it over the defaults.
// An empty path loads the default location (~/.config/phylosim/phylosim.toml);
// a missing default file is not an error, but a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(dir, ".config", "phylosim", "phylosim.toml")
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Presets))
	for _, p := range c.Presets {
		if p.Name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "preset with empty name")
		}
		if seen[p.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate preset name: %q", p.Name)
		}
		seen[p.Name] = true
		if err := errors.ValidateTaxonLabels(p.Taxa); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "preset %q", p.Name)
		}
	}
	return errors.ValidateMutationRange(c.Defaults.MutationMin, c.Defaults.MutationMax)
}

// Preset looks up a preset by name.
// Returns a PRESET_NOT_FOUND error if the name is unknown.
func (c *Config) Preset(name string) (Preset, error) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, errors.New(errors.ErrCodePresetNotFound, "no preset named %q", name)
}
