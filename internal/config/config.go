// Package config loads symbolmap settings from a YAML or TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/symbolmap/internal/report"
	"github.com/phobologic/symbolmap/internal/rules"
)

// DefaultPath is read when no -config flag is given and the file exists.
const DefaultPath = "symbolmap.yaml"

// Config is the on-disk configuration.
type Config struct {
	Namespace         string  `yaml:"namespace" toml:"namespace"`
	Baseline          string  `yaml:"baseline" toml:"baseline"`
	Version           string  `yaml:"version" toml:"version"`
	Extends           string  `yaml:"extends" toml:"extends"`
	Match             string  `yaml:"match" toml:"match"`
	SourceRoot        string  `yaml:"source_root" toml:"source_root"`
	Exclude           Exclude `yaml:"exclude" toml:"exclude"`
	PureVirtualMarker string  `yaml:"pure_virtual_marker" toml:"pure_virtual_marker"`
}

// Exclude lists the rule tables. A nil list keeps the defaults; an empty
// list disables them.
type Exclude struct {
	Origins []string `yaml:"origins" toml:"origins"`
	Paths   []string `yaml:"paths" toml:"paths"`
	Names   []string `yaml:"names" toml:"names"`
}

// Default returns the configuration used for libmiral.
func Default() *Config {
	return &Config{
		Namespace: "miral",
		Baseline:  "symbols.map",
		Match:     string(report.MatchText),
		Exclude: Exclude{
			Origins: append([]string(nil), rules.DefaultOrigins...),
			Paths:   []string{},
			Names:   append([]string(nil), rules.DefaultSentinels...),
		},
		PureVirtualMarker: rules.DefaultPureVirtualMarker,
	}
}

// Load reads path over the defaults. Files ending in .toml are decoded as
// TOML, anything else as YAML. A missing file is an error unless optional is
// set, in which case the defaults are returned.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings the run cannot proceed with.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return errors.New("config: namespace must be set")
	}
	if _, err := report.ParseMatch(c.Match); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Rules compiles the exclusion tables.
func (c *Config) Rules() *rules.Rules {
	return rules.New(rules.Options{
		Origins:           c.Exclude.Origins,
		Patterns:          c.Exclude.Paths,
		Sentinels:         c.Exclude.Names,
		PureVirtualMarker: c.PureVirtualMarker,
		Root:              c.SourceRoot,
	})
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
