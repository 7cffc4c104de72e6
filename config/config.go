package config

import (
	"fmt"
	"os"

	"github.com/dogmatiq/preferencekit/preference"
	"gopkg.in/yaml.v3"
)

// Config describes the preferences of one or more host types.
type Config struct {
	Types []Type `yaml:"types"`
}

// Type describes the preferences of a single host type.
type Type struct {
	// Name is the host type.
	Name string `yaml:"name"`

	// Attribute is the name of the attribute in which the host stores its
	// packed preferences. If it is empty, [preference.DefaultAttribute] is
	// used.
	Attribute string `yaml:"attribute"`

	// Preferences is the ordered list of preference keys.
	Preferences []string `yaml:"preferences"`

	// Defaults maps preference keys to their default values.
	Defaults map[string]any `yaml:"defaults"`
}

// Parse parses a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot parse preferences configuration: %w", err)
	}
	return &cfg, nil
}

// Load reads and parses the YAML configuration file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read preferences configuration: %w", err)
	}
	return Parse(data)
}

// Apply configures each host type in c within the given catalog.
//
// Default values must be booleans. Defaults for keys that are not in the
// preference list are ignored.
func (c *Config) Apply(cat *preference.Catalog) error {
	for _, t := range c.Types {
		var options []preference.Option
		if t.Attribute != "" {
			options = append(options, preference.WithAttribute(t.Attribute))
		}

		defaults := map[string]bool{}
		for k, v := range t.Defaults {
			b, err := preference.ParseDefault(v)
			if err != nil {
				return err
			}
			defaults[k] = b
		}

		r, err := cat.Configure(t.Name, t.Preferences, options...)
		if err != nil {
			return err
		}

		for k, v := range defaults {
			r.SetDefault(k, v)
		}
	}

	return nil
}
