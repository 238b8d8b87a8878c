package config

import (
	"io"
	"os"

	"github.com/changekeeper/changekeeper/pkg/params"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultDir is where changelog files live when the configuration doesn't
// say otherwise.
const DefaultDir = "db/changelogs"

type (
	// Property pre-seeds a changelog parameter from project configuration.
	// These behave exactly like --property directives except that they are
	// registered before any file is parsed, so they win over in-file
	// redefinitions.
	Property struct {
		// Name and Value define the parameter substituted for ${name}.
		Name  string `yaml:"name"`
		Value string `yaml:"value"`

		// Context, Labels, and Dbms scope when the parameter applies; they
		// are stored with the value for the execution engine.
		Context string `yaml:"context,omitempty"`
		Labels  string `yaml:"labels,omitempty"`
		Dbms    string `yaml:"dbms,omitempty"`

		// Global defaults to true. A non-global property is bound to the
		// changelog it is first used with.
		Global *bool `yaml:"global,omitempty"`
	}

	// Config represents the project configuration for changelog management.
	Config struct {
		// Dir specifies the directory where changelog files are stored.
		Dir string `yaml:"dir"`

		// Properties holds parameters registered before parsing begins.
		Properties []Property `yaml:"properties,omitempty"`
	}
)

// LoadConfig parses a project configuration from the provided io.Reader.
// The reader is expected to hold YAML; a missing dir falls back to
// DefaultDir.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}

	return &cfg, nil
}

// LoadConfigFile loads the configuration from the named file.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

// Parameters builds a parameter registry seeded with the configured
// properties, in declaration order.
func (c *Config) Parameters() *params.Parameters {
	p := params.New()
	for _, prop := range c.Properties {
		global := prop.Global == nil || *prop.Global
		p.Set(prop.Name, prop.Value, prop.Context, prop.Labels, prop.Dbms, global, nil)
	}
	return p
}
