package site

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/awantoch/sitefn/constants"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed site.schema.json
var schemaJSON []byte

// Config is the site configuration read from site.config.yaml.
type Config struct {
	BasePath        string         `yaml:"basePath"`
	TrailingSlash   bool           `yaml:"trailingSlash"`
	PoweredByHeader bool           `yaml:"poweredByHeader"`
	PagesDir        string         `yaml:"pagesDir"`
	PublicDir       string         `yaml:"publicDir"`
	Headers         []HeaderRule   `yaml:"headers"`
	Redirects       []Redirect     `yaml:"redirects"`
	Globals         map[string]any `yaml:"globals"`
}

// HeaderRule adds response headers to requests for an exact path.
type HeaderRule struct {
	Source  string            `yaml:"source"`
	Headers map[string]string `yaml:"headers"`
}

// Redirect sends requests for an exact path elsewhere.
type Redirect struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Permanent   bool   `yaml:"permanent"`
}

// DefaultConfig returns the configuration used when no site.config.yaml exists.
func DefaultConfig() *Config {
	return &Config{
		PoweredByHeader: true,
		PagesDir:        constants.DefaultPagesDir,
		PublicDir:       constants.DefaultPublicDir,
	}
}

// LoadConfig reads site.config.yaml from the root of fsys. A missing file
// yields DefaultConfig.
func LoadConfig(fsys fs.FS) (*Config, error) {
	data, err := fs.ReadFile(fsys, constants.SiteConfigFileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return ParseConfig(data)
}

// ParseConfig validates data against the site schema and decodes it over the
// defaults.
func ParseConfig(data []byte) (*Config, error) {
	if err := validateConfig(data); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", constants.SiteConfigFileName, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", constants.SiteConfigFileName, err)
	}
	return cfg, nil
}

func validateConfig(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	schema, err := jsonschema.CompileString(constants.SiteSchemaFile, string(schemaJSON))
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

func (c *Config) headersFor(p string) map[string]string {
	for _, rule := range c.Headers {
		if rule.Source == p {
			return rule.Headers
		}
	}
	return nil
}

func (c *Config) redirectFor(p string) (Redirect, bool) {
	for _, rd := range c.Redirects {
		if rd.Source == p {
			return rd, true
		}
	}
	return Redirect{}, false
}
