// Package config loads the per-project settings file read by the idomc
// build and check commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the project root
const FileName = "idomc.yaml"

// DefaultOutDir is used when outDir is not configured
const DefaultOutDir = "dist/idomc"

// ProjectConfig represents the project configuration
type ProjectConfig struct {
	PreserveWhitespaces bool     `yaml:"preserveWhitespaces"`
	KeyAttribute        string   `yaml:"keyAttribute"`
	OutDir              string   `yaml:"outDir"`
	Exclude             []string `yaml:"exclude"`
}

// NewProjectConfig creates a new ProjectConfig with optional parameters
func NewProjectConfig(opts ...Option) *ProjectConfig {
	config := &ProjectConfig{
		OutDir: DefaultOutDir,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// Option is a function that modifies ProjectConfig
type Option func(*ProjectConfig)

// WithPreserveWhitespaces sets whether to preserve whitespaces
func WithPreserveWhitespaces(preserve bool) Option {
	return func(c *ProjectConfig) {
		c.PreserveWhitespaces = preserve
	}
}

// WithKeyAttribute sets the attribute that supplies element keys
func WithKeyAttribute(name string) Option {
	return func(c *ProjectConfig) {
		c.KeyAttribute = name
	}
}

// WithOutDir sets the output directory
func WithOutDir(dir string) Option {
	return func(c *ProjectConfig) {
		c.OutDir = dir
	}
}

// WithExclude appends exclusion patterns
func WithExclude(patterns ...string) Option {
	return func(c *ProjectConfig) {
		c.Exclude = append(c.Exclude, patterns...)
	}
}

// Parse decodes a settings document on top of the defaults. Unknown keys
// are rejected.
func Parse(data []byte) (*ProjectConfig, error) {
	config := NewProjectConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Load reads and parses a settings file
func Load(file string) (*ProjectConfig, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return config, nil
}

// Find loads FileName from root, falling back to the defaults when the
// file does not exist.
func Find(root string) (*ProjectConfig, error) {
	config, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return NewProjectConfig(), nil
	}
	return config, err
}

// Validate checks the exclusion patterns
func (c *ProjectConfig) Validate() error {
	for _, pattern := range c.Exclude {
		if _, err := path.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// ResolveOutDir returns OutDir made absolute against root
func (c *ProjectConfig) ResolveOutDir(root string) string {
	dir := c.OutDir
	if dir == "" {
		dir = DefaultOutDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, filepath.FromSlash(dir))
}
