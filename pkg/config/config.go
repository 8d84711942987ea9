// Package config provides configuration loading and management for promptgen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-promptgen/internal/logging"
	"github.com/goliatone/go-promptgen/pkg/domain"
)

// Config represents the complete promptgen configuration.
type Config struct {
	Templates TemplatesConfig `yaml:"templates"`
	Output    OutputConfig    `yaml:"output"`
	Log       LogConfig       `yaml:"log"`
}

// TemplatesConfig configures where templates live and how they render.
type TemplatesConfig struct {
	// Dir is the template source directory (default: templates)
	Dir string `yaml:"dir"`
	// Extension is appended to template ids that have none (default: .xml)
	Extension string `yaml:"extension"`
	// AutoescapeExtensions lists markup-flavored extensions (default: [xml])
	AutoescapeExtensions []string `yaml:"autoescape_extensions"`
	// TrimBlocks removes the first newline after a block tag (default: true)
	TrimBlocks *bool `yaml:"trim_blocks"`
	// LStripBlocks strips leading whitespace before a block tag (default: true)
	LStripBlocks *bool `yaml:"lstrip_blocks"`
}

// OutputConfig configures where generated prompts are written.
type OutputConfig struct {
	// Dir is the output directory (default: outputs)
	Dir string `yaml:"dir"`
	// Prefix names generated files (default: claude_prompt)
	Prefix string `yaml:"prefix"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Templates: TemplatesConfig{
			Dir:                  "templates",
			Extension:            ".xml",
			AutoescapeExtensions: []string{"xml"},
			TrimBlocks:           boolPtr(true),
			LStripBlocks:         boolPtr(true),
		},
		Output: OutputConfig{
			Dir:    "outputs",
			Prefix: "claude_prompt",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// TrimBlocksEnabled reports the effective trim_blocks setting.
func (c TemplatesConfig) TrimBlocksEnabled() bool {
	return c.TrimBlocks == nil || *c.TrimBlocks
}

// LStripBlocksEnabled reports the effective lstrip_blocks setting.
func (c TemplatesConfig) LStripBlocksEnabled() bool {
	return c.LStripBlocks == nil || *c.LStripBlocks
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Templates.Dir) == "" {
		return invalid("templates.dir is required")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return invalid("output.dir is required")
	}
	if strings.ContainsAny(c.Output.Prefix, `/\`) {
		return invalid("output.prefix must not contain path separators")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid(fmt.Sprintf("log.level: %v", err))
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "", "text", "json":
	default:
		return invalid(fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	return nil
}

// EnsureDirectories creates the template and output directories when they do
// not exist yet.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Templates.Dir, c.Output.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return domain.New("config", domain.KindIO, dir, err)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, domain.New("config", domain.KindInvalidConfig, path, fmt.Errorf("failed to parse config file: %w", err))
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Templates
	if other.Templates.Dir != "" {
		c.Templates.Dir = other.Templates.Dir
	}
	if other.Templates.Extension != "" {
		c.Templates.Extension = other.Templates.Extension
	}
	if len(other.Templates.AutoescapeExtensions) > 0 {
		c.Templates.AutoescapeExtensions = other.Templates.AutoescapeExtensions
	}
	if other.Templates.TrimBlocks != nil {
		c.Templates.TrimBlocks = boolPtr(*other.Templates.TrimBlocks)
	}
	if other.Templates.LStripBlocks != nil {
		c.Templates.LStripBlocks = boolPtr(*other.Templates.LStripBlocks)
	}

	// Output
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.Prefix != "" {
		c.Output.Prefix = other.Output.Prefix
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}

func invalid(msg string) error {
	return domain.New("config", domain.KindInvalidConfig, "", fmt.Errorf("%s", msg))
}

func boolPtr(v bool) *bool {
	return &v
}
