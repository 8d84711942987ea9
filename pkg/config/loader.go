package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goliatone/go-promptgen/internal/logging"
)

// ProjectConfigFile is the name of the project-level config file
const ProjectConfigFile = "promptgen.yaml"

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	getwd  func() (string, error)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{
		logger: logging.OrDiscard(logger),
		getwd:  os.Getwd,
	}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. The explicit path, when given (must exist)
// 3. Otherwise promptgen.yaml in the working directory, when present
func (l *Loader) Load(explicitPath string) (*Config, error) {
	config := DefaultConfig()

	path := explicitPath
	if path == "" {
		path = l.findProjectConfig()
	}

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			l.logger.Warn("Failed to load config", slog.String("path", path), slog.String("error", err.Error()))
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", path))
		config = fileConfig
	} else {
		l.logger.Debug("No project config found")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// WriteDefault creates a config file with defaults at path unless one exists.
// It reports whether a file was written.
func (l *Loader) WriteDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := DefaultConfig().SaveToFile(path); err != nil {
		return false, err
	}

	l.logger.Info("Created default config", slog.String("path", path))
	return true, nil
}

func (l *Loader) findProjectConfig() string {
	cwd, err := l.getwd()
	if err != nil {
		return ""
	}
	configPath := filepath.Join(cwd, ProjectConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}
	return ""
}
