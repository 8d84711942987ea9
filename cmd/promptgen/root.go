package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-promptgen/internal/logging"
	"github.com/goliatone/go-promptgen/pkg/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	templateDir string
	outputDir   string
	logLevel    string
	logFormat   string

	prompter prompter
}

func newRootCmd(p prompter) *cobra.Command {
	opts := &rootOptions{prompter: p}

	cmd := &cobra.Command{
		Use:           "promptgen",
		Short:         "Render XML prompt templates into saved prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default: ./"+config.ProjectConfigFile+" when present)")
	flags.StringVar(&opts.templateDir, "templates", "", "template directory (overrides config)")
	flags.StringVar(&opts.outputDir, "output", "", "output directory (overrides config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newRenderCmd(opts),
		newInspectCmd(opts),
		newListCmd(opts),
		newInitCmd(opts),
	)
	return cmd
}

// setup loads the configuration, applies flag overrides and builds the
// logger. Logs go to errOut so stdout stays clean for rendered output.
func (o *rootOptions) setup(errOut io.Writer) (*config.Config, *slog.Logger, error) {
	bootstrap, err := o.bootstrapLogger(errOut)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.NewLoader(bootstrap).Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	o.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: errOut,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// bootstrapLogger serves config loading, before the configured level is known.
func (o *rootOptions) bootstrapLogger(errOut io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Config{
		Level:  firstNonEmpty(o.logLevel, "warn"),
		Format: o.logFormat,
		Writer: errOut,
	})
}

func (o *rootOptions) applyOverrides(cfg *config.Config) {
	if dir := strings.TrimSpace(o.templateDir); dir != "" {
		cfg.Templates.Dir = dir
	}
	if dir := strings.TrimSpace(o.outputDir); dir != "" {
		cfg.Output.Dir = dir
	}
	if level := strings.TrimSpace(o.logLevel); level != "" {
		cfg.Log.Level = level
	}
	if format := strings.TrimSpace(o.logFormat); format != "" {
		cfg.Log.Format = format
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
