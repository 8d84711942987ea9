package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	promptgen "github.com/goliatone/go-promptgen"
	"github.com/goliatone/go-promptgen/pkg/config"
)

func newInitCmd(root *rootOptions) *cobra.Command {
	var withSamples bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default config, the working directories and sample templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			path := strings.TrimSpace(root.configPath)
			if path == "" {
				path = config.ProjectConfigFile
			}

			bootstrap, err := root.bootstrapLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			written, err := config.NewLoader(bootstrap).WriteDefault(path)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(out, "Created %s\n", path)
			} else {
				fmt.Fprintf(out, "Kept existing %s\n", path)
			}

			cfg, _, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			if !withSamples {
				return nil
			}
			samples, err := promptgen.WriteSampleTemplates(cfg.Templates.Dir)
			if err != nil {
				return err
			}
			for _, sample := range samples {
				fmt.Fprintf(out, "Added %s\n", sample)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withSamples, "samples", true, "copy the sample templates into the template directory")
	return cmd
}
