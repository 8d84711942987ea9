package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-promptgen/pkg/config"
	"github.com/goliatone/go-promptgen/pkg/orchestrator"
)

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		ctxOpts contextOptions
		prefix  string
	)

	cmd := &cobra.Command{
		Use:   "generate TEMPLATE",
		Short: "Render a template and save the prompt to the output directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			gen, err := newOrchestrator(cfg, logger, &ctxOpts)
			if err != nil {
				return err
			}

			data, err := ctxOpts.build(cmd.Context(), gen, args[0], root.prompter)
			if err != nil {
				return err
			}

			location, err := gen.Generate(cmd.Context(), orchestrator.Request{
				TemplateID: args[0],
				Context:    data,
				Prefix:     prefix,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Prompt written to %s\n", location)
			return nil
		},
	}

	ctxOpts.bind(cmd)
	cmd.Flags().StringVar(&prefix, "prefix", "", "output file name prefix (overrides config)")
	return cmd
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	var ctxOpts contextOptions

	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Render a template to stdout without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			gen, err := newOrchestrator(cfg, logger, &ctxOpts)
			if err != nil {
				return err
			}

			data, err := ctxOpts.build(cmd.Context(), gen, args[0], root.prompter)
			if err != nil {
				return err
			}

			text, err := gen.Render(cmd.Context(), args[0], data)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}

	ctxOpts.bind(cmd)
	return cmd
}

func newOrchestrator(cfg *config.Config, logger *slog.Logger, ctxOpts *contextOptions) (*orchestrator.Orchestrator, error) {
	options := []orchestrator.Option{
		orchestrator.WithConfig(cfg),
		orchestrator.WithLogger(logger),
	}
	if ctxOpts != nil {
		transformers, err := ctxOpts.transformers()
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformers(transformers...))
	}
	return orchestrator.New(options...), nil
}
