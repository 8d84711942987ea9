package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-promptgen/pkg/contextfile"
	"github.com/goliatone/go-promptgen/pkg/orchestrator"
)

// contextOptions collects the flags that build a render context.
type contextOptions struct {
	contextFile string
	sets        []string
	ask         []string
	useModel    bool
	presetPath  string
}

func (c *contextOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.contextFile, "context", "", "YAML or JSON file providing the render context")
	flags.StringArrayVar(&c.sets, "set", nil, "context value as key=value; dotted keys nest (repeatable)")
	flags.StringArrayVar(&c.ask, "ask", nil, "context key to prompt for interactively (repeatable)")
	flags.BoolVar(&c.useModel, "model", false, "seed the context with the extracted template model")
	flags.StringVar(&c.presetPath, "preset", "", "preset file with context defaults and overrides")
}

// transformers returns the preset transformer when one was requested.
func (c *contextOptions) transformers() ([]orchestrator.Transformer, error) {
	if strings.TrimSpace(c.presetPath) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.presetPath)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	preset, err := orchestrator.NewPresetTransformer(data)
	if err != nil {
		return nil, err
	}
	return []orchestrator.Transformer{preset}, nil
}

// build layers the context sources in increasing precedence: extracted model,
// context file, --set assignments, then interactive answers.
func (c *contextOptions) build(ctx context.Context, gen *orchestrator.Orchestrator, templateID string, p prompter) (map[string]any, error) {
	data := map[string]any{}

	if c.useModel {
		tm, err := gen.Inspect(ctx, templateID)
		if err != nil {
			return nil, err
		}
		data = contextfile.Merge(data, tm.RenderContext())
	}

	if strings.TrimSpace(c.contextFile) != "" {
		loaded, err := contextfile.Load(c.contextFile)
		if err != nil {
			return nil, err
		}
		data = contextfile.Merge(data, loaded)
	}

	if len(c.sets) > 0 {
		assigned, err := contextfile.ParseAssignments(c.sets)
		if err != nil {
			return nil, err
		}
		data = contextfile.Merge(data, assigned)
	}

	for _, key := range c.ask {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if p == nil {
			return nil, fmt.Errorf("no prompter available for %q", key)
		}
		answer, err := p.Input(ctx, key)
		if err != nil {
			return nil, err
		}
		assigned, err := contextfile.ParseAssignments([]string{key + "=" + answer})
		if err != nil {
			return nil, err
		}
		data = contextfile.Merge(data, assigned)
	}

	return data, nil
}
