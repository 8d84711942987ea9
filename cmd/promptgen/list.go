package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-promptgen/pkg/catalog"
)

func newListCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [PATTERN...]",
		Short: "List templates in the template directory",
		Long:  "List templates in the template directory. Patterns use doublestar syntax, e.g. '**/*.xml'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			entries, err := catalog.New(os.DirFS(cfg.Templates.Dir), cfg.Templates.AutoescapeExtensions...).List(args...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "(no templates found in %s)\n", cfg.Templates.Dir)
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED\tESCAPED")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n",
					entry.Name,
					humanize.Bytes(uint64(entry.Size)),
					humanize.Time(entry.ModTime),
					entry.Markup,
				)
			}
			return tw.Flush()
		},
	}
	return cmd
}
