package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chazu/csgtree/internal/config"
	"github.com/chazu/csgtree/pkg/csg"
)

func newTreeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the CSG term tree of a model",
		Long: `Evaluate a model and print its CSG term tree together with the
highlight and background lists. No meshes are produced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			p, err := c.previewer()
			if err != nil {
				return err
			}
			r := p.Compile(source)
			if err := report(cmd, r); err != nil {
				return err
			}
			return writeTree(cmd.OutOrStdout(), c.cfg.OutputFormat, r.CSG)
		},
	}
}

func writeTree(w io.Writer, format string, res csg.Result) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res.Document()); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Document())
	}

	root := "(empty)"
	if res.Root != nil {
		root = res.Root.String()
	}
	fmt.Fprintf(w, "root: %s\n", root)
	for _, t := range res.Highlights {
		fmt.Fprintf(w, "highlight: %s\n", t)
	}
	for _, t := range res.Backgrounds {
		fmt.Fprintf(w, "background: %s\n", t)
	}
	return nil
}
