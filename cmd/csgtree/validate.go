package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/csgtree/pkg/graph"
)

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Evaluate a model and report structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			tree, evalErrs, err := c.engine().Evaluate(source)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(evalErrs) > 0 {
				for _, e := range evalErrs {
					fmt.Fprintf(out, "%s\n", e.Error())
				}
				return fmt.Errorf("%d evaluation error(s)", len(evalErrs))
			}

			findings := graph.Validate(tree)
			for _, f := range findings {
				fmt.Fprintln(out, f.Error())
			}
			if graph.HasErrors(findings) {
				return fmt.Errorf("model is invalid")
			}
			fmt.Fprintf(out, "ok: %d nodes, %d findings\n", tree.NodeCount(), len(findings))
			return nil
		},
	}
}
