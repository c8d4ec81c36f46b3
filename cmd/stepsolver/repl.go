package main

import (
	"github.com/spf13/cobra"

	"github.com/njchilds90/stepsolver/internal/repl"
)

func replCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Solve expressions interactively",
		Long: `Repl opens an input line. Enter solves it and shows the derivation;
pressing Enter again on the same input, or on an empty line, hides it.
Esc or Ctrl+C quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			return repl.Run(cmd.Context(), a.solver(), a.renderer(out), cmd.InOrStdin(), out)
		},
	}
}
