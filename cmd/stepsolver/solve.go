package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/stepsolver/internal/solver"
)

// jsonResult is the --json form of a single solve.
type jsonResult struct {
	Input   string         `json:"input"`
	Route   string         `json:"route"`
	Outcome solver.Outcome `json:"outcome"`
}

func solveCmd(a *app) *cobra.Command {
	var extract, asJSON bool
	cmd := &cobra.Command{
		Use:   "solve [expression...]",
		Short: "Solve one expression, equation, inequality or percent-change sentence",
		Long: `Solve joins its arguments into one input, or reads stdin when none are
given, and prints the derivation followed by the result.

With --extract the first arithmetic expression or equation is pulled out
of noisy pasted text before solving.`,
		Example: `  stepsolver solve "(2+3)*4"
  stepsolver solve "x^2 - 5x + 6 = 0"
  stepsolver solve "x^2 - 1 < 0"
  stepsolver solve "the price dropped from 200 to 150"
  echo "Total: 12,5 * 4 items" | stepsolver solve --extract`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if extract {
				found, ok := solver.ExtractNumericExpression(input)
				if !ok {
					return errors.New("no numeric expression found in input")
				}
				input = found
			}
			s := a.solver()
			return a.emit(cmd, input, string(s.Classify(input)), s.Solve(input), asJSON)
		},
	}
	cmd.Flags().BoolVar(&extract, "extract", false, "extract the numeric expression from noisy text first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return cmd
}

func rationalCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "rational [equation...]",
		Short: "Solve an equation with a variable in a denominator",
		Example: `  stepsolver rational "1/x = 1/2"
  stepsolver rational "(x+1)/(x-1) = 3"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out, ok := a.solver().Rational(input)
			if !ok {
				return fmt.Errorf("not a rational equation: %q", input)
			}
			return a.emit(cmd, input, "rational", out, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", errors.New("no input given")
	}
	return input, nil
}

// emit prints an outcome and returns errUnsolved when it failed.
func (a *app) emit(cmd *cobra.Command, input, route string, out solver.Outcome, asJSON bool) error {
	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonResult{Input: input, Route: route, Outcome: out}); err != nil {
			return fmt.Errorf("failed to encode outcome: %w", err)
		}
	} else {
		fmt.Fprint(w, a.renderer(w).Outcome(out))
	}
	if !out.OK() {
		return errUnsolved
	}
	return nil
}
