package solver

import (
	"math"
	"regexp"
	"strings"

	"github.com/njchilds90/stepsolver/internal/symbolic"
)

var (
	// innermostGroup matches a group whose only nested groups are
	// substituted negative values such as (-2).
	innermostGroup = regexp.MustCompile(`\((?:[^()]|\(-[0-9.]+\))*\)`)
	negativeValue  = regexp.MustCompile(`^\(-[0-9.]+\)$`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// Arithmetic evaluates a numeric expression one innermost parenthesized
// group at a time, leftmost first, recording each substitution as a step.
func (s *Solver) Arithmetic(expression string) (out Outcome) {
	defer s.guard("arithmetic", &out)

	if !Validate(expression) {
		return failf(ErrInvalidCharacter, "Expression contains invalid characters.")
	}
	expr := strings.ReplaceAll(whitespace.ReplaceAllString(expression, ""), "^", "**")

	var steps []Step
	for {
		at := nextGroup(expr)
		if at == nil {
			break
		}
		group := expr[at[0]:at[1]]
		inner := group[1 : len(group)-1]
		v, err := EvaluateFlat(inner)
		if err != nil {
			s.logger.Debug("subexpression failed", "inner", inner, "error", err)
			return failf(ErrEval, "Could not evaluate subexpression: %s", inner)
		}
		text := symbolic.FormatNumber(v)
		steps = append(steps, "Evaluate "+group+" = "+text)
		// A negative value keeps its parentheses so (0-2)^2 stays (-2)**2.
		if v < 0 && !math.IsInf(v, -1) {
			text = "(" + text + ")"
		}
		expr = expr[:at[0]] + text + expr[at[1]:]
	}

	v, err := EvaluateFlat(expr)
	if err != nil {
		s.logger.Debug("expression failed", "expr", expr, "error", err)
		return failf(ErrEval, "Could not evaluate expression.")
	}
	text := symbolic.FormatNumber(v)
	steps = append(steps, "Evaluate "+expr+" = "+text)
	return numeric(steps, text, v)
}

// nextGroup locates the leftmost innermost group that is not already a
// substituted negative value.
func nextGroup(expr string) []int {
	for _, loc := range innermostGroup.FindAllStringIndex(expr, -1) {
		if !negativeValue.MatchString(expr[loc[0]:loc[1]]) {
			return loc
		}
	}
	return nil
}
