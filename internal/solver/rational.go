package solver

import (
	"math"
	"regexp"
	"strings"

	"github.com/njchilds90/stepsolver/internal/symbolic"
)

var denominator = regexp.MustCompile(`/\s*(\([^)]+\)|[A-Za-z0-9+\-^]+)`)

const excludedDedupeTol = 1e-8

// Rational solves an equation with variable denominators by clearing them
// and root-searching the result, discarding roots that make a denominator
// zero. The second result is false when text is not an equation or has no
// denominator.
func (s *Solver) Rational(equation string) (out Outcome, applicable bool) {
	defer func() {
		if rec := recover(); rec != nil {
			out, applicable = s.recovered("rational", rec), true
		}
	}()

	eq := strings.ReplaceAll(whitespace.ReplaceAllString(equation, ""), "^", "**")
	left, right, found := strings.Cut(eq, "=")
	if !found {
		return Outcome{}, false
	}

	var denoms []string
	seen := map[string]bool{}
	for _, side := range []string{left, right} {
		for _, m := range denominator.FindAllStringSubmatch(side, -1) {
			d := m[1]
			if strings.HasPrefix(d, "(") && strings.HasSuffix(d, ")") {
				d = d[1 : len(d)-1]
			}
			if !seen[d] {
				seen[d] = true
				denoms = append(denoms, d)
			}
		}
	}
	if len(denoms) == 0 {
		return Outcome{}, false
	}

	wrapped := make([]string, len(denoms))
	for i, d := range denoms {
		wrapped[i] = "(" + d + ")"
	}
	commonDen := strings.Join(wrapped, "*")
	steps := []Step{"Common denominator: " + commonDen}

	var excluded []float64
	for _, d := range denoms {
		node, err := s.parse(d)
		if err != nil {
			s.logger.Debug("denominator not parsed", "denominator", d, "error", err)
			continue
		}
		for _, r := range s.roots(node) {
			if !near(excluded, r, excludedDedupeTol) {
				excluded = append(excluded, r)
			}
		}
	}
	if len(excluded) > 0 {
		steps = append(steps, "Excluded values (cannot be roots): "+joinNumbers(excluded))
	}

	combined := "(" + left + ")-(" + right + ")"
	steps = append(steps, "Rewrite as f(x)= ("+left+") - ("+right+")")
	multiplied := "(" + combined + ")*(" + commonDen + ")"

	var cleared symbolic.Expr
	text := multiplied
	if expr, err := s.simplify(multiplied); err == nil {
		cleared, text = expr, expr.String()
	} else if raw, perr := s.parse(multiplied); perr == nil {
		cleared = raw
	}
	steps = append(steps, "Multiply both sides by common denominator and simplify: "+text)

	var roots []float64
	if cleared != nil {
		roots = s.roots(cleared)
	}
	if len(roots) == 0 {
		steps = append(steps, "No numeric roots found after clearing denominators (or roots are complex).")
		return success(steps, "No real solution found"), true
	}
	steps = append(steps, "Solve polynomial: found roots "+joinNumbers(roots))

	var valid []float64
	for _, r := range roots {
		if !near(excluded, r, rootDedupeTol) {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		steps = append(steps, "All found roots are excluded because they make a denominator zero. No valid solutions.")
		return success(steps, "No valid solution (excluded by domain)"), true
	}
	joined := joinNumbers(valid)
	steps = append(steps, "Valid solutions after excluding forbidden values: "+joined)
	return success(steps, joined), true
}

// roots searches expr in its first free symbol, x when there is none.
func (s *Solver) roots(expr symbolic.Expr) []float64 {
	variable := "x"
	if syms := symbolic.SortedSymbols(expr); len(syms) > 0 {
		variable = syms[0]
	}
	bindings := map[string]float64{}
	return NumericRoots(func(v float64) float64 {
		bindings[variable] = v
		return s.alg.EvalFloat(expr, bindings)
	})
}

func near(values []float64, v, tol float64) bool {
	for _, e := range values {
		if math.Abs(e-v) < tol {
			return true
		}
	}
	return false
}

func joinNumbers(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = symbolic.FormatNumber(v)
	}
	return strings.Join(parts, ", ")
}
