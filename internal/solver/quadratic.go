package solver

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/njchilds90/stepsolver/internal/symbolic"
)

var num = symbolic.FormatNumber

// Quadratic solves a·x² + b·x + c = 0 after moving every term to the left.
func (s *Solver) Quadratic(equation string) (out Outcome) {
	defer s.guard("quadratic", &out)

	left, right, found := strings.Cut(equation, "=")
	if !found {
		return failf(ErrMissingEquals, `Equation must contain "=".`)
	}
	steps := []Step{fmt.Sprintf("Rewrite: bring all terms to one side → (%s) - (%s) = 0", left, right)}

	expr, steps := s.combine(left, right, steps)
	coeffs, ok := Coefficients{}, false
	if expr != nil {
		coeffs, ok = ExtractCoefficients(expr)
	}
	if !ok || coeffs.A == 0 {
		return failf(ErrNotQuadratic, "Not a quadratic equation (a = 0) or could not parse coefficients.")
	}
	a, b, c := coeffs.A, coeffs.B, coeffs.C
	steps = append(steps, fmt.Sprintf("Identified coefficients: a = %s, b = %s, c = %s", num(a), num(b), num(c)))

	d := b*b - 4*a*c
	steps = append(steps, fmt.Sprintf("Compute discriminant: D = b² - 4ac = %s² - 4·%s·%s = %s", num(b), num(a), num(c), num(d)))

	if d < 0 {
		steps = append(steps, "Discriminant < 0 → two complex roots.")
		sq := cmplx.Sqrt(complex(d, 0))
		den := complex(2*a, 0)
		r1 := symbolic.FormatComplex((complex(-b, 0) + sq) / den)
		r2 := symbolic.FormatComplex((complex(-b, 0) - sq) / den)
		steps = append(steps, fmt.Sprintf("Roots: (-b ± √D) / (2a) → %s, %s", r1, r2))
		return success(steps, r1+", "+r2)
	}

	sq := math.Sqrt(d)
	steps = append(steps, "√D = "+num(sq))
	r1 := num((-b + sq) / (2 * a))
	r2 := num((-b - sq) / (2 * a))
	steps = append(steps, fmt.Sprintf("Roots: (-b ± √D) / (2a) → (%s ± %s) / %s => %s, %s", num(-b), num(sq), num(2*a), r1, r2))
	return success(steps, r1+", "+r2)
}

// combine simplifies (left)-(right) and records the simplification step.
// When the simplifier fails it falls back to parsing the raw combination;
// a nil expression means neither worked.
func (s *Solver) combine(left, right string, steps []Step) (symbolic.Expr, []Step) {
	combined := "(" + left + ")-(" + right + ")"
	expr, err := s.simplify(combined)
	if err == nil {
		return expr, append(steps, "Simplified to: "+expr.String())
	}
	s.logger.Debug("simplification failed", "input", combined, "error", err)
	steps = append(steps, "Could not fully simplify, using: "+combined)
	raw, err := s.parse(combined)
	if err != nil {
		return nil, steps
	}
	return raw, steps
}
