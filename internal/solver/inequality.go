package solver

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var relational = regexp.MustCompile(`<=|>=|<|>`)

// QuadraticInequality solves a·x² + b·x + c op 0 for op in <, <=, >, >=.
func (s *Solver) QuadraticInequality(text string) (out Outcome) {
	defer s.guard("inequality", &out)

	op := relational.FindString(text)
	if op == "" {
		return failf(ErrNoOperator, "Inequality sign not found (<, <=, >, >=).")
	}
	parts := strings.Split(text, op)
	if len(parts) != 2 {
		return failf(ErrMalformedInequality, "Invalid inequality format.")
	}
	left, right := parts[0], parts[1]
	steps := []Step{fmt.Sprintf("Rewrite: bring all terms to one side → (%s) - (%s) %s 0", left, right, op)}

	expr, steps := s.combine(left, right, steps)
	coeffs, ok := Coefficients{}, false
	if expr != nil {
		coeffs, ok = ExtractCoefficients(expr)
	}
	if !ok || coeffs.A == 0 {
		return failf(ErrNotQuadratic, "Not a quadratic inequality (a = 0) or could not parse coefficients.")
	}
	a, b, c := coeffs.A, coeffs.B, coeffs.C
	steps = append(steps, fmt.Sprintf("Identified coefficients: a = %s, b = %s, c = %s", num(a), num(b), num(c)))

	d := b*b - 4*a*c
	steps = append(steps, "Compute discriminant: D = "+num(d))

	lessThan := op == "<" || op == "<="
	if d < 0 {
		steps = append(steps, "Discriminant < 0 → quadratic has no real roots.")
		switch {
		case lessThan && a < 0:
			steps = append(steps, "Since a < 0, quadratic always negative → inequality holds for all real x.")
			return success(steps, "All real numbers")
		case !lessThan && a > 0:
			steps = append(steps, "Since a > 0, quadratic always positive → inequality holds for all real x.")
			return success(steps, "All real numbers")
		default:
			steps = append(steps, "Inequality does not hold for any real x.")
			return success(steps, "No solution")
		}
	}

	r1 := (-b - math.Sqrt(d)) / (2 * a)
	r2 := (-b + math.Sqrt(d)) / (2 * a)
	l, r := num(math.Min(r1, r2)), num(math.Max(r1, r2))
	steps = append(steps,
		fmt.Sprintf("Real roots: %s, %s", l, r),
		"Test intervals determined by the roots: (-∞, leftRoot), (leftRoot, rightRoot), (rightRoot, ∞)",
	)
	solution := intervalSet(op, a > 0, l, r)
	steps = append(steps, fmt.Sprintf("Solution based on sign of a (%s) and operator %s: %s", num(a), op, solution))
	return success(steps, solution)
}

// intervalSet picks the solution set from the sign of a and the operator.
// Between the roots the quadratic has the sign opposite to a.
func intervalSet(op string, aPositive bool, l, r string) string {
	between := (op == "<" || op == "<=") == aPositive
	closed := op == "<=" || op == ">="
	switch {
	case between && closed:
		return fmt.Sprintf("[%s, %s]", l, r)
	case between:
		return fmt.Sprintf("(%s, %s)", l, r)
	case closed:
		return fmt.Sprintf("(-∞, %s] ∪ [%s, ∞)", l, r)
	default:
		return fmt.Sprintf("(-∞, %s) ∪ (%s, ∞)", l, r)
	}
}
