package solver

import (
	"strings"

	"github.com/njchilds90/stepsolver/internal/symbolic"
)

// Exponent simplifies an exponent expression and evaluates it when the
// simplified form is a real or complex scalar.
func (s *Solver) Exponent(expr string) (out Outcome) {
	defer s.guard("exponent", &out)

	original := strings.TrimSpace(expr)
	simplified, err := s.simplify(original)
	if err != nil {
		s.logger.Debug("exponent simplification failed", "input", original, "error", err)
		return failf(ErrSimplification, "Could not parse or simplify exponent expression.")
	}
	text := simplified.String()
	steps := []Step{"Original: " + original, "Simplified (symbolic): " + text}

	z, err := s.alg.EvalComplex(simplified, nil)
	if err != nil {
		steps = append(steps, "Expression simplified but not a single numeric result.")
		return success(steps, text)
	}
	if imag(z) == 0 {
		v := real(z)
		steps = append(steps, "Evaluated result: "+symbolic.FormatNumber(v))
		return numeric(steps, symbolic.FormatNumber(v), v)
	}
	result := symbolic.FormatComplex(z)
	steps = append(steps, "Evaluated result: "+result)
	return success(steps, result)
}
