package solver

import (
	"math"

	"github.com/njchilds90/stepsolver/internal/symbolic"
)

// Coefficients of a·v² + b·v + c.
type Coefficients struct {
	A, B, C float64
}

// ExtractCoefficients reads (a, b, c) off a simplified expression tree in
// its single free symbol (x when there is none). It fails when the tree has
// more than one symbol, is not a polynomial of degree at most 2, has a
// coefficient that does not evaluate to a finite number, or when
// a = b = c = 0.
func ExtractCoefficients(expr symbolic.Expr) (Coefficients, bool) {
	syms := symbolic.SortedSymbols(expr)
	if len(syms) > 1 {
		return Coefficients{}, false
	}
	variable := "x"
	if len(syms) == 1 {
		variable = syms[0]
	}

	coeffs, ok := symbolic.PolyCoeffs(expr, variable)
	if !ok {
		return Coefficients{}, false
	}
	var values [3]float64
	for deg, c := range coeffs {
		if deg > 2 {
			if n, isNum := c.(*symbolic.Num); isNum && n.IsZero() {
				continue
			}
			return Coefficients{}, false
		}
		v := symbolic.EvalFloat(c, nil)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Coefficients{}, false
		}
		values[deg] = v
	}

	out := Coefficients{A: values[2], B: values[1], C: values[0]}
	if out.A == 0 && out.B == 0 && out.C == 0 {
		return Coefficients{}, false
	}
	return out, true
}
