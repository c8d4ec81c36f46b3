package symbolic

import (
	"encoding/json"
	"fmt"
)

// Kernel bundles the parse, simplify and evaluate entry points behind one
// value so callers can depend on an interface and swap in a fake.
// The zero value is ready to use and safe for concurrent calls.
type Kernel struct{}

// Parse parses text without expanding it.
func (Kernel) Parse(text string) (Expr, error) { return Parse(text) }

// Simplify parses text, expands products and collects like terms.
// Exact-arithmetic panics (a zero denominator inside a literal) are
// returned as errors.
func (Kernel) Simplify(text string) (expr Expr, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			expr, err = nil, fmt.Errorf("simplify %q: %v", text, rec)
		}
	}()
	e, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Expand(e), nil
}

func (Kernel) EvalFloat(e Expr, bindings map[string]float64) float64 {
	return EvalFloat(e, bindings)
}

func (Kernel) EvalComplex(e Expr, bindings map[string]float64) (complex128, error) {
	return EvalComplex(e, bindings)
}

// ============================================================
// JSON Serialization
// ============================================================

func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// Tree returns the JSON-ready map form of e for embedding in responses.
func Tree(e Expr) map[string]interface{} { return e.toJSON() }
