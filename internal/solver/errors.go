package solver

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCharacter    = errors.New("invalid character")
	ErrEval                = errors.New("evaluation failed")
	ErrNotQuadratic        = errors.New("not a quadratic")
	ErrNoOperator          = errors.New("no relational operator")
	ErrMalformedInequality = errors.New("malformed inequality")
	ErrSimplification      = errors.New("simplification failed")
	ErrUnsupportedCategory = errors.New("unsupported category")
	ErrMissingEquals       = errors.New("missing equals sign")
)

// SolveError carries one of the sentinel kinds above plus the message shown
// to the user as the only step of a failed outcome.
type SolveError struct {
	Kind error
	Msg  string
}

func (e *SolveError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *SolveError) Unwrap() error { return e.Kind }

func failf(kind error, format string, args ...any) Outcome {
	return failure(&SolveError{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// Code returns the stable machine-readable name of err's kind, or "" for
// nil. Unknown errors map to "internal".
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCharacter):
		return "invalid_character"
	case errors.Is(err, ErrEval):
		return "eval"
	case errors.Is(err, ErrNotQuadratic):
		return "not_quadratic"
	case errors.Is(err, ErrNoOperator):
		return "no_operator"
	case errors.Is(err, ErrMalformedInequality):
		return "malformed_inequality"
	case errors.Is(err, ErrSimplification):
		return "simplification"
	case errors.Is(err, ErrUnsupportedCategory):
		return "unsupported_category"
	case errors.Is(err, ErrMissingEquals):
		return "missing_equals"
	}
	return "internal"
}
