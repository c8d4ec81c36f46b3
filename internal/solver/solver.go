// Package solver classifies free-form math input and solves it step by
// step: arithmetic, quadratic equations and inequalities, exponent
// expressions, rational equations and percent-change sentences.
//
// Every entry point returns an Outcome and never panics. A Solver holds no
// mutable state, so one value may be shared across goroutines.
package solver

import (
	"fmt"
	"log/slog"

	"github.com/njchilds90/stepsolver/internal/symbolic"
)

// Algebra is the symbolic collaborator the solver calls for parsing,
// simplification and numeric evaluation.
type Algebra interface {
	Parse(text string) (symbolic.Expr, error)
	Simplify(text string) (symbolic.Expr, error)
	EvalFloat(e symbolic.Expr, bindings map[string]float64) float64
	EvalComplex(e symbolic.Expr, bindings map[string]float64) (complex128, error)
}

type Solver struct {
	alg    Algebra
	logger *slog.Logger
}

type Option func(*Solver)

// WithAlgebra replaces the default symbolic kernel.
func WithAlgebra(alg Algebra) Option {
	return func(s *Solver) { s.alg = alg }
}

// WithLogger sets the logger used for routing and failure diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Solver) { s.logger = logger }
}

func New(opts ...Option) *Solver {
	s := &Solver{alg: symbolic.Kernel{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// simplify wraps Algebra.Simplify so kernel panics surface as errors.
func (s *Solver) simplify(text string) (expr symbolic.Expr, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			expr, err = nil, fmt.Errorf("%w: %v", ErrSimplification, rec)
		}
	}()
	expr, err = s.alg.Simplify(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSimplification, err)
	}
	return expr, nil
}

func (s *Solver) parse(text string) (expr symbolic.Expr, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			expr, err = nil, fmt.Errorf("%w: %v", ErrSimplification, rec)
		}
	}()
	return s.alg.Parse(text)
}

// guard converts a panic escaping a solving path into a failed outcome.
func (s *Solver) guard(route string, out *Outcome) {
	if rec := recover(); rec != nil {
		*out = s.recovered(route, rec)
	}
}

func (s *Solver) recovered(route string, rec any) Outcome {
	s.logger.Error("solver panic recovered", "route", route, "panic", fmt.Sprint(rec))
	return failf(ErrSimplification, "Could not solve the expression.")
}
