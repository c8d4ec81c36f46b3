package solver_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/stepsolver/internal/solver"
	"github.com/njchilds90/stepsolver/internal/symbolic"
)

func newSolver(opts ...solver.Option) *solver.Solver {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return solver.New(append([]solver.Option{solver.WithLogger(quiet)}, opts...)...)
}

// ============================================================
// Arithmetic
// ============================================================

func TestArithmeticSteps(t *testing.T) {
	tests := []struct {
		in    string
		steps []string
		value float64
	}{
		{
			in:    "(2+3)*4",
			steps: []string{"Evaluate (2+3) = 5", "Evaluate 5*4 = 20"},
			value: 20,
		},
		{
			in:    "(2+(3*4))",
			steps: []string{"Evaluate (3*4) = 12", "Evaluate (2+12) = 14", "Evaluate 14 = 14"},
			value: 14,
		},
		{
			in:    "(1+1) * (2+2)",
			steps: []string{"Evaluate (1+1) = 2", "Evaluate (2+2) = 4", "Evaluate 2*4 = 8"},
			value: 8,
		},
		{
			in:    "2 ^ 10",
			steps: []string{"Evaluate 2**10 = 1024"},
			value: 1024,
		},
		{
			in:    "7 % 3",
			steps: []string{"Evaluate 7%3 = 1"},
			value: 1,
		},
		{
			in:    "1/4",
			steps: []string{"Evaluate 1/4 = 0.25"},
			value: 0.25,
		},
		{
			in:    "(0-2)^2",
			steps: []string{"Evaluate (0-2) = -2", "Evaluate (-2)**2 = 4"},
			value: 4,
		},
		{
			in:    "3-(1-4)",
			steps: []string{"Evaluate (1-4) = -3", "Evaluate 3-(-3) = 6"},
			value: 6,
		},
		{
			in:    "(1+(0-2))*3",
			steps: []string{"Evaluate (0-2) = -2", "Evaluate (1+(-2)) = -1", "Evaluate (-1)*3 = -3"},
			value: -3,
		},
	}
	s := newSolver()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out := s.Arithmetic(tt.in)
			require.NoError(t, out.Err)
			assert.Equal(t, tt.steps, out.Steps)
			require.NotNil(t, out.Result)
			require.NotNil(t, out.Result.Value)
			assert.Equal(t, tt.value, *out.Result.Value)
			assert.Equal(t, symbolic.FormatNumber(tt.value), out.Result.Text)
		})
	}
}

func TestArithmeticDivisionByZeroIsAValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1/0", "Infinity"},
		{"-1/0", "-Infinity"},
		{"0/0", "NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out := newSolver().Arithmetic(tt.in)
			require.True(t, out.OK())
			assert.Equal(t, tt.want, out.Result.Text)
			assert.Nil(t, out.Result.Value)
		})
	}
}

func TestArithmeticFailures(t *testing.T) {
	tests := []struct {
		in   string
		kind error
		msg  string
	}{
		{"2 + a", solver.ErrInvalidCharacter, "Expression contains invalid characters."},
		{"2 = 2", solver.ErrInvalidCharacter, "Expression contains invalid characters."},
		{"(1+)*2", solver.ErrEval, "Could not evaluate subexpression: 1+"},
		{"2+", solver.ErrEval, "Could not evaluate expression."},
		{"(1/0)*2", solver.ErrEval, "Could not evaluate expression."},
	}
	s := newSolver()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out := s.Arithmetic(tt.in)
			assert.ErrorIs(t, out.Err, tt.kind)
			assert.Equal(t, []string{tt.msg}, out.Steps)
			assert.Nil(t, out.Result)
		})
	}
}

// ============================================================
// Quadratic equations
// ============================================================

func TestQuadraticRealRoots(t *testing.T) {
	out := newSolver().Quadratic("x^2-5x+6=0")
	require.NoError(t, out.Err)
	assert.Equal(t, []string{
		"Rewrite: bring all terms to one side → (x^2-5x+6) - (0) = 0",
		"Simplified to: x^2 - 5*x + 6",
		"Identified coefficients: a = 1, b = -5, c = 6",
		"Compute discriminant: D = b² - 4ac = -5² - 4·1·6 = 1",
		"√D = 1",
		"Roots: (-b ± √D) / (2a) → (5 ± 1) / 2 => 3, 2",
	}, out.Steps)
	assert.Equal(t, "3, 2", out.Result.Text)
}

func TestQuadraticComplexRoots(t *testing.T) {
	s := newSolver()

	out := s.Quadratic("x^2+1=0")
	require.NoError(t, out.Err)
	assert.Contains(t, out.Steps, "Compute discriminant: D = b² - 4ac = 0² - 4·1·1 = -4")
	assert.Contains(t, out.Steps, "Discriminant < 0 → two complex roots.")
	assert.Equal(t, "i, -i", out.Result.Text)

	out = s.Quadratic("x^2 + 2x + 5 = 0")
	require.NoError(t, out.Err)
	assert.Equal(t, "-1 + 2i, -1 - 2i", out.Result.Text)
}

func TestQuadraticFailures(t *testing.T) {
	s := newSolver()

	out := s.Quadratic("x^2 - 1")
	assert.ErrorIs(t, out.Err, solver.ErrMissingEquals)
	assert.Equal(t, []string{`Equation must contain "=".`}, out.Steps)

	out = s.Quadratic("x + 1 = 0")
	assert.ErrorIs(t, out.Err, solver.ErrNotQuadratic)
	assert.Equal(t, []string{"Not a quadratic equation (a = 0) or could not parse coefficients."}, out.Steps)

	out = s.Quadratic("x^2 + y = 0")
	assert.ErrorIs(t, out.Err, solver.ErrNotQuadratic)
}

func TestQuadraticRejectsNonPolynomialForms(t *testing.T) {
	s := newSolver()

	out := s.Quadratic("sqrt(x^2) + x^2 = 4")
	assert.ErrorIs(t, out.Err, solver.ErrNotQuadratic)

	out = s.QuadraticInequality("x^18446744073709551618 - 4 < 0")
	assert.ErrorIs(t, out.Err, solver.ErrNotQuadratic)

	out = s.Exponent("y^0 * 2^18446744073709551618")
	require.NoError(t, out.Err)
	assert.Equal(t, "Infinity", out.Result.Text)
	assert.Nil(t, out.Result.Value)
}

func TestManySymbolsFailFast(t *testing.T) {
	s := newSolver()
	const power = "(a+b+c+d+e+f+g+x)^10"
	start := time.Now()

	out := s.Solve(power + " < 1")
	assert.ErrorIs(t, out.Err, solver.ErrNotQuadratic)

	out = s.Quadratic(power + " = 1")
	assert.ErrorIs(t, out.Err, solver.ErrNotQuadratic)

	out = s.Solve(power)
	require.NoError(t, out.Err)
	assert.Equal(t, "Expression simplified but not a single numeric result.", out.Steps[2])

	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestQuadraticBothSides(t *testing.T) {
	out := newSolver().Quadratic("x^2 = 4")
	require.NoError(t, out.Err)
	assert.Equal(t, "2, -2", out.Result.Text)
}

// ============================================================
// Quadratic inequalities
// ============================================================

func TestQuadraticInequality(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"x^2-1<0", "(-1, 1)"},
		{"x^2-1<=0", "[-1, 1]"},
		{"x^2-1>0", "(-∞, -1) ∪ (1, ∞)"},
		{"x^2-1>=0", "(-∞, -1] ∪ [1, ∞)"},
		{"-x^2+1<0", "(-∞, -1) ∪ (1, ∞)"},
		{"-x^2+1<=0", "(-∞, -1] ∪ [1, ∞)"},
		{"-x^2+1>0", "(-1, 1)"},
		{"-x^2+1>=0", "[-1, 1]"},
		{"x^2+1>0", "All real numbers"},
		{"-x^2-1<0", "All real numbers"},
		{"x^2+1<0", "No solution"},
	}
	s := newSolver()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out := s.QuadraticInequality(tt.in)
			require.NoError(t, out.Err)
			assert.Equal(t, tt.want, out.Result.Text)
		})
	}
}

func TestQuadraticInequalitySteps(t *testing.T) {
	out := newSolver().QuadraticInequality("x^2-1<0")
	require.NoError(t, out.Err)
	assert.Equal(t, []string{
		"Rewrite: bring all terms to one side → (x^2-1) - (0) < 0",
		"Simplified to: x^2 - 1",
		"Identified coefficients: a = 1, b = 0, c = -1",
		"Compute discriminant: D = 4",
		"Real roots: -1, 1",
		"Test intervals determined by the roots: (-∞, leftRoot), (leftRoot, rightRoot), (rightRoot, ∞)",
		"Solution based on sign of a (1) and operator <: (-1, 1)",
	}, out.Steps)
}

func TestQuadraticInequalityFailures(t *testing.T) {
	s := newSolver()

	out := s.QuadraticInequality("x^2 = 1")
	assert.ErrorIs(t, out.Err, solver.ErrNoOperator)

	out = s.QuadraticInequality("0 < x^2 < 4")
	assert.ErrorIs(t, out.Err, solver.ErrMalformedInequality)
	assert.Equal(t, []string{"Invalid inequality format."}, out.Steps)

	out = s.QuadraticInequality("x + 1 < 0")
	assert.ErrorIs(t, out.Err, solver.ErrNotQuadratic)
}

// ============================================================
// Exponents
// ============================================================

func TestExponent(t *testing.T) {
	s := newSolver()

	out := s.Exponent("x^3 * x^4")
	require.NoError(t, out.Err)
	assert.Equal(t, []string{
		"Original: x^3 * x^4",
		"Simplified (symbolic): x^7",
		"Expression simplified but not a single numeric result.",
	}, out.Steps)
	assert.Equal(t, "x^7", out.Result.Text)
	assert.Nil(t, out.Result.Value)

	out = s.Exponent(" 2^10 ")
	require.NoError(t, out.Err)
	assert.Equal(t, "Evaluated result: 1024", out.Steps[2])
	require.NotNil(t, out.Result.Value)
	assert.Equal(t, 1024.0, *out.Result.Value)

	out = s.Exponent("(-8)^(1/3)")
	require.NoError(t, out.Err)
	assert.Contains(t, out.Result.Text, "i")
	assert.Nil(t, out.Result.Value)

	out = s.Exponent("2^")
	assert.ErrorIs(t, out.Err, solver.ErrSimplification)
	assert.Equal(t, []string{"Could not parse or simplify exponent expression."}, out.Steps)
}

// ============================================================
// Coefficients
// ============================================================

func TestExtractCoefficients(t *testing.T) {
	tests := []struct {
		in   string
		want solver.Coefficients
		ok   bool
	}{
		{"2x^2 + 3x - 4", solver.Coefficients{A: 2, B: 3, C: -4}, true},
		{"-x^2 + x", solver.Coefficients{A: -1, B: 1}, true},
		{"x^2", solver.Coefficients{A: 1}, true},
		{"t^2 - 9", solver.Coefficients{A: 1, C: -9}, true},
		{"x/2 + 1", solver.Coefficients{B: 0.5, C: 1}, true},
		{"x*y", solver.Coefficients{}, false},
		{"x^3 + 1", solver.Coefficients{}, false},
		{"1/x", solver.Coefficients{}, false},
		{"0", solver.Coefficients{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := symbolic.Kernel{}.Simplify(tt.in)
			require.NoError(t, err)
			got, ok := solver.ExtractCoefficients(e)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ============================================================
// Rational equations
// ============================================================

func TestRationalExcludedByDomain(t *testing.T) {
	out, ok := newSolver().Rational("x/(x-2) = 2/(x-2)")
	require.True(t, ok)
	require.NoError(t, out.Err)
	assert.Equal(t, []string{
		"Common denominator: (x-2)",
		"Excluded values (cannot be roots): 2",
		"Rewrite as f(x)= (x/(x-2)) - (2/(x-2))",
		"Multiply both sides by common denominator and simplify: x - 2",
		"Solve polynomial: found roots 2",
		"All found roots are excluded because they make a denominator zero. No valid solutions.",
	}, out.Steps)
	assert.Equal(t, "No valid solution (excluded by domain)", out.Result.Text)
}

func TestRationalValidRoot(t *testing.T) {
	s := newSolver()

	out, ok := s.Rational("1/x = 1/2")
	require.True(t, ok)
	assert.Equal(t, "2", out.Result.Text)
	assert.Contains(t, out.Steps, "Excluded values (cannot be roots): 0")
	assert.Contains(t, out.Steps, "Multiply both sides by common denominator and simplify: -x + 2")

	out, ok = s.Rational("(x+1)/(x-1) = 3")
	require.True(t, ok)
	assert.Equal(t, "2", out.Result.Text)
}

func TestRationalNoRealSolution(t *testing.T) {
	out, ok := newSolver().Rational("1/(x^2+1) = 0")
	require.True(t, ok)
	assert.Equal(t, "No real solution found", out.Result.Text)
	assert.Contains(t, out.Steps, "No numeric roots found after clearing denominators (or roots are complex).")
}

func TestRationalNotApplicable(t *testing.T) {
	s := newSolver()
	for _, in := range []string{"x + 1 = 2", "1/x", ""} {
		_, ok := s.Rational(in)
		assert.False(t, ok, in)
	}
}

// ============================================================
// Router
// ============================================================

func TestSolveRoutes(t *testing.T) {
	tests := []struct {
		in    string
		route solver.Route
	}{
		{"(2+3)*4", solver.RouteArithmetic},
		{"x^2-1<0", solver.RouteInequality},
		{"x^2-5x+6=0", solver.RouteQuadratic},
		{"X**2 = 9", solver.RouteQuadratic},
		{"x^3 * x^4", solver.RouteExponent},
		{"price was 50 now 75", solver.RoutePercent},
		{"hello world", solver.RouteUnsupported},
		{"x + 1 = 2", solver.RouteUnsupported},
	}
	s := newSolver()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.route, s.Classify(tt.in))
		})
	}
}

func TestSolveDispatches(t *testing.T) {
	s := newSolver()

	out := s.Solve("(2+3)*4")
	require.True(t, out.OK())
	assert.Equal(t, "20", out.Result.Text)

	out = s.Solve("x^2-5x+6=0")
	require.True(t, out.OK())
	assert.Equal(t, "3, 2", out.Result.Text)

	out = s.Solve("x^2-1<=0")
	require.True(t, out.OK())
	assert.Equal(t, "[-1, 1]", out.Result.Text)

	out = s.Solve("price was 50 now 75")
	require.True(t, out.OK())
	assert.Equal(t, "50.000000% increase", out.Result.Text)

	out = s.Solve("hello world")
	assert.ErrorIs(t, out.Err, solver.ErrUnsupportedCategory)
	assert.Equal(t, []string{"Only Quadratic Equations, Exponents, Quadratic Inequalities, basic arithmetic, and percent-change sentences are supported by this solver."}, out.Steps)
	assert.Nil(t, out.Result)
}

func TestSolveIsPure(t *testing.T) {
	s := newSolver()
	for _, in := range []string{"(2+(3*4))", "x^2+1=0", "x^2-1<0", "the price was 80 and is now 60", "bad $ input"} {
		assert.Equal(t, s.Solve(in), s.Solve(in), in)
	}
}

func TestSolveNeverReturnsEmptySteps(t *testing.T) {
	s := newSolver()
	for _, in := range []string{"", "   ", "=", "<", "x<", "((", "x^2 = = 1", "1/(x-1) = ", "%", "from to"} {
		out := s.Solve(in)
		assert.NotEmpty(t, out.Steps, in)
		assert.Equal(t, out.Err == nil, out.Result != nil, in)
	}
}

type panickingAlgebra struct{ symbolic.Kernel }

func (panickingAlgebra) EvalComplex(symbolic.Expr, map[string]float64) (complex128, error) {
	panic("boom")
}

func TestSolveRecoversFromAlgebraPanics(t *testing.T) {
	s := newSolver(solver.WithAlgebra(panickingAlgebra{}))
	out := s.Solve("x^3 * x^4")
	assert.ErrorIs(t, out.Err, solver.ErrSimplification)
	assert.Len(t, out.Steps, 1)
	assert.Nil(t, out.Result)
}

func TestOutcomeJSON(t *testing.T) {
	s := newSolver()

	b, err := json.Marshal(s.Solve("(2+3)*4"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"steps":["Evaluate (2+3) = 5","Evaluate 5*4 = 20"],"result":{"text":"20","value":20}}`, string(b))

	b, err = json.Marshal(s.Solve("1/0"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"steps":["Evaluate 1/0 = Infinity"],"result":{"text":"Infinity"}}`, string(b))

	b, err = json.Marshal(s.Solve("0/0"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"steps":["Evaluate 0/0 = NaN"],"result":{"text":"NaN"}}`, string(b))

	b, err = json.Marshal(s.Arithmetic("2 + a"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"steps":["Expression contains invalid characters."],"result":null,"error":"invalid_character"}`, string(b))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "", solver.Code(nil))
	assert.Equal(t, "not_quadratic", solver.Code(&solver.SolveError{Kind: solver.ErrNotQuadratic}))
	assert.Equal(t, "internal", solver.Code(assert.AnError))
}
