package symbolic

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrUnbound is returned by EvalComplex when a symbol has no binding.
var ErrUnbound = errors.New("unbound symbol")

// EvalFloat evaluates e in float64 arithmetic. Division by zero and other
// domain violations produce ±Inf or NaN rather than an error; an unbound
// symbol evaluates to NaN.
func EvalFloat(e Expr, bindings map[string]float64) float64 {
	switch v := e.(type) {
	case *Num:
		return v.Float64()
	case *Sym:
		if x, ok := bindings[v.name]; ok {
			return x
		}
		return math.NaN()
	case *Add:
		acc := 0.0
		for _, t := range v.terms {
			acc += EvalFloat(t, bindings)
		}
		return acc
	case *Mul:
		acc := 1.0
		for _, f := range v.factors {
			acc *= EvalFloat(f, bindings)
		}
		return acc
	case *Pow:
		return math.Pow(EvalFloat(v.base, bindings), EvalFloat(v.exp, bindings))
	case *Func:
		return applyReal(v.name, EvalFloat(v.arg, bindings))
	}
	return math.NaN()
}

func applyReal(name string, x float64) float64 {
	switch name {
	case "sin":
		return math.Sin(x)
	case "cos":
		return math.Cos(x)
	case "tan":
		return math.Tan(x)
	case "exp":
		return math.Exp(x)
	case "ln":
		return math.Log(x)
	case "abs":
		return math.Abs(x)
	}
	return math.NaN()
}

// EvalComplex evaluates e over the complex numbers, so (-8)^(1/3) has a
// value. Real powers with a non-negative base or an integer exponent use
// math.Pow to keep exact integer results such as 2^10.
func EvalComplex(e Expr, bindings map[string]float64) (complex128, error) {
	switch v := e.(type) {
	case *Num:
		return complex(v.Float64(), 0), nil
	case *Sym:
		if x, ok := bindings[v.name]; ok {
			return complex(x, 0), nil
		}
		return 0, fmt.Errorf("%w: %s", ErrUnbound, v.name)
	case *Add:
		var acc complex128
		for _, t := range v.terms {
			z, err := EvalComplex(t, bindings)
			if err != nil {
				return 0, err
			}
			acc += z
		}
		return acc, nil
	case *Mul:
		acc := complex(1, 0)
		for _, f := range v.factors {
			z, err := EvalComplex(f, bindings)
			if err != nil {
				return 0, err
			}
			acc *= z
		}
		return acc, nil
	case *Pow:
		b, err := EvalComplex(v.base, bindings)
		if err != nil {
			return 0, err
		}
		x, err := EvalComplex(v.exp, bindings)
		if err != nil {
			return 0, err
		}
		if imag(b) == 0 && imag(x) == 0 && (real(b) >= 0 || real(x) == math.Trunc(real(x))) {
			return complex(math.Pow(real(b), real(x)), 0), nil
		}
		return cmplx.Pow(b, x), nil
	case *Func:
		z, err := EvalComplex(v.arg, bindings)
		if err != nil {
			return 0, err
		}
		return applyComplex(v.name, z), nil
	}
	return 0, fmt.Errorf("cannot evaluate %s", e.exprType())
}

func applyComplex(name string, z complex128) complex128 {
	if imag(z) == 0 && (name != "ln" || real(z) > 0) {
		return complex(applyReal(name, real(z)), 0)
	}
	switch name {
	case "sin":
		return cmplx.Sin(z)
	case "cos":
		return cmplx.Cos(z)
	case "tan":
		return cmplx.Tan(z)
	case "exp":
		return cmplx.Exp(z)
	case "ln":
		return cmplx.Log(z)
	case "abs":
		return complex(cmplx.Abs(z), 0)
	}
	return cmplx.NaN()
}

// Bind returns f(x) = EvalFloat(e, {varName: x}) for repeated sampling.
func Bind(e Expr, varName string) func(float64) float64 {
	bindings := map[string]float64{}
	return func(x float64) float64 {
		bindings[varName] = x
		return EvalFloat(e, bindings)
	}
}
