package symbolic

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber prints a float the way a JavaScript number prints: shortest
// round-trip digits, plain notation for magnitudes in [1e-6, 1e21),
// exponent notation outside it, "Infinity", "-Infinity" and "NaN" for
// non-finite values, and "0" for negative zero.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}

// FormatComplex prints z as "a + bi" with a unit imaginary part written as
// "i", and a real value or a pure imaginary value without the zero part.
func FormatComplex(z complex128) string {
	re, im := real(z), imag(z)
	if im == 0 {
		return FormatNumber(re)
	}
	imText := func(v float64) string {
		if v == 1 {
			return "i"
		}
		return FormatNumber(v) + "i"
	}
	if re == 0 {
		if im < 0 {
			return "-" + imText(-im)
		}
		return imText(im)
	}
	if im < 0 {
		return FormatNumber(re) + " - " + imText(-im)
	}
	return FormatNumber(re) + " + " + imText(im)
}
