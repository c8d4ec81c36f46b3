package symbolic

import "sort"

// ============================================================
// Expansion
// ============================================================

// Expand distributes products over sums and integer powers of sums.
// Matching factors are merged before distributing, so a factor that
// cancels a denominator does so before the sum is split into terms.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

const (
	// maxExpandPower bounds (a+b)^n expansion.
	maxExpandPower = 10
	// maxExpandTerms bounds the number of terms a single product or power
	// may expand into. Larger ones are left factored.
	maxExpandTerms = 512
)

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		expanded := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			expanded[i] = expandExpr(f)
		}
		combined := MulOf(expanded...)
		m, ok := combined.(*Mul)
		if !ok {
			if p, isPow := combined.(*Pow); isPow {
				return expandExpr(p)
			}
			return combined
		}
		target := -1
		for i, f := range m.factors {
			if _, isAdd := f.(*Add); !isAdd {
				continue
			}
			if target < 0 {
				target = i
			}
			if hasNegativePower(f) {
				target = i
				break
			}
		}
		if target < 0 || productTerms(m.factors) > maxExpandTerms {
			return combined
		}
		rest := make([]Expr, 0, len(m.factors)-1)
		for i, f := range m.factors {
			if i != target {
				rest = append(rest, f)
			}
		}
		sum := m.factors[target].(*Add)
		terms := make([]Expr, len(sum.terms))
		for k, t := range sum.terms {
			terms[k] = expandExpr(MulOf(append([]Expr{t}, rest...)...))
		}
		return AddOf(terms...)
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok {
			exp, small := n.Int64()
			sum, isAdd := base.(*Add)
			if small && isAdd && exp >= 2 && exp <= maxExpandPower &&
				multinomialTerms(len(sum.terms), exp) <= maxExpandTerms {
				result := Expr(sum)
				for i := int64(1); i < exp; i++ {
					result = distribute(result, sum)
				}
				return result
			}
		}
		return PowOf(base, v.exp)
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

// productTerms is the number of terms distributing factors would produce
// before like terms are collected, capped just past maxExpandTerms.
func productTerms(factors []Expr) int {
	n := 1
	for _, f := range factors {
		n *= len(termsOf(f))
		if n > maxExpandTerms {
			return maxExpandTerms + 1
		}
	}
	return n
}

// multinomialTerms is the number of distinct monomials in (t1+...+tn)^k,
// C(n+k-1, k), capped just past maxExpandTerms.
func multinomialTerms(n int, k int64) int {
	c := 1
	for i := 1; i <= int(k); i++ {
		c = c * (n + i - 1) / i
		if c > maxExpandTerms {
			return maxExpandTerms + 1
		}
	}
	return c
}

// distribute multiplies two expanded expressions term by term without
// regrouping the sums themselves into a power.
func distribute(a, b Expr) Expr {
	left, right := termsOf(a), termsOf(b)
	products := make([]Expr, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			products = append(products, expandExpr(MulOf(l, r)))
		}
	}
	return AddOf(products...)
}

func termsOf(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

func hasNegativePower(e Expr) bool {
	switch v := e.(type) {
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsNegative() {
			return true
		}
		return hasNegativePower(v.base)
	case *Add:
		for _, t := range v.terms {
			if hasNegativePower(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if hasNegativePower(f) {
				return true
			}
		}
	case *Func:
		return hasNegativePower(v.arg)
	}
	return false
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// SortedSymbols returns the free symbols of e in lexical order.
func SortedSymbols(e Expr) []string {
	set := FreeSymbols(e)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// ============================================================
// Polynomial utilities
// ============================================================

// Degree returns the degree of expr in varName, or -1 when expr is not a
// polynomial in varName (negative or symbolic powers, functions of it).
func Degree(expr Expr, varName string) int {
	switch v := expr.(type) {
	case *Num:
		return 0
	case *Sym:
		if v.name == varName {
			return 1
		}
		return 0
	case *Pow:
		if !dependsOn(v, varName) {
			return 0
		}
		if sym, ok := v.base.(*Sym); ok && sym.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && !n.IsNegative() {
				if d, small := n.Int64(); small {
					return int(d)
				}
			}
		}
		return -1
	case *Add:
		maxDeg := 0
		for _, t := range v.terms {
			d := Degree(t, varName)
			if d < 0 {
				return -1
			}
			maxDeg = max(maxDeg, d)
		}
		return maxDeg
	case *Mul:
		totalDeg := 0
		for _, f := range v.factors {
			d := Degree(f, varName)
			if d < 0 {
				return -1
			}
			totalDeg += d
		}
		return totalDeg
	case *Func:
		if dependsOn(v, varName) {
			return -1
		}
		return 0
	}
	return -1
}

func dependsOn(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}

// totalDegree orders terms for printing: the sum of integer exponents of
// every symbol in the term.
func totalDegree(e Expr) int {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			if d, small := n.Int64(); small && d >= -maxExactPower && d <= maxExactPower {
				return int(d) * totalDegree(v.base)
			}
		}
		return 0
	case *Mul:
		d := 0
		for _, f := range v.factors {
			d += totalDegree(f)
		}
		return d
	}
	return 0
}

type PolyCoeffsResult map[int]Expr

// PolyCoeffs groups the terms of an expanded polynomial by degree in
// varName. The second result is false when expr is not a polynomial in
// varName.
func PolyCoeffs(expr Expr, varName string) (PolyCoeffsResult, bool) {
	result := PolyCoeffsResult{}
	for _, t := range termsOf(Expand(expr)) {
		deg := Degree(t, varName)
		if deg < 0 {
			return nil, false
		}
		addCoeff(result, deg, termCoefficient(t, varName))
	}
	return result, true
}

func termCoefficient(t Expr, varName string) Expr {
	m, ok := t.(*Mul)
	if !ok {
		if dependsOn(t, varName) {
			return N(1)
		}
		return t
	}
	coeffFactors := []Expr{}
	for _, f := range m.factors {
		if !dependsOn(f, varName) {
			coeffFactors = append(coeffFactors, f)
		}
	}
	switch len(coeffFactors) {
	case 0:
		return N(1)
	case 1:
		return coeffFactors[0]
	default:
		return MulOf(coeffFactors...)
	}
}

func addCoeff(out PolyCoeffsResult, deg int, val Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = AddOf(existing, val)
	} else {
		out[deg] = val.Simplify()
	}
}
