// Package symbolic is the deterministic algebra kernel behind the solver.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat) for literals and coefficients
//   - Deterministic simplification and stable printed output
//   - Like-term collection and factor cancellation good enough for
//     single-variable polynomials and rational expressions
//   - Float and complex evaluation that reports non-finite values as values
package symbolic

import (
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	Equal(other Expr) bool
	exprType() string
	toJSON() map[string]interface{}
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts a finite float64 exactly. Non-finite input panics because
// big.Rat cannot hold it; callers check math.IsInf/IsNaN first.
func NFloat(f float64) *Num {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		panic("symbolic: non-finite float")
	}
	return &Num{val: r}
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

// Int64 returns n when it is an integer that fits in an int64.
func (n *Num) Int64() (int64, bool) {
	if !n.val.IsInt() || !n.val.Num().IsInt64() {
		return 0, false
	}
	return n.val.Num().Int64(), true
}

// String prints integers plainly, terminating fractions as decimals and
// everything else as p/q.
func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if digits, ok := terminatingDigits(n.val.Denom()); ok {
		s := n.val.FloatString(digits)
		s = strings.TrimRight(s, "0")
		return strings.TrimSuffix(s, ".")
	}
	return n.val.RatString()
}

// terminatingDigits reports how many decimal places represent 1/d exactly,
// which is possible only when d = 2^a * 5^b.
func terminatingDigits(d *big.Int) (int, bool) {
	rest := new(big.Int).Set(d)
	two, five := big.NewInt(2), big.NewInt(5)
	var twos, fives int
	mod := new(big.Int)
	for {
		q, m := new(big.Int).QuoRem(rest, two, mod)
		if m.Sign() != 0 {
			break
		}
		rest = q
		twos++
	}
	for {
		q, m := new(big.Int).QuoRem(rest, five, mod)
		if m.Sign() != 0 {
			break
		}
		rest = q
		fives++
	}
	if rest.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	return max(twos, fives), true
}

func (n *Num) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "num", "value": n.val.RatString()}
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symbolic: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "sym", "name": s.name}
}

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds constants and collects like terms
// (terms whose non-numeric part prints identically). Terms are ordered by
// descending degree, then by text, with the constant last.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	constant := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	order := []string{}
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			constant = numAdd(constant, v)
			continue
		}
		coeff, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], coeff)
	}

	type keyed struct {
		e      Expr
		key    string
		degree int
	}
	ks := make([]keyed, 0, len(order))
	for _, key := range order {
		c := coeffs[key]
		if c.IsZero() {
			continue
		}
		var term Expr
		if c.IsOne() {
			term = rests[key]
		} else {
			term = MulOf(c, rests[key])
		}
		if n, ok := term.(*Num); ok {
			constant = numAdd(constant, n)
			continue
		}
		ks = append(ks, keyed{e: term, key: key, degree: totalDegree(rests[key])})
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].degree != ks[j].degree {
			return ks[i].degree > ks[j].degree
		}
		return ks[i].key < ks[j].key
	})

	result := make([]Expr, 0, len(ks)+1)
	for _, k := range ks {
		result = append(result, k.e)
	}
	if !constant.IsZero() {
		result = append(result, constant)
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, t := range a.terms {
		if i == 0 {
			sb.WriteString(t.String())
			continue
		}
		if neg, ok := negated(t); ok {
			sb.WriteString(" - ")
			sb.WriteString(neg.String())
			continue
		}
		sb.WriteString(" + ")
		sb.WriteString(t.String())
	}
	return sb.String()
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) toJSON() map[string]interface{} {
	ts := make([]map[string]interface{}, len(a.terms))
	for i, t := range a.terms {
		ts[i] = t.toJSON()
	}
	return map[string]interface{}{"type": "add", "terms": ts}
}
func (a *Add) Terms() []Expr { return a.terms }

// negated returns -t when t carries a negative leading coefficient.
func negated(t Expr) (Expr, bool) {
	switch v := t.(type) {
	case *Num:
		if v.IsNegative() {
			return numNeg(v), true
		}
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok && c.IsNegative() {
			return MulOf(append([]Expr{numNeg(c)}, v.factors[1:]...)...), true
		}
	}
	return nil, false
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds numeric factors and merges
// factors sharing a base by adding exponents, so x*x becomes x^2 and
// (x - 2)*(x - 2)^-1 cancels to 1.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := N(1)
	bases := map[string]Expr{}
	exps := map[string]Expr{}
	order := []string{}
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if _, seen := bases[key]; !seen {
			order = append(order, key)
			bases[key] = base
			exps[key] = exp
			continue
		}
		exps[key] = AddOf(exps[key], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := []Expr{}
	for _, key := range order {
		merged := PowOf(bases[key], exps[key])
		switch v := merged.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			// A power of a product distributes back into factors.
			for _, f := range v.factors {
				if n, ok := f.(*Num); ok {
					coeff = numMul(coeff, n)
				} else {
					others = append(others, f)
				}
			}
		default:
			others = append(others, merged)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}

	// Precompute sort keys to avoid repeated String() calls in comparator.
	type keyed struct {
		e   Expr
		key string
	}
	ks := make([]keyed, len(others))
	for i, e := range others {
		ks[i] = keyed{e: e, key: e.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	sorted := make([]Expr, len(ks))
	for i := range ks {
		sorted[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(sorted) == 1 {
			return sorted[0]
		}
		return &Mul{factors: sorted}
	}
	return &Mul{factors: append([]Expr{coeff}, sorted...)}
}

// String renders factors with negative integer exponents as a denominator.
func (m *Mul) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	var num, den []string
	sign := ""
	for i, f := range m.factors {
		if c, ok := f.(*Num); ok && i == 0 {
			switch {
			case c.IsNegOne():
				sign = "-"
				continue
			case c.IsNegative():
				sign = "-"
				c = numNeg(c)
			}
			if cs := c.String(); strings.Contains(cs, "/") {
				num = append(num, "("+cs+")")
			} else {
				num = append(num, cs)
			}
			continue
		}
		if p, ok := f.(*Pow); ok {
			if e, ok := p.exp.(*Num); ok && e.IsNegative() {
				den = append(den, wrapFactor(PowOf(p.base, numNeg(e))))
				continue
			}
		}
		num = append(num, wrapFactor(f))
	}
	out := strings.Join(num, "*")
	if out == "" {
		out = "1"
	}
	switch len(den) {
	case 0:
	case 1:
		out += "/" + den[0]
	default:
		out += "/(" + strings.Join(den, "*") + ")"
	}
	return sign + out
}

func wrapFactor(f Expr) string {
	switch f.(type) {
	case *Add, *Mul:
		return "(" + f.String() + ")"
	}
	return f.String()
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) toJSON() map[string]interface{} {
	fs := make([]map[string]interface{}, len(m.factors))
	for i, f := range m.factors {
		fs[i] = f.toJSON()
	}
	return map[string]interface{}{"type": "mul", "factors": fs}
}
func (m *Mul) Factors() []Expr { return m.factors }

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

const maxExactPower = 64

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	// Handle 0^exp carefully.
	if bn, ok := base.(*Num); ok && bn.IsZero() {
		if expIsNum && en.IsNegative() {
			return &Pow{base: base, exp: exp}
		}
		if expIsNum {
			return N(0)
		}
		return &Pow{base: base, exp: exp}
	}

	if bn, ok := base.(*Num); ok && bn.IsOne() {
		return N(1)
	}
	if bn, ok := base.(*Num); ok && expIsNum {
		if e, small := en.Int64(); small && e >= -maxExactPower && e <= maxExactPower {
			neg := e < 0
			if neg {
				e = -e
			}
			result := N(1)
			for i := int64(0); i < e; i++ {
				result = numMul(result, bn)
			}
			if neg {
				return numRecip(result)
			}
			return result
		}
	}
	// (b^m)^n = b^(m*n) only for integer n or odd integer m; (x^2)^(1/2)
	// is |x|, not x.
	if inner, ok := base.(*Pow); ok && (expIsNum && en.IsInteger() || isOddInteger(inner.exp)) {
		return PowOf(inner.base, MulOf(inner.exp, exp))
	}
	if m, ok := base.(*Mul); ok && expIsNum && en.IsInteger() {
		factors := make([]Expr, len(m.factors))
		for i, f := range m.factors {
			factors[i] = PowOf(f, exp)
		}
		return MulOf(factors...)
	}
	return &Pow{base: base, exp: exp}
}

func isOddInteger(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsInteger() && n.val.Num().Bit(0) == 1
}

func (p *Pow) String() string {
	if e, ok := p.exp.(*Num); ok && e.IsNegative() && e.IsInteger() {
		return "1/" + wrapFactor(PowOf(p.base, numNeg(e)))
	}
	baseStr := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		baseStr = "(" + baseStr + ")"
	case *Num:
		if b.IsNegative() || !b.IsInteger() {
			baseStr = "(" + baseStr + ")"
		}
	}
	expStr := p.exp.String()
	switch e := p.exp.(type) {
	case *Sym:
	case *Num:
		if e.IsNegative() || !e.IsInteger() {
			expStr = "(" + expStr + ")"
		}
	default:
		expStr = "(" + expStr + ")"
	}
	return baseStr + "^" + expStr
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exp": p.exp.toJSON()}
}
func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr  { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr  { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr  { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr  { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr   { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr  { return funcOf("abs", arg).Simplify() }

// Simplify folds a function of a number only when the result is exact
// (sin(0), ln(1), abs of a rational); other numeric arguments stay symbolic
// and are left to EvalFloat/EvalComplex.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch f.name {
	case "sin", "tan":
		if isNumEqual(arg, 0) {
			return N(0)
		}
	case "cos":
		if isNumEqual(arg, 0) {
			return N(1)
		}
	case "ln":
		if n, ok := arg.(*Num); ok && n.IsOne() {
			return N(0)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if n, ok := arg.(*Num); ok && n.IsZero() {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			if n.IsNegative() {
				return numNeg(n)
			}
			return n
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Equal(N(v))
}
