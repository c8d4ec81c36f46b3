package solver

import (
	"math"

	"github.com/njchilds90/stepsolver/internal/symbolic"
)

const (
	scanMin        = -200.0
	scanMax        = 200.0
	scanSteps      = 400
	bisectMaxIter  = 50
	bisectTol      = 1e-8
	rootDedupeTol  = 1e-6
	rootRoundPlace = 8
)

// NumericRoots scans f on the integer grid over [-200, 200] and refines
// every strict sign change by bisection. Samples that are not finite are
// skipped; a sample that is exactly zero is a root. Results are rounded to
// 8 decimals, deduplicated within 1e-6 and kept in discovery order.
//
// Roots outside the grid, or two roots inside one grid cell, are missed.
func NumericRoots(f func(float64) float64) []float64 {
	var roots []float64
	add := func(r float64) {
		for _, existing := range roots {
			if math.Abs(existing-r) < rootDedupeTol {
				return
			}
		}
		roots = append(roots, r)
	}

	dx := (scanMax - scanMin) / scanSteps
	x0 := scanMin
	f0 := f(x0)
	for i := 1; i <= scanSteps; i++ {
		x1 := scanMin + float64(i)*dx
		f1 := f(x1)
		if finite(f0) && f0 == 0 {
			add(x0)
		}
		if finite(f0) && finite(f1) && f0*f1 < 0 {
			if root, ok := bisect(f, x0, x1, f0); ok {
				add(round(root, rootRoundPlace))
			}
		}
		x0, f0 = x1, f1
	}
	if finite(f0) && f0 == 0 {
		add(x0)
	}
	return roots
}

// bisect narrows [a, b] around a sign change. A midpoint that evaluates to
// a non-finite value marks a pole rather than a root, and the bracket is
// dropped.
func bisect(f func(float64) float64, a, b, fa float64) (float64, bool) {
	var mid float64
	for range bisectMaxIter {
		mid = (a + b) / 2
		fm := f(mid)
		if !finite(fm) {
			return 0, false
		}
		if math.Abs(fm) < bisectTol {
			break
		}
		if fa*fm < 0 {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}
	return mid, true
}

// RootsOf binds variable in expr and runs NumericRoots over it.
func RootsOf(expr symbolic.Expr, variable string) []float64 {
	return NumericRoots(symbolic.Bind(expr, variable))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
