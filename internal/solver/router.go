package solver

import (
	"regexp"
	"strings"
)

var (
	percentVocabulary = regexp.MustCompile(`(?i)(percent|%|drop|dropped|decrease|decreased|increase|increased|price|now|was|from|to)`)
	pureArithmetic    = regexp.MustCompile(`^[0-9+\-*/%^().\s]+$`)
	relationalSign    = regexp.MustCompile(`[<>]`)
	variableX         = regexp.MustCompile(`(?i)x`)
	squaredX          = regexp.MustCompile(`[xX](\^2|\*\*2)`)
	exponentOp        = regexp.MustCompile(`\^|\*\*`)
)

const unsupportedMessage = "Only Quadratic Equations, Exponents, Quadratic Inequalities, basic arithmetic, and percent-change sentences are supported by this solver."

// Route names the strategy Solve would pick for text, without running it.
// Percent-change inputs whose extraction does not apply report the route
// they fall through to.
type Route string

const (
	RoutePercent     Route = "percent"
	RouteArithmetic  Route = "arithmetic"
	RouteInequality  Route = "inequality"
	RouteQuadratic   Route = "quadratic"
	RouteExponent    Route = "exponent"
	RouteUnsupported Route = "unsupported"
)

// Solve classifies text and dispatches it to the first matching strategy.
func (s *Solver) Solve(text string) (out Outcome) {
	defer s.guard("solve", &out)

	trimmed := strings.TrimSpace(text)
	if percentVocabulary.MatchString(trimmed) {
		if pct, ok := s.PercentChange(trimmed); ok {
			s.logger.Debug("routed", "route", RoutePercent)
			return pct
		}
	}

	route := classify(trimmed)
	s.logger.Debug("routed", "route", route)
	switch route {
	case RouteArithmetic:
		return s.Arithmetic(trimmed)
	case RouteInequality:
		return s.QuadraticInequality(text)
	case RouteQuadratic:
		return s.Quadratic(text)
	case RouteExponent:
		return s.Exponent(text)
	}
	return failf(ErrUnsupportedCategory, unsupportedMessage)
}

// classify applies the structural routing rules that follow the percent
// check.
func classify(text string) Route {
	trimmed := strings.TrimSpace(text)
	hasEquals := strings.Contains(trimmed, "=")
	if !hasEquals && pureArithmetic.MatchString(trimmed) {
		return RouteArithmetic
	}
	compact := whitespace.ReplaceAllString(trimmed, "")
	if relationalSign.MatchString(compact) && variableX.MatchString(compact) {
		return RouteInequality
	}
	if squaredX.MatchString(trimmed) {
		return RouteQuadratic
	}
	if !hasEquals && exponentOp.MatchString(trimmed) {
		return RouteExponent
	}
	return RouteUnsupported
}

// Classify reports the route Solve takes for text.
func (s *Solver) Classify(text string) Route {
	trimmed := strings.TrimSpace(text)
	if percentVocabulary.MatchString(trimmed) {
		if _, ok := s.PercentChange(trimmed); ok {
			return RoutePercent
		}
	}
	return classify(trimmed)
}
