package solver

import (
	"regexp"
	"strings"
)

var (
	invisibleSpace = regexp.MustCompile(`[\x{00A0}\x{200B}]+`)
	numericRun     = regexp.MustCompile(`[0-9+\-*/^().=\s]+`)
	digit          = regexp.MustCompile(`\d`)
)

// ExtractNumericExpression pulls the first run of numeric/operator
// characters containing a digit out of noisy pasted text. Commas are read as
// decimal points. When the run holds several equations only the first is
// kept.
func ExtractNumericExpression(text string) (string, bool) {
	cleaned := strings.ReplaceAll(invisibleSpace.ReplaceAllString(text, " "), ",", ".")
	for _, m := range numericRun.FindAllString(cleaned, -1) {
		if !digit.MatchString(m) {
			continue
		}
		expr := strings.TrimSpace(whitespace.ReplaceAllString(m, " "))
		if expr == "" {
			continue
		}
		if strings.Count(expr, "=") > 1 {
			first := strings.Index(expr, "=")
			second := strings.Index(expr[first+1:], "=")
			expr = strings.TrimSpace(expr[:first+1+second])
		}
		if digit.MatchString(expr) {
			return expr, true
		}
	}
	return "", false
}
