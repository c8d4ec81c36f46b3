package solver

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/njchilds90/stepsolver/internal/symbolic"
)

// NumberMatch is a numeric literal found in free text.
type NumberMatch struct {
	Value float64
	Index int
	Raw   string
}

var (
	numberLiteral = regexp.MustCompile(`[+-]?\d[\d,]*(?:\.\d+)?`)
	fromNumber    = regexp.MustCompile(`from\s+([0-9.,]+)`)
	toNumber      = regexp.MustCompile(`to\s+([0-9.,]+)`)

	oldKeywords = []string{"was", "originally", "from", "before", "previously", "old", "priced at"}
	newKeywords = []string{"now", "current", "today", "to", "now is", "is now", "price now", "now,"}
)

const (
	keywordWindow = 30
	fromToReach   = 40
)

// ExtractNumbers returns every numeric literal in text with its byte
// offset. Thousands separators are accepted and dropped.
func ExtractNumbers(text string) []NumberMatch {
	var out []NumberMatch
	for _, loc := range numberLiteral.FindAllStringIndex(text, -1) {
		raw := text[loc[0]:loc[1]]
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			continue
		}
		out = append(out, NumberMatch{Value: v, Index: loc[0], Raw: raw})
	}
	return out
}

// PercentChange reads an old and a new value out of a sentence and reports
// the percent change between them. The second result is false when fewer
// than two numbers are present or the old value is zero.
func (s *Solver) PercentChange(text string) (out Outcome, applicable bool) {
	lower := strings.ToLower(text)
	items := ExtractNumbers(lower)
	if len(items) < 2 {
		return Outcome{}, false
	}

	oldIdx, newIdx := -1, -1
	for i, it := range items {
		ctx := lower[max(0, it.Index-keywordWindow):min(len(lower), it.Index+keywordWindow)]
		if oldIdx < 0 && containsAny(ctx, oldKeywords) {
			oldIdx = i
		}
		if newIdx < 0 && containsAny(ctx, newKeywords) {
			newIdx = i
		}
	}

	from := fromNumber.FindStringIndex(lower)
	to := toNumber.FindStringIndex(lower)
	if from != nil && to != nil {
		if i := itemNear(items, from); i >= 0 {
			oldIdx = i
		}
		if i := itemNear(items, to); i >= 0 {
			newIdx = i
		}
	}

	switch {
	case oldIdx < 0 && newIdx < 0:
		oldIdx, newIdx = 0, 1
	case oldIdx < 0:
		oldIdx = otherSlot(newIdx)
	case newIdx < 0:
		newIdx = otherSlot(oldIdx)
	}
	if oldIdx == newIdx {
		oldIdx, newIdx = 0, 1
	}

	oldVal, newVal := items[oldIdx].Value, items[newIdx].Value
	if oldVal == 0 {
		return Outcome{}, false
	}
	change := newVal - oldVal
	percent := change / oldVal * 100

	n := symbolic.FormatNumber
	steps := []Step{
		"Original value (old) = " + n(oldVal),
		"New value = " + n(newVal),
		fmt.Sprintf("Change = new - old = %s - %s = %s", n(newVal), n(oldVal), n(change)),
		fmt.Sprintf("Percent change = (Change / Original) × 100 = (%s / %s) × 100 = %s%%", n(change), n(oldVal), fixed6(percent)),
	}
	direction := "no change"
	switch {
	case change > 0:
		direction = "increase"
	case change < 0:
		direction = "decrease"
	}
	s.logger.Debug("percent change", "old", oldVal, "new", newVal, "percent", percent)
	return success(steps, fixed6(math.Abs(percent))+"% "+direction), true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// itemNear returns the first number starting within the matched phrase or
// the fromToReach bytes after it.
func itemNear(items []NumberMatch, loc []int) int {
	limit := loc[1] + fromToReach
	for i, it := range items {
		if it.Index >= loc[0] && it.Index < limit {
			return i
		}
	}
	return -1
}

func otherSlot(taken int) int {
	if taken == 0 {
		return 1
	}
	return 0
}

// fixed6 prints six decimals. Negative zero prints unsigned; a negative
// value that rounds to zero keeps its sign (-0.000000).
func fixed6(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
