// Package render formats solver outcomes for terminals.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/njchilds90/stepsolver/internal/solver"
)

// CouldNotSolve is shown in place of a result when an outcome has none.
const CouldNotSolve = "Could not solve the expression."

// Theme defines the visual style of rendered outcomes.
type Theme struct {
	Title      lipgloss.Style
	StepNumber lipgloss.Style
	Step       lipgloss.Style
	Result     lipgloss.Style
	Error      lipgloss.Style
	Muted      lipgloss.Style
}

func newTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Title:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("#fafafa")),
		StepNumber: r.NewStyle().Foreground(lipgloss.Color("#737373")),
		Step:       r.NewStyle().Foreground(lipgloss.Color("#e5e5e5")),
		Result:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10b981")),
		Error:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
		Muted:      r.NewStyle().Foreground(lipgloss.Color("#a3a3a3")).Italic(true),
	}
}

// Renderer writes outcomes as numbered steps followed by the result line.
type Renderer struct {
	theme Theme
	color bool
}

// New returns a renderer for w. With color false every style is skipped and
// the output is plain text.
func New(w io.Writer, color bool) *Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.TrueColor)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{theme: newTheme(r), color: color}
}

// UseColor resolves a render.color setting for the given output file.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Outcome renders steps as "1. step" lines followed by "Result: text", or
// the could-not-solve line for a failed outcome.
func (r *Renderer) Outcome(o solver.Outcome) string {
	var sb strings.Builder
	width := len(fmt.Sprint(len(o.Steps)))
	for i, step := range o.Steps {
		num := fmt.Sprintf("%*d.", width, i+1)
		if o.Err != nil {
			sb.WriteString(r.style(r.theme.StepNumber, num) + " " + r.style(r.theme.Error, step) + "\n")
			continue
		}
		sb.WriteString(r.style(r.theme.StepNumber, num) + " " + r.style(r.theme.Step, step) + "\n")
	}
	if o.Result == nil {
		sb.WriteString(r.style(r.theme.Muted, CouldNotSolve) + "\n")
		return sb.String()
	}
	sb.WriteString(r.style(r.theme.Title, "Result:") + " " + r.style(r.theme.Result, o.Result.Text) + "\n")
	return sb.String()
}

// Header renders the input line that precedes an outcome in batch output.
func (r *Renderer) Header(input string) string {
	return r.style(r.theme.Title, "> "+input) + "\n"
}
