// Package repl is the interactive solver. The input line keeps its text after
// Enter, so pressing Enter again hides the derivation and a new expression
// replaces it.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/njchilds90/stepsolver/internal/render"
	"github.com/njchilds90/stepsolver/internal/solver"
)

// Ready is the status line shown while no result is displayed.
const Ready = "Solver ready, enter an expression"

// Model is the bubbletea model of the REPL.
type Model struct {
	solver   *solver.Solver
	renderer *render.Renderer
	input    textinput.Model

	last    string
	showing bool
	output  string
	outcome solver.Outcome
}

// New returns a focused REPL model.
func New(s *solver.Solver, r *render.Renderer) Model {
	ti := textinput.New()
	ti.Placeholder = "x^2 - 5x + 6 = 0"
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60
	return Model{solver: s, renderer: r, input: ti}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit(), nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit solves the current input, or resets the display when a result is
// shown and the input is empty or unchanged.
func (m Model) submit() Model {
	expr := strings.TrimSpace(m.input.Value())
	if m.showing && (expr == "" || expr == m.last) {
		return m.reset()
	}
	if expr == "" {
		return m
	}
	m.outcome = m.solver.Solve(expr)
	m.output = m.renderer.Outcome(m.outcome)
	m.last = expr
	m.showing = true
	return m
}

func (m Model) reset() Model {
	m.last = ""
	m.showing = false
	m.output = ""
	m.outcome = solver.Outcome{}
	return m
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	if m.showing {
		sb.WriteString(m.output)
	} else {
		sb.WriteString(Ready + "\n")
	}
	sb.WriteString("\nenter: solve/reset  esc: quit\n")
	return sb.String()
}

// Showing reports whether a derivation is displayed.
func (m Model) Showing() bool { return m.showing }

// Outcome returns the displayed outcome, or the zero value when none is shown.
func (m Model) Outcome() solver.Outcome { return m.outcome }

// Run starts the REPL on in/out until the user quits or ctx is cancelled.
func Run(ctx context.Context, s *solver.Solver, r *render.Renderer, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(s, r),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("repl: %w", err)
	}
	return nil
}
