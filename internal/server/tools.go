// Package server exposes the solver over MCP (stdio or streamable HTTP) and
// over a JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/njchilds90/stepsolver/internal/solver"
)

// Version is reported to MCP clients and by /health.
var Version = "dev"

const notRationalMessage = "Not a rational equation: expected an equation with a variable in a denominator."

// SolveInput is the input schema of the solve and solve_rational tools.
type SolveInput struct {
	Input string `json:"input" jsonschema:"the expression, equation, inequality or percent-change sentence to solve"`
}

// SolveOutput is the output schema of both tools.
type SolveOutput struct {
	Route  string         `json:"route"`
	Steps  []string       `json:"steps"`
	Result *solver.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// ToolSpec describes one tool for agent registration.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

var tools = []ToolSpec{
	spec("solve", "Solve arithmetic, a quadratic equation or inequality, an exponent expression, or a percent-change sentence step by step"),
	spec("solve_rational", "Solve an equation with a variable in a denominator, excluding roots that make a denominator zero"),
}

func spec(name, description string) ToolSpec {
	return ToolSpec{
		Name:        name,
		Description: description,
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"input": map[string]any{"type": "string"}},
			"required":   []string{"input"},
		},
	}
}

// Tools returns the tool specifications served by /schema.
func Tools() []ToolSpec {
	out := make([]ToolSpec, len(tools))
	copy(out, tools)
	return out
}

// MCPServer serves the solver as MCP tools.
type MCPServer struct {
	solver *solver.Solver
	server *mcp.Server
}

// NewMCP registers the solve and solve_rational tools.
func NewMCP(s *solver.Solver) *MCPServer {
	m := &MCPServer{
		solver: s,
		server: mcp.NewServer(&mcp.Implementation{Name: "stepsolver", Version: Version}, nil),
	}
	mcp.AddTool(m.server, &mcp.Tool{Name: tools[0].Name, Description: tools[0].Description}, m.handleSolve)
	mcp.AddTool(m.server, &mcp.Tool{Name: tools[1].Name, Description: tools[1].Description}, m.handleRational)
	return m
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (m *MCPServer) Run(ctx context.Context) error {
	return m.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t.
func (m *MCPServer) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return m.server.Connect(ctx, t, nil)
}

// Handler returns a streamable HTTP handler for the MCP endpoint.
func (m *MCPServer) Handler() *mcp.StreamableHTTPHandler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return m.server }, nil)
}

func (m *MCPServer) handleSolve(_ context.Context, _ *mcp.CallToolRequest, in SolveInput) (*mcp.CallToolResult, SolveOutput, error) {
	return nil, solveOutput(m.solver, in.Input), nil
}

func (m *MCPServer) handleRational(_ context.Context, _ *mcp.CallToolRequest, in SolveInput) (*mcp.CallToolResult, SolveOutput, error) {
	return nil, rationalOutput(m.solver, in.Input), nil
}

func solveOutput(s *solver.Solver, input string) SolveOutput {
	return toOutput(string(s.Classify(input)), s.Solve(input))
}

func rationalOutput(s *solver.Solver, input string) SolveOutput {
	out, ok := s.Rational(strings.TrimSpace(input))
	if !ok {
		return SolveOutput{Route: "rational", Steps: []string{notRationalMessage}, Error: "not_applicable"}
	}
	return toOutput("rational", out)
}

func toOutput(route string, o solver.Outcome) SolveOutput {
	return SolveOutput{Route: route, Steps: o.Steps, Result: o.Result, Error: solver.Code(o.Err)}
}
