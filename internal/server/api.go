package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/njchilds90/stepsolver/internal/logging"
	"github.com/njchilds90/stepsolver/internal/solver"
	"github.com/njchilds90/stepsolver/internal/symbolic"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// SolveRequest is the body of POST /solve and POST /rational.
type SolveRequest struct {
	Input string `json:"input"`
}

// SolveResponse is the body returned by the solve endpoints.
type SolveResponse struct {
	RequestID string `json:"request_id"`
	SolveOutput
	Tree map[string]any `json:"tree,omitempty"`
}

type errorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

// API is the JSON HTTP front end of the solver.
type API struct {
	solver  *solver.Solver
	kernel  symbolic.Kernel
	limiter atomic.Pointer[rate.Limiter]
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*API)

// WithRateLimit caps requests at rps per second with the given burst.
// rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *API) { a.SetRateLimit(rps, burst) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *API) { a.logger = logger }
}

func NewAPI(s *solver.Solver, opts ...Option) *API {
	a := &API{solver: s, logger: slog.Default(), now: time.Now}
	a.limiter.Store(rate.NewLimiter(rate.Inf, 0))
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetRateLimit replaces the limiter with a full bucket. It is safe to call
// while the API is serving.
func (a *API) SetRateLimit(rps float64, burst int) {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	a.limiter.Store(rate.NewLimiter(limit, burst))
}

// Handler returns the routed API wrapped in request-ID, recovery and rate
// limiting middleware.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /solve", a.handleSolve)
	mux.HandleFunc("POST /rational", a.handleRational)
	mux.HandleFunc("GET /schema", a.handleSchema)
	mux.HandleFunc("GET /health", a.handleHealth)
	return a.requestID(a.recoverPanic(a.rateLimit(mux)))
}

func (a *API) handleSolve(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decode(w, r)
	if !ok {
		return
	}
	resp := SolveResponse{RequestID: requestIDFrom(r), SolveOutput: solveOutput(a.solver, req.Input)}
	if r.URL.Query().Get("tree") == "1" && resp.Route == string(solver.RouteExponent) {
		if expr, err := a.kernel.Simplify(req.Input); err == nil {
			resp.Tree = symbolic.Tree(expr)
		}
	}
	logging.LogDebug(r.Context(), "solved", logging.Fields{"route": resp.Route, "error": resp.Error})
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleRational(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decode(w, r)
	if !ok {
		return
	}
	out := rationalOutput(a.solver, req.Input)
	status := http.StatusOK
	if out.Error == "not_applicable" {
		status = http.StatusUnprocessableEntity
	}
	a.writeJSON(w, status, SolveResponse{RequestID: requestIDFrom(r), SolveOutput: out})
}

func (a *API) handleSchema(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{"tools": Tools()})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": Version,
		"time":    a.now().UTC().Format(time.RFC3339),
	})
}

// decode reads a SolveRequest, rejecting unknown fields, trailing data and
// bodies over 1 MiB. On failure it has already written the response.
func (a *API) decode(w http.ResponseWriter, r *http.Request) (SolveRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req SolveRequest
	if err := dec.Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		a.fail(w, r, status, "invalid JSON: "+err.Error())
		return req, false
	}
	if dec.More() {
		a.fail(w, r, http.StatusBadRequest, "invalid JSON: trailing data")
		return req, false
	}
	if strings.TrimSpace(req.Input) == "" {
		a.fail(w, r, http.StatusBadRequest, "input is required")
		return req, false
	}
	return req, true
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	a.writeJSON(w, status, errorResponse{RequestID: requestIDFrom(r), Error: msg})
}

// writeJSON encodes v before writing the header. An encode failure is
// logged and answered with 500.
func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		a.logger.Error("failed to encode response", "status", status, "error", err)
		buf.Reset()
		status = http.StatusInternalServerError
		buf.WriteString(`{"error":"internal server error"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		a.logger.Debug("failed to write response", "error", err)
	}
}
