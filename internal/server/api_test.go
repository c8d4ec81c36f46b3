package server_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/stepsolver/internal/server"
	"github.com/njchilds90/stepsolver/internal/solver"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(opts ...server.Option) http.Handler {
	s := solver.New(solver.WithLogger(quietLogger()))
	opts = append([]server.Option{server.WithLogger(quietLogger())}, opts...)
	return server.NewAPI(s, opts...).Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSolveEndpoint(t *testing.T) {
	rec := do(t, newHandler(), http.MethodPost, "/solve", `{"input": "(2+3)*4"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp server.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "arithmetic", resp.Route)
	assert.Equal(t, []string{"Evaluate (2+3) = 5", "Evaluate 5*4 = 20"}, resp.Steps)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "20", resp.Result.Text)
	require.NotNil(t, resp.Result.Value)
	assert.Equal(t, 20.0, *resp.Result.Value)
	assert.Empty(t, resp.Error)

	id := rec.Header().Get(server.RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, resp.RequestID)
}

func TestSolveEndpointFailure(t *testing.T) {
	rec := do(t, newHandler(), http.MethodPost, "/solve", `{"input": "what is love"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "unsupported_category", body["error"])
	assert.NotContains(t, body, "result")
	assert.Len(t, body["steps"], 1)
}

func TestSolveNonFiniteResult(t *testing.T) {
	for in, want := range map[string]string{"1/0": "Infinity", "0/0": "NaN"} {
		t.Run(in, func(t *testing.T) {
			rec := do(t, newHandler(), http.MethodPost, "/solve", `{"input": "`+in+`"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			result, ok := body["result"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, want, result["text"])
			assert.NotContains(t, result, "value")
		})
	}
}

func TestSolveTree(t *testing.T) {
	rec := do(t, newHandler(), http.MethodPost, "/solve?tree=1", `{"input": "y^3 * y^2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "exponent", body["route"])
	tree, ok := body["tree"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pow", tree["type"])

	rec = do(t, newHandler(), http.MethodPost, "/solve", `{"input": "y^3 * y^2"}`)
	assert.NotContains(t, decode(t, rec), "tree")
}

func TestRationalEndpoint(t *testing.T) {
	rec := do(t, newHandler(), http.MethodPost, "/rational", `{"input": "1/x = 1/2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp server.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rational", resp.Route)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "2", resp.Result.Text)

	rec = do(t, newHandler(), http.MethodPost, "/rational", `{"input": "x + 1 = 2"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "not_applicable", decode(t, rec)["error"])
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{"input":`, http.StatusBadRequest},
		{"unknown field", `{"input": "1+1", "mode": "fast"}`, http.StatusBadRequest},
		{"trailing data", `{"input": "1+1"} {}`, http.StatusBadRequest},
		{"empty input", `{"input": "   "}`, http.StatusBadRequest},
		{"too large", `{"input": "` + strings.Repeat("1", 1<<20) + `"}`, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newHandler(), http.MethodPost, "/solve", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			assert.NotEmpty(t, body["error"])
			assert.NotEmpty(t, body["request_id"])
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(t, newHandler(), http.MethodGet, "/solve", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDPassthrough(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, id)
	rec := httptest.NewRecorder()
	newHandler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(server.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	newHandler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(server.RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	h := newHandler(server.WithRateLimit(1, 1))
	first := do(t, h, http.MethodGet, "/health", "")
	second := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))

	unlimited := newHandler(server.WithRateLimit(0, 0))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(t, unlimited, http.MethodGet, "/health", "").Code)
	}
}

func TestHealthAndSchema(t *testing.T) {
	rec := do(t, newHandler(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = do(t, newHandler(), http.MethodGet, "/schema", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var schema struct {
		Tools []server.ToolSpec `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schema))
	require.Len(t, schema.Tools, 2)
	assert.Equal(t, "solve", schema.Tools[0].Name)
	assert.Equal(t, "solve_rational", schema.Tools[1].Name)
	assert.Equal(t, "object", schema.Tools[0].InputSchema["type"])
}

func TestSetRateLimitWhileServing(t *testing.T) {
	api := server.NewAPI(solver.New(solver.WithLogger(quietLogger())),
		server.WithLogger(quietLogger()), server.WithRateLimit(1, 1))
	h := api.Handler()
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/health", "").Code)

	api.SetRateLimit(0, 0)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
}
