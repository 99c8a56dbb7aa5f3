package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpgo/mathgen/internal/config"
	"github.com/rpgo/mathgen/internal/domain"
	"github.com/rpgo/mathgen/internal/modules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mutate ...func(*domain.Configuration)) *Server {
	t.Helper()
	parser := config.NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	for _, m := range mutate {
		m(cfg)
	}
	parser.ApplyDefaults(cfg)
	s, err := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, url string, into any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	if into != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, s, "/api/v1/health", &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["instance"])
}

func TestListModules(t *testing.T) {
	s := newTestServer(t)
	var body struct {
		Regimes map[string][]string `json:"regimes"`
	}
	assert.Equal(t, http.StatusOK, get(t, s, "/api/v1/modules", &body))
	assert.Equal(t, []string{modules.MeasurementConversion, modules.MeasurementTime}, body.Regimes["train"])
	assert.Equal(t, []string{modules.MeasurementConversion}, body.Regimes["extrapolate"])
}

func TestProblemsReproducibleBySeed(t *testing.T) {
	s := newTestServer(t)
	var first, second problemsResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/v1/problems?regime=interpolate&module=time&count=3&seed=7", &first))
	assert.Equal(t, http.StatusOK, get(t, s, "/api/v1/problems?regime=interpolate&module=time&count=3&seed=7", &second))

	assert.Equal(t, modules.MeasurementTime, first.Module)
	assert.Equal(t, int64(7), first.Seed)
	require.Len(t, first.Problems, 3)
	assert.Equal(t, first, second)
	for _, p := range first.Problems {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Question)
		assert.NotEmpty(t, p.Answer)
	}
}

func TestProblemsDefaults(t *testing.T) {
	s := newTestServer(t)
	var body problemsResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/v1/problems?module=conversion", &body))
	assert.Equal(t, "train", body.Regime)
	assert.Len(t, body.Problems, 1)
}

func TestProblemsWhereFilter(t *testing.T) {
	s := newTestServer(t, func(c *domain.Configuration) { c.Where = `question.startsWith("What is")` })
	var body problemsResponse
	assert.Equal(t, http.StatusOK, get(t, s, "/api/v1/problems?module=time&count=10&seed=3", &body))
	for _, p := range body.Problems {
		assert.Regexp(t, `^What is`, p.Question)
	}
}

func TestProblemsErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		url    string
		status int
	}{
		{"/api/v1/problems?regime=holdout&module=time", http.StatusBadRequest},
		{"/api/v1/problems?regime=extrapolate&module=time", http.StatusNotFound},
		{"/api/v1/problems?module=algebra", http.StatusNotFound},
		{"/api/v1/problems?module=time&count=0", http.StatusBadRequest},
		{"/api/v1/problems?module=time&count=100000", http.StatusBadRequest},
		{"/api/v1/problems?module=time&count=ten", http.StatusBadRequest},
		{"/api/v1/problems?module=time&seed=abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			var body map[string]string
			assert.Equal(t, tt.status, get(t, s, tt.url, &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestProblemsExhaustion(t *testing.T) {
	s := newTestServer(t, func(c *domain.Configuration) {
		c.Limits.MaxQuestionLength = 3
		c.MaxAttempts = 5
	})
	var body map[string]string
	assert.Equal(t, http.StatusUnprocessableEntity, get(t, s, "/api/v1/problems?module=time&seed=1", &body))
	assert.Contains(t, body["details"], "exhausted")
}
