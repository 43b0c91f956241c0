package server_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gi8lino/jirasearch/internal/search"
	"github.com/gi8lino/jirasearch/internal/server"
	"github.com/stretchr/testify/assert"
)

// mockSearcher implements handlers.Searcher.
type mockSearcher struct {
	fn func(ctx context.Context, query, projectKey string) ([]search.IssueSummary, error)
}

func (m mockSearcher) Search(ctx context.Context, query, projectKey string) ([]search.IssueSummary, error) {
	return m.fn(ctx, query, projectKey)
}

func TestNewRouter(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	searcher := mockSearcher{fn: func(ctx context.Context, q, p string) ([]search.IssueSummary, error) {
		if q == "panic" {
			panic("boom")
		}
		return []search.IssueSummary{{Key: "SCRUM-1", Summary: q + "/" + p}}, nil
	}}

	do := func(h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		req.RemoteAddr = "192.0.2.1:5555"
		for k, v := range header {
			req.Header.Set(k, v)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("GET /search-jira", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{AllowedOrigins: []string{"*"}})
		rec := do(router, http.MethodGet, "/search-jira?q=login&project=SCRUM", map[string]string{"Origin": "https://app.example.com"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"key":"SCRUM-1","summary":"login/SCRUM"}]`, rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("POST /search-jira is not allowed", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{})
		rec := do(router, http.MethodPost, "/search-jira?q=x", nil)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("OPTIONS preflight", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{AllowedOrigins: []string{"https://app.example.com"}})
		rec := do(router, http.MethodOptions, "/search-jira", map[string]string{
			"Origin":                        "https://app.example.com",
			"Access-Control-Request-Method": "GET",
		})

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("GET /healthz", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{})
		rec := do(router, http.MethodGet, "/healthz", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("POST /healthz", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{})
		rec := do(router, http.MethodPost, "/healthz", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{})
		rec := do(router, http.MethodGet, "/search-jira?q=panic", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "boom")
	})

	t.Run("route prefix", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{RoutePrefix: "/jira"})

		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/jira/search-jira?q=x", nil).Code)
		assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/search-jira?q=x", nil).Code)
	})

	t.Run("debug adds request id", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{Debug: true})
		rec := do(router, http.MethodGet, "/search-jira?q=x", nil)

		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("rate limit applies to search only", func(t *testing.T) {
		t.Parallel()

		router := server.NewRouter(t.Context(), searcher, logger, server.Options{RateLimit: 1, RateBurst: 1})

		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/search-jira?q=x", nil).Code)
		assert.Equal(t, http.StatusTooManyRequests, do(router, http.MethodGet, "/search-jira?q=x", nil).Code)
		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/healthz", nil).Code)
	})
}
