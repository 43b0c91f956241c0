package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gi8lino/jirasearch/internal/jira"
	"github.com/gi8lino/jirasearch/internal/search"
)

// Messages returned to the frontend.
const (
	msgConfigMissing = "Backend server is missing JIRA configuration."
	msgEmptyQuery    = "Missing search query."
)

// Searcher runs a search for a term within an optional project.
type Searcher interface {
	Search(ctx context.Context, query, projectKey string) ([]search.IssueSummary, error)
}

// SearchHandler serves GET /search-jira?q=<term>&project=<key>.
func SearchHandler(searcher Searcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		issues, err := searcher.Search(r.Context(), params.Get("q"), params.Get("project"))
		if err != nil {
			status, msg := classifyError(err)
			logger.Error("jira search failed",
				"status", status,
				"project", params.Get("project"),
				"error", err,
			)
			writeError(w, status, msg)
			return
		}

		writeJSON(w, http.StatusOK, issues)
	}
}

// classifyError maps a search error onto the response status and message.
func classifyError(err error) (status int, msg string) {
	var (
		apiErr         *jira.APIError
		unreachableErr *jira.UnreachableError
	)
	switch {
	case errors.Is(err, search.ErrConfigMissing):
		return http.StatusInternalServerError, msgConfigMissing
	case errors.Is(err, search.ErrEmptyQuery):
		return http.StatusBadRequest, msgEmptyQuery
	case errors.As(err, &apiErr):
		return apiErr.StatusCode, apiErr.Message()
	case errors.As(err, &unreachableErr):
		return http.StatusBadGateway, "Failed to connect to Jira: " + unreachableErr.Err.Error()
	default:
		return http.StatusInternalServerError, "An unexpected server error occurred: " + err.Error()
	}
}
