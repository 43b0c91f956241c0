package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gi8lino/jirasearch/internal/handlers"
	"github.com/gi8lino/jirasearch/internal/middleware"
)

// Options configures the router.
type Options struct {
	RoutePrefix    string   // "" or "/prefix"
	AllowedOrigins []string // CORS origins, "*" for any
	RateLimit      int      // requests per minute per client, 0 disables
	RateBurst      int
	Debug          bool // log every request
}

// NewRouter creates the HTTP router. ctx bounds background work such as rate limiter cleanup.
func NewRouter(ctx context.Context, searcher handlers.Searcher, logger *slog.Logger, opts Options) http.Handler {
	mux := http.NewServeMux()

	// Health checks (no logging)
	mux.Handle("GET /healthz", handlers.Healthz())
	mux.Handle("POST /healthz", handlers.Healthz())

	var searchHandler http.Handler = handlers.SearchHandler(searcher, logger)
	searchHandler = middleware.Chain(searchHandler,
		middleware.RateLimit(ctx, opts.RateLimit, opts.RateBurst),
	)
	mux.Handle("GET /search-jira", searchHandler)

	mws := []middleware.Middleware{
		middleware.Recover(logger),
		middleware.CORS(opts.AllowedOrigins),
	}
	if opts.Debug {
		mws = append([]middleware.Middleware{middleware.LoggingMiddleware(logger)}, mws...)
	}

	return mountUnderPrefix(middleware.Chain(mux, mws...), opts.RoutePrefix)
}
