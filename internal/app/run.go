package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gi8lino/jirasearch/internal/config"
	"github.com/gi8lino/jirasearch/internal/flag"
	"github.com/gi8lino/jirasearch/internal/jira"
	"github.com/gi8lino/jirasearch/internal/logging"
	"github.com/gi8lino/jirasearch/internal/search"
	"github.com/gi8lino/jirasearch/internal/server"

	"github.com/containeroo/tinyflags"
)

// Run starts the jirasearch application.
func Run(ctx context.Context, version, commit string, args []string, w io.Writer, getEnv func(string) string) error {
	// Create a new context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Parse command-line flags
	flags, err := flag.ParseArgs(version, args, w, getEnv)
	if err != nil {
		if tinyflags.IsHelpRequested(err) || tinyflags.IsVersionRequested(err) {
			fmt.Fprint(w, err.Error()) // nolint:errcheck
			return nil
		}
		return fmt.Errorf("parsing error: %w", err)
	}

	// Setup logger
	logger := logging.SetupLogger(flags.LogFormat, flags.Debug, w)

	logger.Info("Starting jirasearch",
		"version", version,
		"commit", commit,
	)

	// Load search policy
	cfg, err := config.LoadConfig(flags.Config)
	if err != nil {
		return fmt.Errorf("loading config error: %w", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("validating config error: %w", err)
	}

	// Setup jira client; missing settings are reported per request
	var upstream search.Upstream
	if missing := flags.Jira.Missing(); len(missing) > 0 {
		logger.Warn("jira is not configured, searches will fail", "missing", missing)
	} else {
		auth, method, err := jira.ResolveAuth(flags.Jira.BearerToken, flags.Jira.Email, flags.Jira.APIToken)
		if err != nil {
			return fmt.Errorf("jira auth error: %w", err)
		}
		c := jira.NewClient(flags.Jira.URL, auth, flags.Jira.SkipTLSVerify, flags.Jira.Timeout)
		c.SearchPath = cfg.SearchPath
		c.PickerPath = cfg.PickerPath
		upstream = c

		logger.Debug("jira client",
			"url", c.BaseURL.String(),
			"mode", cfg.Mode,
			"method", method,
			"header", jira.ObfuscatedHeader(auth),
		)
	}

	proxy := search.NewProxy(upstream, cfg, logger)

	// Setup Server and run forever
	router := server.NewRouter(ctx, proxy, logger, server.Options{
		RoutePrefix:    flags.RoutePrefix,
		AllowedOrigins: flags.AllowedOrigins,
		RateLimit:      flags.RateLimit,
		RateBurst:      flags.RateBurst,
		Debug:          flags.Debug,
	})
	err = server.RunHTTPServer(ctx, router, flags.ListenAddr, logger)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server exited with error", "error", err)
	}

	return err
}
