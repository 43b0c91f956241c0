package flag

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/containeroo/resolver"
	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/jirasearch/internal/logging"
	"github.com/gi8lino/jirasearch/internal/middleware"
	"github.com/gi8lino/jirasearch/internal/server"
)

// Config aggregates CLI flags after parsing.
type Config struct {
	ListenAddr     string            // HTTP bind address (e.g. ":8080")
	Debug          bool              // Enables debug logging
	LogFormat      logging.LogFormat // Log output format (text or json)
	Config         string            // Optional path to the search policy file
	RoutePrefix    string            // Canonical path prefix ("" or "/jira")
	AllowedOrigins []string          // CORS origins
	RateLimit      int               // Requests per minute per client, 0 disables
	RateBurst      int               // Rate limiter burst
	Jira           JiraConfig
}

// JiraConfig holds the Jira connection settings.
type JiraConfig struct {
	URL           *url.URL // Site URL; nil when not configured
	Email         string
	APIToken      string
	BearerToken   string
	Timeout       time.Duration
	SkipTLSVerify bool
}

// Missing returns the names of the settings required to call Jira that are unset.
func (j JiraConfig) Missing() []string {
	var missing []string
	if j.URL == nil {
		missing = append(missing, "url")
	}
	if j.BearerToken == "" {
		if j.Email == "" {
			missing = append(missing, "email")
		}
		if j.APIToken == "" {
			missing = append(missing, "api-token")
		}
	}
	return missing
}

// ParseArgs parses CLI arguments into Config, handling version/help flags.
// Every flag can also be set via JIRA_<FLAG_NAME>, e.g. JIRA_API_TOKEN.
func ParseArgs(version string, args []string, out io.Writer, getEnv func(string) string) (Config, error) {
	var cfg Config
	tf := tinyflags.NewFlagSet("jirasearch", tinyflags.ContinueOnError)
	tf.Version(version)
	tf.SetGetEnvFn(getEnv)
	tf.EnvPrefix("JIRA")
	tf.SetOutput(out)

	// Jira
	rawURL := tf.String("url", "", "Jira site URL (e.g. https://example.atlassian.net)").
		Placeholder("URL").
		Value()
	email := tf.String("email", "", "Jira account email").Value()
	apiToken := tf.String("api-token", "", "Jira API token (supports env:, file: references)").
		Placeholder("TOKEN").
		Value()
	bearerToken := tf.String("bearer-token", "", "Personal access token, used instead of email + API token").
		Placeholder("TOKEN").
		Value()
	timeout := tf.Duration("timeout", 10*time.Second, "Timeout for requests to Jira").Value()
	tf.BoolVar(&cfg.Jira.SkipTLSVerify, "skip-tls-verify", false, "Skip TLS verification of the Jira certificate").Value()

	// Server
	tf.StringVar(&cfg.Config, "config", "", "Path to the search policy file (YAML)").Value()
	listenAddr := tf.TCPAddr("listen-address", &net.TCPAddr{IP: nil, Port: 8080}, "HTTP server listen address").
		Placeholder("ADDR:PORT").
		Value()
	route := tf.String("route-prefix", "", "Path prefix to mount the app (e.g., /jira). Empty = root.").
		Finalize(func(input string) string {
			return server.NormalizeRoutePrefix(input)
		}).
		Placeholder("PATH").
		Value()
	origins := tf.String("allowed-origins", "*", "Comma-separated list of origins allowed by CORS").
		Placeholder("ORIGINS").
		Value()
	rateLimit := tf.Int("rate-limit", 0, "Requests per minute per client on /search-jira (0 disables)").Value()
	rateBurst := tf.Int("rate-burst", 10, "Burst size of the rate limiter").Value()

	// Logging
	tf.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Short("l").Value()

	// Parse
	if err := tf.Parse(args); err != nil {
		return Config{}, err
	}

	// Post-parse
	cfg.LogFormat = logging.LogFormat(*logFormat)
	cfg.ListenAddr = (*listenAddr).String()
	cfg.RoutePrefix = *route
	cfg.AllowedOrigins = middleware.ParseOrigins(*origins)
	cfg.RateLimit = *rateLimit
	cfg.RateBurst = *rateBurst
	cfg.Jira.Timeout = *timeout

	var err error
	if cfg.Jira.Email, err = resolveSecret("email", *email); err != nil {
		return Config{}, err
	}
	if cfg.Jira.APIToken, err = resolveSecret("api-token", *apiToken); err != nil {
		return Config{}, err
	}
	if cfg.Jira.BearerToken, err = resolveSecret("bearer-token", *bearerToken); err != nil {
		return Config{}, err
	}
	if cfg.Jira.URL, err = parseJiraURL(*rawURL); err != nil {
		return Config{}, fmt.Errorf("invalid value for flag --url: %w", err)
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolveSecret resolves references like "env:NAME" or "file:/path" in a flag value.
func resolveSecret(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	resolved, err := resolver.ResolveVariable(value)
	if err != nil {
		return "", fmt.Errorf("invalid value for flag --%s: %w", name, err)
	}
	return strings.TrimSpace(resolved), nil
}

// parseJiraURL returns nil for an empty value and an absolute http(s) URL otherwise.
func parseJiraURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New("URL scheme must be http or https")
	}
	if u.Host == "" {
		return nil, errors.New("URL must include a host")
	}
	if u.User != nil {
		return nil, errors.New("URL must not contain credentials")
	}
	return u, nil
}

// validate checks cross-flag constraints.
func validate(cfg Config) error {
	switch {
	case cfg.Jira.Timeout <= 0:
		return errors.New("invalid value for flag --timeout: timeout must be > 0")
	case cfg.Jira.Email != "" && !strings.Contains(cfg.Jira.Email, "@"):
		return errors.New("invalid value for flag --email: email must contain @")
	case cfg.RateLimit < 0:
		return errors.New("invalid value for flag --rate-limit: must be >= 0")
	case cfg.RateBurst <= 0:
		return errors.New("invalid value for flag --rate-burst: must be > 0")
	case len(cfg.AllowedOrigins) == 0:
		return errors.New("invalid value for flag --allowed-origins: at least one origin is required")
	}
	return nil
}
