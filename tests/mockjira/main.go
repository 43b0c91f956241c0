// Command mockjira serves a small fake Jira Cloud API for local development.
//
//	go run ./tests/mockjira --config tests/mockjira/issues.yaml
//	go run . --url http://localhost:8081 --email dev@example.com --api-token dev
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/jirasearch/internal/jira"
	"github.com/gi8lino/jirasearch/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config is the mock server configuration root.
type Config struct {
	Port        int         `yaml:"port"`
	RandomDelay bool        `yaml:"randomDelay"`
	FailTerm    string      `yaml:"failTerm,omitempty"` // term answered with a Jira 400
	Issues      []MockIssue `yaml:"issues"`
}

// MockIssue is one issue the mock can return.
type MockIssue struct {
	Key     string `yaml:"key"`
	Summary string `yaml:"summary"`
}

var (
	textClause    = regexp.MustCompile(`text ~ "((?:[^"\\]|\\.)*?)\*?"`)
	projectClause = regexp.MustCompile(`project = "((?:[^"\\]|\\.)*)"`)
	keyClause     = regexp.MustCompile(`issuekey = "((?:[^"\\]|\\.)*)"`)
)

func main() {
	var (
		configPath string
		logBody    bool
	)

	tf := tinyflags.NewFlagSet("mockjira", tinyflags.ExitOnError)
	tf.StringVar(&configPath, "config", "", "Path to the mock issues file (required)").Value()
	tf.BoolVar(&logBody, "log-body", false, "Log JSON request bodies").Value()
	if err := tf.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err) // nolint:errcheck
		os.Exit(1)
	}

	logger := logging.SetupLogger(logging.LogFormatText, true, os.Stdout)

	if strings.TrimSpace(configPath) == "" {
		logger.Error("missing required --config=<path to yaml>")
		os.Exit(1)
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		logger.Error("config error", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	logger.Info("mock jira listening", "address", addr, "issues", len(cfg.Issues))
	if err := http.ListenAndServe(addr, newMux(cfg, logger, logBody)); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the YAML configuration file.
func loadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close() // nolint:errcheck

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Port == 0 {
		cfg.Port = 8081
	}
	return cfg, nil
}

// newMux mounts the search endpoints the proxy can be configured to use.
func newMux(cfg Config, logger *slog.Logger, logBody bool) *http.ServeMux {
	mux := http.NewServeMux()

	search := func(w http.ResponseWriter, r *http.Request) {
		var req jira.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJiraError(w, http.StatusBadRequest, "Invalid request payload.")
			return
		}
		if logBody {
			logger.Info("search", "jql", req.JQL, "maxResults", req.MaxResults)
		}
		delay(cfg)

		term, project, key := parseJQL(req.JQL)
		if cfg.FailTerm != "" && strings.EqualFold(term, cfg.FailTerm) {
			writeJiraError(w, http.StatusBadRequest, "The value '"+term+"' does not exist for the field 'text'.")
			return
		}

		res := jira.SearchResult{Issues: []jira.Issue{}}
		for _, issue := range match(cfg.Issues, term, project, key) {
			if req.MaxResults > 0 && len(res.Issues) >= req.MaxResults {
				break
			}
			res.Issues = append(res.Issues, jira.Issue{Key: issue.Key, Fields: jira.Fields{Summary: issue.Summary}})
		}
		writeJSON(w, http.StatusOK, res)
	}
	mux.HandleFunc("POST /rest/api/3/search/jql", search)
	mux.HandleFunc("POST /rest/api/3/search", search)

	mux.HandleFunc("GET /rest/api/3/issue/picker", func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("query")
		_, project, _ := parseJQL(r.URL.Query().Get("currentJQL"))
		if logBody {
			logger.Info("picker", "query", term, "project", project)
		}
		delay(cfg)

		section := jira.PickerSection{ID: "cs", Label: "Current Search", Issues: []jira.PickerIssue{}}
		for _, issue := range match(cfg.Issues, term, project, strings.ToUpper(term)) {
			section.Issues = append(section.Issues, jira.PickerIssue{
				Key:         issue.Key,
				Summary:     "<b>" + issue.Summary + "</b>",
				SummaryText: issue.Summary,
			})
		}
		writeJSON(w, http.StatusOK, jira.PickerResult{Sections: []jira.PickerSection{section}})
	})

	return mux
}

// parseJQL extracts the clauses the proxy generates.
func parseJQL(jql string) (term, project, key string) {
	if m := textClause.FindStringSubmatch(jql); m != nil {
		term = unescape(m[1])
	}
	if m := projectClause.FindStringSubmatch(jql); m != nil {
		project = unescape(m[1])
	}
	if m := keyClause.FindStringSubmatch(jql); m != nil {
		key = unescape(m[1])
	}
	return term, project, key
}

// match returns the issues whose summary contains term or whose key equals key.
func match(issues []MockIssue, term, project, key string) []MockIssue {
	term = strings.ToLower(term)
	var out []MockIssue
	for _, issue := range issues {
		if project != "" && !strings.HasPrefix(issue.Key, project+"-") {
			continue
		}
		if strings.Contains(strings.ToLower(issue.Summary), term) || issue.Key == key {
			out = append(out, issue)
		}
	}
	slices.SortStableFunc(out, func(a, b MockIssue) int { return strings.Compare(a.Key, b.Key) })
	return out
}

func unescape(s string) string {
	return strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(s)
}

// delay sleeps between 200 and 1000ms when random delays are enabled.
func delay(cfg Config) {
	if cfg.RandomDelay {
		time.Sleep(time.Duration(200+rand.IntN(800)) * time.Millisecond)
	}
}

func writeJiraError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"errorMessages": []string{msg}, "errors": map[string]string{}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
