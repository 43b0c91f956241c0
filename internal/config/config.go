package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values for the search policy.
const (
	defaultMode       = ModeJQL
	defaultEmptyQuery = EmptyQueryEmpty
	defaultMaxResults = 25
	defaultOrderBy    = "updated DESC"
	defaultSearchPath = "rest/api/3/search/jql"
	defaultPickerPath = "rest/api/3/issue/picker"

	// maxResultsLimit is the largest page Jira Cloud returns for a JQL search.
	maxResultsLimit = 100
)

var defaultFields = []string{"summary", "key"}

// Default returns the search policy used when no config file is given.
func Default() SearchConfig {
	cfg := SearchConfig{}
	setDefaults(&cfg)
	return cfg
}

// LoadConfig loads the search policy from the given path.
// An empty path yields the defaults.
func LoadConfig(path string) (SearchConfig, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return SearchConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close() // nolint:errcheck

	cfg := SearchConfig{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return SearchConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	setDefaults(&cfg)
	return cfg, nil
}

// ValidateConfig checks the consistency of a search policy.
func ValidateConfig(cfg SearchConfig) error {
	var errs []string

	if !slices.Contains([]Mode{ModeJQL, ModePicker}, cfg.Mode) {
		errs = append(errs, fmt.Sprintf("mode %q must be one of %q or %q", cfg.Mode, ModeJQL, ModePicker))
	}
	if !slices.Contains([]EmptyQueryPolicy{EmptyQueryEmpty, EmptyQueryReject}, cfg.EmptyQuery) {
		errs = append(errs, fmt.Sprintf("emptyQuery %q must be one of %q or %q", cfg.EmptyQuery, EmptyQueryEmpty, EmptyQueryReject))
	}
	if cfg.MaxResults <= 0 || cfg.MaxResults > maxResultsLimit {
		errs = append(errs, fmt.Sprintf("maxResults %d out of range (1-%d)", cfg.MaxResults, maxResultsLimit))
	}
	if !slices.Contains(cfg.Fields, "summary") {
		errs = append(errs, `fields must include "summary"`)
	}
	if strings.ContainsAny(cfg.OrderBy, `"()`) {
		errs = append(errs, fmt.Sprintf("orderBy %q must be a plain field list", cfg.OrderBy))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// setDefaults fills in missing fields with default values.
func setDefaults(c *SearchConfig) {
	setDefault(&c.Mode, defaultMode)
	setDefault(&c.EmptyQuery, defaultEmptyQuery)
	setDefault(&c.OrderBy, defaultOrderBy)
	setDefault(&c.SearchPath, defaultSearchPath)
	setDefault(&c.PickerPath, defaultPickerPath)

	if c.MaxResults == 0 {
		c.MaxResults = defaultMaxResults
	}
	if len(c.Fields) == 0 {
		c.Fields = slices.Clone(defaultFields)
	}
}

// setDefault assigns dst to val only if *dst is empty.
func setDefault[T ~string](dst *T, val T) {
	if strings.TrimSpace(string(*dst)) == "" {
		*dst = val
	}
}
