package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gi8lino/jirasearch/internal/config"
	"github.com/gi8lino/jirasearch/internal/jira"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	// ErrConfigMissing is returned when the Jira URL or credentials were not configured.
	ErrConfigMissing = errors.New("missing jira configuration")
	// ErrEmptyQuery is returned for a blank term under the "reject" policy.
	ErrEmptyQuery = errors.New("missing search query")
)

// IssueSummary is the simplified issue returned to the frontend.
type IssueSummary struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

// Upstream is the part of the Jira client the proxy depends on.
type Upstream interface {
	SearchByJQL(ctx context.Context, req jira.SearchRequest) (jira.SearchResult, error)
	PickIssues(ctx context.Context, query, currentJQL string) (jira.PickerResult, error)
}

// Proxy translates a search term into one Jira call and simplifies the result.
type Proxy struct {
	upstream Upstream // nil when Jira is not configured
	cfg      config.SearchConfig
	logger   *slog.Logger
}

// NewProxy returns a Proxy. A nil upstream makes every search fail with ErrConfigMissing.
func NewProxy(upstream Upstream, cfg config.SearchConfig, logger *slog.Logger) *Proxy {
	return &Proxy{
		upstream: upstream,
		cfg:      cfg,
		logger:   logger,
	}
}

// Search returns the issues matching query, optionally restricted to projectKey.
// A blank query returns an empty list, or ErrEmptyQuery under the "reject" policy,
// without calling Jira.
func (p *Proxy) Search(ctx context.Context, query, projectKey string) ([]IssueSummary, error) {
	if p.upstream == nil {
		return nil, ErrConfigMissing
	}

	term := NormalizeTerm(query, p.cfg.StripsWildcards())
	if term == "" {
		if p.cfg.EmptyQuery == config.EmptyQueryReject {
			return nil, ErrEmptyQuery
		}
		return []IssueSummary{}, nil
	}
	project := NormalizeProject(projectKey)

	if p.cfg.Mode == config.ModePicker {
		return p.pick(ctx, term, project)
	}
	return p.searchJQL(ctx, term, project)
}

// searchJQL runs a structured search and projects key and summary.
func (p *Proxy) searchJQL(ctx context.Context, term, project string) ([]IssueSummary, error) {
	jql := BuildJQL(term, project, p.cfg.OrderBy)
	p.logger.Debug("jira search", "jql", jql)

	res, err := p.upstream.SearchByJQL(ctx, jira.SearchRequest{
		JQL:        jql,
		Fields:     p.cfg.Fields,
		MaxResults: p.cfg.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}

	out := make([]IssueSummary, 0, len(res.Issues))
	for _, issue := range res.Issues {
		out = append(out, IssueSummary{Key: issue.Key, Summary: issue.Fields.Summary})
	}
	return out, nil
}

// pick queries the issue picker and flattens its sections.
func (p *Proxy) pick(ctx context.Context, term, project string) ([]IssueSummary, error) {
	var currentJQL string
	if project != "" {
		currentJQL = ProjectClause(project)
	}
	p.logger.Debug("jira issue picker", "query", term, "currentJQL", currentJQL)

	res, err := p.upstream.PickIssues(ctx, term, currentJQL)
	if err != nil {
		return nil, fmt.Errorf("pick issues: %w", err)
	}

	out := flattenSections(res.Sections)
	if len(out) > p.cfg.MaxResults {
		out = out[:p.cfg.MaxResults]
	}
	return out, nil
}

// flattenSections merges picker sections into one list, keeping the first
// occurrence of every key in section order.
func flattenSections(sections []jira.PickerSection) []IssueSummary {
	issues := orderedmap.New[string, IssueSummary]()
	for _, section := range sections {
		for _, issue := range section.Issues {
			if issue.Key == "" {
				continue
			}
			if _, seen := issues.Get(issue.Key); seen {
				continue
			}
			issues.Set(issue.Key, IssueSummary{Key: issue.Key, Summary: pickerSummary(issue)})
		}
	}

	out := make([]IssueSummary, 0, issues.Len())
	for pair := issues.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// pickerSummary prefers the plain-text summary over the highlighted one.
func pickerSummary(issue jira.PickerIssue) string {
	if issue.SummaryText != "" {
		return issue.SummaryText
	}
	return issue.Summary
}
