package search

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	// issueKeyPattern matches a complete issue key such as "SCRUM-42".
	issueKeyPattern = regexp.MustCompile(`(?i)^[a-z0-9_]+-\d+$`)
	numericPattern  = regexp.MustCompile(`^\d+$`)

	jqlEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
)

// NormalizeTerm trims the raw user input. With stripWildcards, trailing
// "*" and "?" are removed too, since the text clause appends its own wildcard.
func NormalizeTerm(raw string, stripWildcards bool) string {
	term := strings.TrimSpace(raw)
	if stripWildcards {
		term = strings.TrimRight(term, "*? ")
	}
	return term
}

// NormalizeProject returns the canonical (trimmed, upper-cased) project key.
func NormalizeProject(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// EscapeJQL escapes a value for use inside a double-quoted JQL string literal.
func EscapeJQL(s string) string {
	return jqlEscaper.Replace(s)
}

// BuildJQL assembles the search query for a normalized term and project key:
//
//	project = "P" AND (text ~ "term*" OR issuekey = "P-1") ORDER BY updated DESC
//
// The project clause is omitted without a project key, the ORDER BY without orderBy.
func BuildJQL(term, project, orderBy string) string {
	clauses := make([]string, 0, 2)
	if project != "" {
		clauses = append(clauses, ProjectClause(project))
	}
	clauses = append(clauses, "("+strings.Join(matchConditions(term, project), " OR ")+")")

	jql := strings.Join(clauses, " AND ")
	if orderBy = strings.TrimSpace(orderBy); orderBy != "" {
		jql += " ORDER BY " + orderBy
	}
	return jql
}

// ProjectClause returns the exact project equality condition.
func ProjectClause(project string) string {
	return fmt.Sprintf(`project = "%s"`, EscapeJQL(project))
}

// matchConditions returns the alternatives a term can match, without duplicates.
func matchConditions(term, project string) []string {
	conds := []string{fmt.Sprintf(`text ~ "%s*"`, EscapeJQL(term))}
	add := func(c string) {
		if !slices.Contains(conds, c) {
			conds = append(conds, c)
		}
	}

	if issueKeyPattern.MatchString(term) {
		add(fmt.Sprintf(`issuekey = "%s"`, strings.ToUpper(term)))
	}
	// A bare number resolves within the selected project: "17" -> "SCRUM-17".
	if project != "" && numericPattern.MatchString(term) {
		add(fmt.Sprintf(`issuekey = "%s-%s"`, EscapeJQL(project), term))
	}
	return conds
}
