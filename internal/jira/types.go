package jira

// SearchRequest is the body of a JQL search call.
type SearchRequest struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	MaxResults int      `json:"maxResults"`
}

// SearchResult represents the top-level structure from the JIRA search API
type SearchResult struct {
	Issues []Issue `json:"issues"`
}

// Issue represents a single issue in the search result
type Issue struct {
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields represents the inner fields of a JIRA issue
type Fields struct {
	Summary string `json:"summary"`
}

// PickerResult is the response of the issue picker API.
type PickerResult struct {
	Sections []PickerSection `json:"sections"`
}

// PickerSection is one labeled group of suggestions ("History Search", "Current Search").
type PickerSection struct {
	ID     string        `json:"id"`
	Label  string        `json:"label"`
	Sub    string        `json:"sub"`
	Issues []PickerIssue `json:"issues"`
}

// PickerIssue is a single suggestion. Summary carries highlight markup, SummaryText does not.
type PickerIssue struct {
	Key         string `json:"key"`
	KeyHTML     string `json:"keyHtml"`
	Summary     string `json:"summary"`
	SummaryText string `json:"summaryText"`
}
