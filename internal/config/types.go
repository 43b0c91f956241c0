package config

// Mode selects the upstream Jira endpoint used for searching.
type Mode string

const (
	ModeJQL    Mode = "jql"    // structured JQL search
	ModePicker Mode = "picker" // issue picker (autocomplete) API
)

// EmptyQueryPolicy decides how a blank search term is answered.
type EmptyQueryPolicy string

const (
	EmptyQueryEmpty  EmptyQueryPolicy = "empty"  // 200 with []
	EmptyQueryReject EmptyQueryPolicy = "reject" // 400 validation error
)

// SearchConfig is the search policy shared by every request.
type SearchConfig struct {
	Mode           Mode             `yaml:"mode"`
	EmptyQuery     EmptyQueryPolicy `yaml:"emptyQuery"`
	StripWildcards *bool            `yaml:"stripWildcards,omitempty"` // nil means true
	MaxResults     int              `yaml:"maxResults"`
	Fields         []string         `yaml:"fields"`
	OrderBy        string           `yaml:"orderBy"`
	SearchPath     string           `yaml:"searchPath"`
	PickerPath     string           `yaml:"pickerPath"`
}

// StripsWildcards reports whether trailing "*" and "?" are removed from the term.
func (c SearchConfig) StripsWildcards() bool {
	return c.StripWildcards == nil || *c.StripWildcards
}
