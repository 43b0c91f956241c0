package search_test

import (
	"strings"
	"testing"

	"github.com/gi8lino/jirasearch/internal/search"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTerm(t *testing.T) {
	t.Parallel()

	t.Run("trims whitespace", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "login", search.NormalizeTerm("  login \t", true))
	})

	t.Run("strips trailing wildcards", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "log", search.NormalizeTerm("log* ?*", true))
	})

	t.Run("keeps inner wildcards", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "l*g", search.NormalizeTerm("l*g", true))
	})

	t.Run("keeps wildcards when stripping is disabled", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "log*", search.NormalizeTerm(" log* ", false))
	})

	t.Run("only wildcards becomes empty", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", search.NormalizeTerm("**?", true))
	})
}

func TestEscapeJQL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `say \"hi\"`, search.EscapeJQL(`say "hi"`))
	assert.Equal(t, `a\\b`, search.EscapeJQL(`a\b`))
	assert.Equal(t, `\\\"`, search.EscapeJQL(`\"`))
}

func TestBuildJQL(t *testing.T) {
	t.Parallel()

	t.Run("plain term without project", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL("login", "", "updated DESC")
		assert.Equal(t, `(text ~ "login*") ORDER BY updated DESC`, got)
	})

	t.Run("issue key adds exact key condition", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL("SCRUM-42", "", "updated DESC")
		assert.Equal(t, `(text ~ "SCRUM-42*" OR issuekey = "SCRUM-42") ORDER BY updated DESC`, got)
	})

	t.Run("lower-case issue key is upper-cased", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL("scrum-42", "", "")
		assert.Equal(t, `(text ~ "scrum-42*" OR issuekey = "SCRUM-42")`, got)
	})

	t.Run("partial key does not add key condition", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL("SCRUM-", "", "")
		assert.Equal(t, `(text ~ "SCRUM-*")`, got)
	})

	t.Run("numeric term with project synthesizes key", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL("17", "SCRUM", "updated DESC")
		assert.Equal(t, `project = "SCRUM" AND (text ~ "17*" OR issuekey = "SCRUM-17") ORDER BY updated DESC`, got)
	})

	t.Run("numeric term without project stays text only", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL("17", "", "")
		assert.Equal(t, `(text ~ "17*")`, got)
	})

	t.Run("project with full key", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL("OPS-3", "SCRUM", "updated DESC")
		assert.Equal(t, `project = "SCRUM" AND (text ~ "OPS-3*" OR issuekey = "OPS-3") ORDER BY updated DESC`, got)
	})

	t.Run("quotes are escaped", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL(`say "hi"`, "", "")
		assert.Equal(t, `(text ~ "say \"hi\"*")`, got)

		// every quote in the term portion is preceded by a backslash
		inner := strings.TrimSuffix(strings.TrimPrefix(got, `(text ~ "`), `*")`)
		for i, r := range inner {
			if r == '"' {
				assert.Equal(t, byte('\\'), inner[i-1])
			}
		}
	})

	t.Run("backslash cannot undo the quote escape", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL(`x\" OR project = "Y`, "", "")
		assert.Equal(t, `(text ~ "x\\\" OR project = \"Y*")`, got)
	})

	t.Run("project key is escaped", func(t *testing.T) {
		t.Parallel()

		got := search.BuildJQL("a", `P"`, "")
		assert.Equal(t, `project = "P\"" AND (text ~ "a*")`, got)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		first := search.BuildJQL("SCRUM-1", "SCRUM", "updated DESC")
		for range 10 {
			assert.Equal(t, first, search.BuildJQL("SCRUM-1", "SCRUM", "updated DESC"))
		}
	})
}

func TestNormalizeProject(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SCRUM", search.NormalizeProject(" scrum "))
	assert.Equal(t, "", search.NormalizeProject("   "))
}
