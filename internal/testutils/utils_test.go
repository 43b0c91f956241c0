package testutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gi8lino/jirasearch/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
		testutils.MustWriteFile(t, path, "mode: jql")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "mode: jql", string(data))
	})
}

func TestMustParseURL(t *testing.T) {
	t.Parallel()

	u := testutils.MustParseURL(t, "https://example.atlassian.net/jira")
	assert.Equal(t, "example.atlassian.net", u.Host)
	assert.Equal(t, "/jira", u.Path)
}
