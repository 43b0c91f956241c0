package config_test

import (
	"path/filepath"
	"testing"

	"github.com/gi8lino/jirasearch/internal/config"
	"github.com/gi8lino/jirasearch/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty path yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, config.ModeJQL, cfg.Mode)
		assert.Equal(t, config.EmptyQueryEmpty, cfg.EmptyQuery)
		assert.True(t, cfg.StripsWildcards())
		assert.Equal(t, 25, cfg.MaxResults)
		assert.Equal(t, []string{"summary", "key"}, cfg.Fields)
		assert.Equal(t, "updated DESC", cfg.OrderBy)
		assert.Equal(t, "rest/api/3/search/jql", cfg.SearchPath)
		assert.Equal(t, "rest/api/3/issue/picker", cfg.PickerPath)
	})

	t.Run("full config", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "search.yaml")
		testutils.MustWriteFile(t, path, `
mode: picker
emptyQuery: reject
stripWildcards: false
maxResults: 10
orderBy: created DESC
searchPath: rest/api/3/search
`)

		cfg, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, config.ModePicker, cfg.Mode)
		assert.Equal(t, config.EmptyQueryReject, cfg.EmptyQuery)
		assert.False(t, cfg.StripsWildcards())
		assert.Equal(t, 10, cfg.MaxResults)
		assert.Equal(t, "created DESC", cfg.OrderBy)
		assert.Equal(t, "rest/api/3/search", cfg.SearchPath)
		assert.Equal(t, "rest/api/3/issue/picker", cfg.PickerPath)
	})

	t.Run("empty file yields defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.yaml")
		testutils.MustWriteFile(t, path, "")

		cfg, err := config.LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		testutils.MustWriteFile(t, path, "mode: jql\ncache: true\n")

		_, err := config.LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, config.ValidateConfig(config.Default()))
	})

	t.Run("collects every problem", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Mode = "fulltext"
		cfg.EmptyQuery = "error"
		cfg.MaxResults = 500
		cfg.Fields = []string{"key"}
		cfg.OrderBy = `updated DESC) OR (1=1`

		err := config.ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `mode "fulltext"`)
		assert.Contains(t, err.Error(), `emptyQuery "error"`)
		assert.Contains(t, err.Error(), "maxResults 500 out of range (1-100)")
		assert.Contains(t, err.Error(), `fields must include "summary"`)
		assert.Contains(t, err.Error(), "orderBy")
	})

	t.Run("negative max results", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.MaxResults = -1

		err := config.ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maxResults -1")
	})
}
