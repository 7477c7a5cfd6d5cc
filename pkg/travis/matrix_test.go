package travis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travlint/pkg/testutil"
	"travlint/pkg/travis"
)

func TestMatrix(t *testing.T) {
	t.Parallel()
	cfg := loadFixture(t)

	entries := cfg.Entries()
	testutil.AssertEqual(t, []travis.Entry{
		{
			Python: travis.Version{Value: "3.6"},
			Env:    travis.Env{{Name: "GROUP", Value: "python"}},
		},
		{
			Python: travis.Version{Value: "3.5"},
			Env:    travis.Env{{Name: "GROUP", Value: "python"}},
		},
		{
			Python: travis.Version{Value: "3.6"},
			Env:    travis.Env{{Name: "GROUP", Value: "docs"}},
		},
	}, entries)

	group, ok := entries[0].Group()
	assert.True(t, ok)
	assert.Equal(t, travis.GroupPython, group)

	group, ok = entries[2].Group()
	assert.True(t, ok)
	assert.Equal(t, travis.GroupDocs, group)

	assert.Empty(t, travis.Duplicates(entries))
}

func TestMatrixExclude(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`
python: ["3.5", "3.6"]
env:
  matrix:
    - GROUP=python
    - GROUP=docs
matrix:
  exclude:
    - python: "3.5"
      env: GROUP=docs
`))
	require.NoError(t, err)

	entries := cfg.Entries()
	require.Len(t, entries, 3)
	for _, entry := range entries {
		if entry.Python.Value == "3.5" {
			group, _ := entry.Group()
			assert.Equal(t, travis.GroupPython, group)
		}
	}
}

func TestMatrixExcludePartial(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`
python: ["3.5", "3.6"]
env: [GROUP=python, GROUP=docs]
matrix:
  exclude:
    - python: "3.5"
`))
	require.NoError(t, err)

	// A pattern with only python set excludes every env row for it.
	entries := cfg.Entries()
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "3.6", entry.Python.Value)
	}
}

func TestMatrixDuplicates(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`
python: ["3.6"]
env: [GROUP=python]
matrix:
  include:
    - python: "3.6"
      env: GROUP=python
`))
	require.NoError(t, err)

	entries := cfg.Entries()
	require.Len(t, entries, 2)
	assert.Len(t, travis.Duplicates(entries), 1)
}

func TestMatrixEmpty(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`language: python`))
	require.NoError(t, err)

	entries := cfg.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Python.Value)
	_, ok := entries[0].Group()
	assert.False(t, ok)
}

func TestAllowedFailure(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`
python: ["3.6", "3.7-dev"]
env: [GROUP=python]
matrix:
  allow_failures:
    - python: "3.7-dev"
`))
	require.NoError(t, err)

	entries := cfg.Entries()
	require.Len(t, entries, 2)
	assert.False(t, cfg.AllowedFailure(entries[0]))
	assert.True(t, cfg.AllowedFailure(entries[1]))
}
