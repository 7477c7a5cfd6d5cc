package travis_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travlint/pkg/testutil"
	"travlint/pkg/travis"
)

func loadFixture(t *testing.T) *travis.Config {
	t.Helper()
	data, err := os.ReadFile("testdata/jupyter.travis.yml")
	require.NoError(t, err)
	cfg, err := travis.Parse(data)
	require.NoError(t, err)
	return cfg
}

func TestParse(t *testing.T) {
	t.Parallel()
	cfg := loadFixture(t)

	assert.Equal(t, "python", cfg.Language)
	assert.Empty(t, cfg.Unknown)

	require.NotNil(t, cfg.Cache)
	assert.Equal(t, []string{"$HOME/.cache/pip"}, cfg.Cache.Directories)

	testutil.AssertEqual(t,
		travis.VersionList{{Value: "3.6"}, {Value: "3.5"}},
		cfg.Python)

	require.NotNil(t, cfg.Sudo)
	assert.Equal(t, travis.Sudo("false"), *cfg.Sudo)

	require.NotNil(t, cfg.Env)
	testutil.AssertEqual(t, &travis.EnvConfig{
		Global: []travis.Env{
			{{Name: "PATH", Value: "$TRAVIS_BUILD_DIR/pandoc:$PATH"}},
		},
		Matrix: []travis.Env{
			{{Name: "GROUP", Value: "python"}},
		},
	}, cfg.Env)

	require.Len(t, cfg.BeforeInstall, 2)
	assert.Equal(t, "pip install --upgrade setuptools pip", cfg.BeforeInstall[0])
	assert.Contains(t, cfg.BeforeInstall[1], "doc-requirements.txt")

	require.Len(t, cfg.Install, 1)
	require.Len(t, cfg.Script, 2)
	assert.Contains(t, cfg.Script[1], "exit $EXIT_STATUS")

	require.NotNil(t, cfg.Matrix)
	testutil.AssertEqual(t, []travis.Entry{
		{
			Python: travis.Version{Value: "3.6"},
			Env:    travis.Env{{Name: "GROUP", Value: "docs"}},
		},
	}, cfg.Matrix.Include)

	assert.Equal(t, travis.CommandList{"codecov"}, cfg.AfterSuccess)
}

func TestParseUnknownKeys(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`
language: python
notifications:
  email: false
dist: xenial
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"notifications", "dist"}, cfg.Unknown)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	testcases := map[string]string{
		"not-yaml":    "language: [",
		"bad-version": "python: [{}]",
		"bad-env":     "env: [not an assignment]",
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			_, err := travis.Parse([]byte(tcData))
			assert.Error(t, err)
		})
	}
}

func TestCommandListScalar(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`script: make test`))
	require.NoError(t, err)
	assert.Equal(t, travis.CommandList{"make test"}, cfg.Script)
}

func TestVersionNumeric(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`python: [3.6, "3.10", 3.10, 2]`))
	require.NoError(t, err)
	testutil.AssertEqual(t, travis.VersionList{
		{Value: "3.6", Numeric: true},
		{Value: "3.10"},
		// The float trap: an unquoted 3.10 is the number 3.1.
		{Value: "3.1", Numeric: true},
		{Value: "2", Numeric: true},
	}, cfg.Python)
}

func TestSudoRequired(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`sudo: required`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Sudo)
	assert.Equal(t, travis.Sudo("required"), *cfg.Sudo)
}

func TestEnvShortForm(t *testing.T) {
	t.Parallel()
	cfg, err := travis.Parse([]byte(`
env:
  - GROUP=python
  - GROUP=docs
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Env)
	assert.Empty(t, cfg.Env.Global)
	require.Len(t, cfg.Env.Matrix, 2)
	assert.Equal(t, travis.Env{{Name: "GROUP", Value: "docs"}}, cfg.Env.Matrix[1])
}
