package hygiene_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travlint/pkg/hygiene"
)

func TestScan(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mkdir := func(dir string) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}
	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x\n"), 0644))
	}
	symlink := func(name string) {
		require.NoError(t, os.Symlink("target", filepath.Join(root, name)))
	}

	mkdir("git-hooks")
	mkdir("src")
	mkdir(".git/hooks")
	write("README.md")
	write("src/code.py")
	symlink("git-hooks/pre-commit")
	symlink("src/stray-link")
	symlink("stray-root")
	symlink(".git/hooks/ignored")

	ctx := dlog.NewTestContext(t, false)

	stray, err := hygiene.Scan(ctx, root, "git-hooks")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/stray-link", "stray-root"}, stray)

	// Allowing the offending directory clears it.
	stray, err = hygiene.Scan(ctx, root, "git-hooks", "src")
	require.NoError(t, err)
	assert.Equal(t, []string{"stray-root"}, stray)
}

func TestIsHidden(t *testing.T) {
	t.Parallel()
	testcases := map[string]bool{
		"":                 false,
		".":                false,
		"subdir":           false,
		".subdir2":         true,
		"subdir3/.subdir4": true,
		".subdir5/subdir6": true,
		"a/b/c":            false,
		".hidden-file":     true,
	}
	for tcInput, tcExpected := range testcases {
		assert.Equal(t, tcExpected, hygiene.IsHidden(tcInput), "IsHidden(%q)", tcInput)
	}
}

func TestScanHidden(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	mkdir := func(dir string) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0755))
	}
	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, filepath.FromSlash(name)), []byte("x\n"), 0644))
	}

	mkdir("subdir")
	mkdir(".subdir2")
	mkdir("subdir3/.subdir4")
	mkdir(".subdir5/subdir6")
	mkdir(".git/hooks")
	write("README.md")
	write(".hidden-file")
	write("subdir/.env")

	ctx := dlog.NewTestContext(t, false)

	hidden, err := hygiene.ScanHidden(ctx, root)
	require.NoError(t, err)
	// One entry per dot-prefixed component: nothing under .subdir2 or
	// .subdir5 is reported separately, and .git is skipped entirely.
	assert.Equal(t, []string{
		".hidden-file",
		".subdir2",
		".subdir5",
		"subdir/.env",
		"subdir3/.subdir4",
	}, hidden)
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	_, err := hygiene.Scan(ctx, filepath.Join(t.TempDir(), "no-such-dir"))
	assert.Error(t, err)
}
