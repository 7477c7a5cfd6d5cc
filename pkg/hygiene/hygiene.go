// Package hygiene implements repository-hygiene checks: no symlinked files
// outside an allowed set of directories (historically just "git-hooks"), and
// no dot-prefixed "hidden" paths, which the server the repository ships
// refuses to serve.
package hygiene

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/datawire/dlib/dlog"
)

// Scan walks the tree rooted at root and returns the root-relative paths
// (slash-separated) of symlinks that are not inside one of the allowed
// directories.  The `.git` directory is skipped.  Results are in walk order,
// which is lexical.
func Scan(ctx context.Context, root string, allowed ...string) ([]string, error) {
	var stray []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		dlog.Debugf(ctx, "symlink: %s", rel)
		for _, dir := range allowed {
			if rel == dir || strings.HasPrefix(rel, dir+"/") {
				return nil
			}
		}
		stray = append(stray, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stray, nil
}

// IsHidden reports whether a root-relative (slash-separated) path has a
// dot-prefixed component; everything under a hidden directory counts as
// hidden itself.  The root ("" or ".") is never hidden.
func IsHidden(rel string) bool {
	if rel == "" || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// ScanHidden walks the tree rooted at root and returns the root-relative
// paths of hidden files and directories, one entry per dot-prefixed
// component (the walk does not descend in to a reported directory).  The
// `.git` directory is skipped, not reported.
func ScanHidden(ctx context.Context, root string) ([]string, error) {
	var hidden []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if !strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		dlog.Debugf(ctx, "hidden: %s", rel)
		hidden = append(hidden, rel)
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hidden, nil
}
