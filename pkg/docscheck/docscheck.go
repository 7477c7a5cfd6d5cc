// Package docscheck is an offline link check for built HTML documentation:
// the local analog of the `make linkcheck` step that the manifest's docs
// branch runs on cron builds.  Only relative references are verified;
// external URLs are never fetched.
package docscheck

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"travlint/pkg/htmlutil"
)

// BrokenLink is a reference in an HTML file whose target does not exist on
// disk.
type BrokenLink struct {
	// File is the root-relative (slash-separated) path of the referring
	// HTML file.
	File string
	// Ref is the reference as written in the document.
	Ref string
}

// Scan parses every .html file under root and verifies that relative
// references (a/link href, img/script src) point at files that exist.
func Scan(ctx context.Context, root string) ([]BrokenLink, error) {
	var broken []BrokenLink
	err := filepath.WalkDir(root, func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(fpath), ".html") {
			return nil
		}
		rel, err := filepath.Rel(root, fpath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		dlog.Debugf(ctx, "checking %s", rel)

		refs, err := fileRefs(fpath)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			ok, err := refOK(root, rel, ref)
			if err != nil {
				return err
			}
			if !ok {
				broken = append(broken, BrokenLink{File: rel, Ref: ref})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}

// fileRefs parses one HTML file and collects its outgoing references.
func fileRefs(fpath string) ([]string, error) {
	file, err := os.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := html.Parse(file)
	if err != nil {
		return nil, &fs.PathError{Op: "parse", Path: fpath, Err: err}
	}

	var refs []string
	htmlutil.Visit(doc, func(node *html.Node) {
		if node.Type != html.ElementNode {
			return
		}
		attr := ""
		switch node.Data {
		case "a", "link":
			attr = "href"
		case "img", "script":
			attr = "src"
		}
		if attr != "" {
			if val, ok := htmlutil.Attr(node, attr); ok {
				refs = append(refs, val)
			}
		}
	})
	return refs, nil
}

// refOK decides whether one reference from file (root-relative) resolves.
// Absolute URLs, mailto links, and fragment-only references are out of scope
// for an offline check and always pass.
func refOK(root, file, ref string) (bool, error) {
	u, err := url.Parse(ref)
	if err != nil {
		// Not parseable as a URL; flag it rather than guessing.
		return false, nil //nolint:nilerr // the parse error is the finding
	}
	if u.Scheme != "" || u.Host != "" {
		return true, nil
	}
	if u.Path == "" {
		// Fragment-only (or empty) reference within the same document.
		return true, nil
	}

	target := u.Path
	if !path.IsAbs(target) {
		target = path.Join(path.Dir(file), target)
	} else {
		target = strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "../") {
		// Escapes the documentation root; nothing to verify against.
		return true, nil
	}

	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(target)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		// Directory references resolve through their index document.
		_, err := os.Stat(filepath.Join(root, filepath.FromSlash(target), "index.html"))
		if err != nil && !os.IsNotExist(err) {
			return false, err
		}
		return err == nil, nil
	}
	return true, nil
}
