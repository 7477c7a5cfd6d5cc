package lint

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"travlint/pkg/plan"
	"travlint/pkg/travis"
)

// Check runs every rule against the manifest.
func Check(cfg *travis.Config) Report {
	var r Report

	r.checkKeys(cfg)
	r.checkVersions(cfg)
	r.checkCache(cfg)
	r.checkItems(cfg)
	r.checkMatrix(cfg)

	return r
}

func (r *Report) checkKeys(cfg *travis.Config) {
	for _, key := range cfg.Unknown {
		r.add(Warning, "unknown-key", key, "unrecognized top-level key")
	}
	if cfg.Sudo != nil {
		r.add(Info, "sudo-deprecated", "sudo", "the sudo key no longer has any effect")
	}
	if len(cfg.Python) > 0 && cfg.Language != "python" {
		if cfg.Language == "" {
			r.add(Warning, "language-mismatch", "language",
				"a python version list is set, but the language key is unset")
		} else {
			r.add(Warning, "language-mismatch", "language",
				"a python version list is set, but language is %q", cfg.Language)
		}
	}
}

func (r *Report) checkVersions(cfg *travis.Config) {
	check := func(path string, v travis.Version) {
		if v.Numeric {
			r.add(Warning, "version-unquoted", path,
				"unquoted version number %s: YAML reads it as a float, so 3.10 would become %q; quote it",
				v.Value, "3.1")
		}
	}
	for i, v := range cfg.Python {
		check(fmt.Sprintf("python[%d]", i), v)
	}
	if cfg.Matrix != nil {
		for i, e := range cfg.Matrix.Include {
			check(fmt.Sprintf("matrix.include[%d].python", i), e.Python)
		}
		for i, e := range cfg.Matrix.Exclude {
			check(fmt.Sprintf("matrix.exclude[%d].python", i), e.Python)
		}
	}
}

func (r *Report) checkCache(cfg *travis.Config) {
	if cfg.Cache == nil {
		return
	}
	seen := sets.NewString()
	for i, dir := range cfg.Cache.Directories {
		path := fmt.Sprintf("cache.directories[%d]", i)
		if strings.TrimSpace(dir) == "" {
			r.add(Error, "cache-empty", path, "empty cache directory entry")
			continue
		}
		if seen.Has(dir) {
			r.add(Warning, "cache-duplicate", path, "duplicate cache directory %q", dir)
		}
		seen.Insert(dir)
	}
}

// checkItems inspects the recognized structure of each phase item: opaque
// control flow, and EXIT_STATUS blocks that lose failures.
func (r *Report) checkItems(cfg *travis.Config) {
	phases := []struct {
		name string
		list travis.CommandList
	}{
		{"before_install", cfg.BeforeInstall},
		{"install", cfg.Install},
		{"script", cfg.Script},
		{"after_success", cfg.AfterSuccess},
	}
	for _, phase := range phases {
		for i, item := range plan.Items(phase.list) {
			path := fmt.Sprintf("%s[%d]", phase.name, i)
			if item.Opaque {
				r.add(Info, "script-opaque", path,
					"control flow not recognized; treating the item as a single command")
				continue
			}
			if !item.Aggregates {
				continue
			}
			if !item.ExitsAggregate {
				r.add(Error, "defer-no-exit", path,
					"the block collects failures in EXIT_STATUS but never runs `exit $EXIT_STATUS`")
			}
			for _, cmd := range item.Commands {
				if !cmd.Deferred {
					r.add(Warning, "defer-leak", path,
						"command %q is not deferred with `|| EXIT_STATUS=$?`; its failure would be lost",
						cmd.Text)
				}
			}
		}
	}
}

// checkMatrix enforces the invariant that every matrix entry maps to exactly
// one script branch, with the valid branch set taken from the script's own
// guards rather than hardcoded.
func (r *Report) checkMatrix(cfg *travis.Config) {
	entries := cfg.Entries()

	for _, dup := range travis.Duplicates(entries) {
		r.add(Error, "matrix-duplicate", "matrix",
			"entry appears more than once after expansion: python=%s env=%q",
			dup.Python, dup.Env.String())
	}

	declared := sets.NewString()
	for _, group := range plan.Branches(cfg) {
		declared.Insert(string(group))
	}

	scriptItems := plan.Items(cfg.Script)
	unguarded := 0
	for _, item := range scriptItems {
		if item.Guard == nil {
			unguarded++
		}
	}

	selected := sets.NewString()
	for i, entry := range entries {
		path := fmt.Sprintf("matrix[%d]", i)
		group, ok := entry.Group()
		if !ok {
			if declared.Len() > 0 && unguarded == 0 {
				r.add(Error, "group-missing", path,
					"entry (python=%s env=%q) sets no GROUP, and every script item is guarded: nothing would run",
					entry.Python, entry.Env.String())
			}
			continue
		}
		selected.Insert(string(group))
		// With no declared branches there is nothing to check GROUP
		// against; an opaque script item may well dispatch on it.
		if declared.Len() > 0 && !declared.Has(string(group)) {
			r.add(Error, "group-unknown", path,
				"GROUP=%s is not a declared branch (valid: %s)",
				group, strings.Join(declared.List(), ", "))
			continue
		}
		branches := 0
		for _, item := range scriptItems {
			if item.Guard != nil && item.Guard.Var == "GROUP" && item.Guard.Value == string(group) {
				branches++
			}
		}
		switch {
		case branches == 0 && unguarded == 0:
			r.add(Error, "group-missing", path,
				"GROUP=%s matches no script item (it is only guarded in earlier phases)", group)
		case branches > 1:
			r.add(Warning, "branch-ambiguous", path,
				"GROUP=%s matches %d script items; an entry should map to exactly one branch",
				group, branches)
		}
	}

	for _, group := range declared.Difference(selected).List() {
		r.add(Warning, "branch-unreachable", "script",
			"no matrix entry selects branch GROUP=%s", group)
	}
}
