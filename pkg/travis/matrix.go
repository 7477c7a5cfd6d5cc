package travis

// Group is the value of the GROUP environment variable for a matrix entry.
// The manifest family partitions its matrix with GROUP; the set of valid
// values is whatever the script's guards declare (historically "python" and
// "docs").
type Group string

// The two groups the jupyter-style manifests declare.
const (
	GroupPython Group = "python"
	GroupDocs   Group = "docs"
)

// Entry is one build-matrix entry: the combination of a runtime version and
// an environment assignment list.  It is the unit that the CI runner
// schedules on to an isolated machine.
type Entry struct {
	Python Version `yaml:"python,omitempty"`
	Env    Env     `yaml:"env,omitempty"`
}

// Group extracts the entry's GROUP assignment.
func (e Entry) Group() (Group, bool) {
	val, ok := e.Env.Get("GROUP")
	return Group(val), ok
}

// key is the identity used for exclude-matching and duplicate detection.
func (e Entry) key() string {
	return e.Python.Value + "\x00" + e.Env.String()
}

// matches reports whether e matches the (possibly partial) exclude pattern:
// fields the pattern leaves empty match anything.
func (e Entry) matches(pat Entry) bool {
	if pat.Python.Value != "" && pat.Python.Value != e.Python.Value {
		return false
	}
	if len(pat.Env) > 0 && pat.Env.String() != e.Env.String() {
		return false
	}
	return true
}

// Entries expands the manifest's build matrix: the cartesian product of the
// runtime version list and the env.matrix rows, minus matrix.exclude
// matches, plus matrix.include entries, in that order.  Expansion is pure;
// the result is deterministic for a given Config.
func (c *Config) Entries() []Entry {
	versions := []Version(c.Python)
	if len(versions) == 0 {
		versions = []Version{{}}
	}
	var rows []Env
	if c.Env != nil {
		rows = c.Env.Matrix
	}
	if len(rows) == 0 {
		rows = []Env{nil}
	}

	entries := make([]Entry, 0, len(versions)*len(rows))
	for _, version := range versions {
		for _, row := range rows {
			entries = append(entries, Entry{Python: version, Env: row})
		}
	}

	if c.Matrix != nil {
		if len(c.Matrix.Exclude) > 0 {
			kept := entries[:0]
			for _, entry := range entries {
				excluded := false
				for _, pat := range c.Matrix.Exclude {
					if entry.matches(pat) {
						excluded = true
						break
					}
				}
				if !excluded {
					kept = append(kept, entry)
				}
			}
			entries = kept
		}
		entries = append(entries, c.Matrix.Include...)
	}

	return entries
}

// AllowedFailure reports whether the entry is listed under
// matrix.allow_failures.
func (c *Config) AllowedFailure(e Entry) bool {
	if c.Matrix == nil {
		return false
	}
	for _, pat := range c.Matrix.AllowFailures {
		if e.matches(pat) {
			return true
		}
	}
	return false
}

// Duplicates returns the entries that occur more than once in the expanded
// matrix (one report per extra occurrence).
func Duplicates(entries []Entry) []Entry {
	seen := make(map[string]bool, len(entries))
	var dups []Entry
	for _, entry := range entries {
		k := entry.key()
		if seen[k] {
			dups = append(dups, entry)
		}
		seen[k] = true
	}
	return dups
}
