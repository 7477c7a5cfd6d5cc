// Package lint checks a manifest for configuration-validity problems: keys
// the CI runner would not recognize, matrix entries that select no script
// branch (or several), and deferred-failure blocks that lose failures.
package lint

import "fmt"

// Level is a finding's severity.
type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Info    Level = "info"
)

// Finding is one problem found in a manifest.  The JSON tags are the
// machine-readable report format (`travlint lint --format=json|yaml`).
type Finding struct {
	Level   Level  `json:"level"`
	Rule    string `json:"rule"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// String renders the finding the way the text reporter prints it.
func (f Finding) String() string {
	if f.Path == "" {
		return fmt.Sprintf("%s: %s: %s", f.Level, f.Rule, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %s", f.Level, f.Rule, f.Path, f.Message)
}

// Report is the collected findings for one manifest.
type Report struct {
	Findings []Finding `json:"findings"`
}

func (r *Report) add(level Level, rule, path, format string, args ...interface{}) {
	r.Findings = append(r.Findings, Finding{
		Level:   level,
		Rule:    rule,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any finding is error-level.
func (r Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Level == Error {
			return true
		}
	}
	return false
}
