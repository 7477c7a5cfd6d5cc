// Package plan interprets the shell-guard conventions of a manifest
// ("if [[ $GROUP == docs ]]; then ... fi", deferred failures collected in
// EXIT_STATUS) and resolves the ordered steps a CI runner would attempt for
// one build-matrix entry.  It recognizes structure; it does not run shell.
package plan

import (
	"regexp"
	"strings"

	"travlint/pkg/travis"
)

// Guard is a single `[[ $VAR == value ]]` test.
type Guard struct {
	Var   string
	Value string
}

// Command is one command inside a phase item.  The command text itself stays
// opaque; only the surrounding structure is interpreted.
type Command struct {
	Text string
	// Gate is a nested condition inside a guarded block (in practice the
	// TRAVIS_EVENT_TYPE gate on the link-check step); nil means
	// unconditional within its item.
	Gate *Guard
	// Deferred marks the `cmd || EXIT_STATUS=$?` idiom: the command's
	// failure is recorded rather than acted on, so that later commands in
	// the same block still get attempted.
	Deferred bool
}

// Item is the recognized structure of one phase item (one YAML list element
// under before_install/install/script/after_success).
type Item struct {
	Raw      string
	Guard    *Guard // the whole item's guard, or nil
	Commands []Command

	// Aggregates is set when the item initializes EXIT_STATUS=0, and
	// ExitsAggregate when it finishes with `exit $EXIT_STATUS`.  A block
	// that aggregates must also exit with the aggregate, otherwise the
	// collected failures are lost; that mismatch is the linter's business.
	Aggregates     bool
	ExitsAggregate bool

	// Opaque is set when the item uses control flow this package does not
	// model; the whole item is then treated as a single unconditional
	// command, and no guard conclusions are drawn from it.
	Opaque bool
}

var (
	reIfOpen = regexp.MustCompile(`^if \[\[ \$([A-Za-z_][A-Za-z0-9_]*) == "?([^"\s\]]+?)"? \]\]; then$`)
	reIfLine = regexp.MustCompile(`^if \[\[ \$([A-Za-z_][A-Za-z0-9_]*) == "?([^"\s\]]+?)"? \]\]; then (.+); fi$`)
	reDefer  = regexp.MustCompile(`^(.+?) \|\| EXIT_STATUS=\$\?$`)
)

const (
	aggregateInit = "EXIT_STATUS=0"
	aggregateExit = "exit $EXIT_STATUS"
)

// ParseItem recognizes the guard/defer structure of one phase item.  It never
// fails: anything it cannot model comes back as an Opaque item.
func ParseItem(raw string) *Item {
	item := &Item{Raw: raw}
	trimmed := strings.TrimSpace(raw)

	if !strings.Contains(trimmed, "\n") {
		if m := reIfLine.FindStringSubmatch(trimmed); m != nil {
			item.Guard = &Guard{Var: m[1], Value: m[2]}
			item.Commands = []Command{{Text: m[3]}}
		} else {
			item.Commands = []Command{{Text: trimmed}}
		}
		return item
	}

	lines := make([]string, 0, strings.Count(trimmed, "\n")+1)
	for _, line := range strings.Split(trimmed, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	// An item-level guard is an `if` on the first line matched by a `fi` on
	// the last.
	if m := reIfOpen.FindStringSubmatch(lines[0]); m != nil && lines[len(lines)-1] == "fi" {
		item.Guard = &Guard{Var: m[1], Value: m[2]}
		lines = lines[1 : len(lines)-1]
	}

	var gate *Guard
	for _, line := range lines {
		switch {
		case line == aggregateInit:
			item.Aggregates = true
		case line == aggregateExit:
			item.ExitsAggregate = true
		case line == "fi":
			if gate == nil {
				return opaque(item, trimmed)
			}
			gate = nil
		case line == "else", strings.HasPrefix(line, "elif "):
			// Branching beyond a bare guard; don't guess.
			return opaque(item, trimmed)
		default:
			if m := reIfOpen.FindStringSubmatch(line); m != nil {
				if gate != nil {
					// Deeper nesting than the manifest family
					// ever uses; don't guess.
					return opaque(item, trimmed)
				}
				gate = &Guard{Var: m[1], Value: m[2]}
				continue
			}
			cmd := Command{Text: line, Gate: gate}
			if m := reDefer.FindStringSubmatch(line); m != nil {
				cmd.Text = m[1]
				cmd.Deferred = true
			}
			item.Commands = append(item.Commands, cmd)
		}
	}
	if gate != nil {
		return opaque(item, trimmed)
	}

	return item
}

func opaque(item *Item, trimmed string) *Item {
	*item = Item{
		Raw:      item.Raw,
		Commands: []Command{{Text: trimmed}},
		Opaque:   true,
	}
	return item
}

// Items parses every item in a phase list.
func Items(list travis.CommandList) []*Item {
	ret := make([]*Item, len(list))
	for i, raw := range list {
		ret[i] = ParseItem(raw)
	}
	return ret
}

// Branches returns the distinct GROUP guard values declared across the
// manifest's before_install, install, and script phases, in order of first
// appearance.  These are the valid script branches a matrix entry may select.
func Branches(cfg *travis.Config) []travis.Group {
	var ret []travis.Group
	seen := make(map[travis.Group]bool)
	for _, list := range []travis.CommandList{cfg.BeforeInstall, cfg.Install, cfg.Script} {
		for _, item := range Items(list) {
			if item.Guard == nil || item.Guard.Var != groupVar {
				continue
			}
			group := travis.Group(item.Guard.Value)
			if !seen[group] {
				seen[group] = true
				ret = append(ret, group)
			}
		}
	}
	return ret
}

const (
	groupVar = "GROUP"
	eventVar = "TRAVIS_EVENT_TYPE"
)
