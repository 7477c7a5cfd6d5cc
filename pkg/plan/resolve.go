package plan

import (
	"fmt"

	"travlint/pkg/travis"
)

// EventType is what triggered the build, as the CI runner reports it in
// TRAVIS_EVENT_TYPE.
type EventType string

const (
	EventPush        EventType = "push"
	EventPullRequest EventType = "pull_request"
	EventCron        EventType = "cron"
	EventAPI         EventType = "api"
)

// ParseEventType validates an event-type string.
func ParseEventType(str string) (EventType, error) {
	switch event := EventType(str); event {
	case EventPush, EventPullRequest, EventCron, EventAPI:
		return event, nil
	default:
		return "", fmt.Errorf("invalid event type %q (valid: %s, %s, %s, %s)",
			str, EventPush, EventPullRequest, EventCron, EventAPI)
	}
}

// Phase is a manifest lifecycle phase.
type Phase string

const (
	PhaseBeforeInstall Phase = "before_install"
	PhaseInstall       Phase = "install"
	PhaseScript        Phase = "script"
	PhaseAfterSuccess  Phase = "after_success"
)

// FailureMode is what a step's non-zero exit status means for the build.
type FailureMode string

const (
	// FailureHalt: the build stops immediately with the step's status
	// (dependency-installation failures).
	FailureHalt FailureMode = "halt"
	// FailureFail: the build is failed, but later steps still run
	// (ordinary script failures).
	FailureFail FailureMode = "fail"
	// FailureDefer: the failure is recorded in the aggregate and the block
	// keeps going; the aggregate becomes the step's eventual status.
	FailureDefer FailureMode = "defer"
	// FailureIgnore: the status is discarded (after_success).
	FailureIgnore FailureMode = "ignore"
)

// Step is one command the CI runner would attempt.
type Step struct {
	Phase   Phase       `yaml:"phase"`
	Command string      `yaml:"command"`
	Failure FailureMode `yaml:"failure"`
}

// Plan is the ordered step sequence for one matrix entry and event type.
type Plan struct {
	Entry travis.Entry `yaml:"entry"`
	Event EventType    `yaml:"event"`
	Steps []Step       `yaml:"steps"`
}

// Resolve computes the Plan for one matrix entry: phase items whose guard
// matches the entry's GROUP are kept, commands behind a TRAVIS_EVENT_TYPE
// gate are kept only for the matching event, and every kept command gets the
// failure mode its phase and defer structure imply.
func Resolve(cfg *travis.Config, entry travis.Entry, event EventType) (*Plan, error) {
	if _, err := ParseEventType(string(event)); err != nil {
		return nil, err
	}

	group, _ := entry.Group()
	p := &Plan{Entry: entry, Event: event}

	addPhase := func(phase Phase, list travis.CommandList, mode FailureMode) {
		for _, item := range Items(list) {
			if !matches(item.Guard, group, event) {
				continue
			}
			for _, cmd := range item.Commands {
				if !matches(cmd.Gate, group, event) {
					continue
				}
				failure := mode
				if cmd.Deferred {
					failure = FailureDefer
				}
				p.Steps = append(p.Steps, Step{
					Phase:   phase,
					Command: cmd.Text,
					Failure: failure,
				})
			}
		}
	}

	addPhase(PhaseBeforeInstall, cfg.BeforeInstall, FailureHalt)
	addPhase(PhaseInstall, cfg.Install, FailureHalt)
	addPhase(PhaseScript, cfg.Script, FailureFail)
	addPhase(PhaseAfterSuccess, cfg.AfterSuccess, FailureIgnore)

	return p, nil
}

// matches evaluates a guard against the entry's group and the build's event
// type.  Guards on variables this package does not model always match: the
// command is listed rather than silently dropped.
func matches(g *Guard, group travis.Group, event EventType) bool {
	if g == nil {
		return true
	}
	switch g.Var {
	case groupVar:
		return travis.Group(g.Value) == group
	case eventVar:
		return EventType(g.Value) == event
	default:
		return true
	}
}

// Exit models the exit-status contract.  statuses maps step index to that
// step's exit status (missing means 0).  A halting step's failure ends the
// build with its status; fail and defer step failures each overwrite the
// final status (so the result is non-zero iff any of them failed, carrying
// the last failure's status, exactly like `EXIT_STATUS=$?`); ignored steps
// never affect it.
func (p *Plan) Exit(statuses map[int]int) int {
	status := 0
	for i, step := range p.Steps {
		s := statuses[i]
		if s == 0 {
			continue
		}
		switch step.Failure {
		case FailureHalt:
			return s
		case FailureFail, FailureDefer:
			status = s
		case FailureIgnore:
			// after_success cannot fail the build
		}
	}
	return status
}
