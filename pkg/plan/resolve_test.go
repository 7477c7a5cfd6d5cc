package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travlint/pkg/plan"
	"travlint/pkg/testutil"
	"travlint/pkg/travis"
)

func entryFor(t *testing.T, cfg *travis.Config, group travis.Group) travis.Entry {
	t.Helper()
	for _, entry := range cfg.Entries() {
		if g, _ := entry.Group(); g == group {
			return entry
		}
	}
	t.Fatalf("no matrix entry with GROUP=%s", group)
	return travis.Entry{}
}

func TestResolvePython(t *testing.T) {
	t.Parallel()
	cfg := loadFixture(t)

	p, err := plan.Resolve(cfg, entryFor(t, cfg, travis.GroupPython), plan.EventPush)
	require.NoError(t, err)

	testutil.AssertEqual(t, []plan.Step{
		{
			Phase:   plan.PhaseBeforeInstall,
			Command: "pip install --upgrade setuptools pip",
			Failure: plan.FailureHalt,
		},
		{
			Phase:   plan.PhaseInstall,
			Command: `pip install ".[test]" coverage codecov`,
			Failure: plan.FailureHalt,
		},
		{
			Phase:   plan.PhaseScript,
			Command: "pytest -v --cov=jupyter_server jupyter_server",
			Failure: plan.FailureFail,
		},
		{
			Phase:   plan.PhaseAfterSuccess,
			Command: "codecov",
			Failure: plan.FailureIgnore,
		},
	}, p.Steps)
}

func TestResolveDocs(t *testing.T) {
	t.Parallel()
	cfg := loadFixture(t)
	entry := entryFor(t, cfg, travis.GroupDocs)

	// On a push build the cron-gated link check is skipped.
	p, err := plan.Resolve(cfg, entry, plan.EventPush)
	require.NoError(t, err)
	require.Len(t, p.Steps, 5)
	for _, step := range p.Steps {
		assert.NotContains(t, step.Command, "linkcheck")
	}

	// On a cron build it is included, and it is deferred: it gets
	// attempted even when the HTML build step before it fails.
	p, err = plan.Resolve(cfg, entry, plan.EventCron)
	require.NoError(t, err)
	require.Len(t, p.Steps, 6)

	var docSteps []plan.Step
	for _, step := range p.Steps {
		if step.Phase == plan.PhaseScript {
			docSteps = append(docSteps, step)
		}
	}
	testutil.AssertEqual(t, []plan.Step{
		{Phase: plan.PhaseScript, Command: "make -C docs html", Failure: plan.FailureDefer},
		{Phase: plan.PhaseScript, Command: "make -C docs linkcheck", Failure: plan.FailureDefer},
		{
			Phase:   plan.PhaseScript,
			Command: `! find . -type l -not -path "./git-hooks/*" | grep .`,
			Failure: plan.FailureDefer,
		},
	}, docSteps)
}

func TestResolveBadEvent(t *testing.T) {
	t.Parallel()
	cfg := loadFixture(t)
	_, err := plan.Resolve(cfg, travis.Entry{}, plan.EventType("nightly"))
	assert.Error(t, err)
}

func TestParseEventType(t *testing.T) {
	t.Parallel()
	for _, good := range []string{"push", "pull_request", "cron", "api"} {
		event, err := plan.ParseEventType(good)
		assert.NoError(t, err)
		assert.Equal(t, plan.EventType(good), event)
	}
	_, err := plan.ParseEventType("nightly")
	assert.Error(t, err)
}

func TestExitDocs(t *testing.T) {
	t.Parallel()
	cfg := loadFixture(t)
	p, err := plan.Resolve(cfg, entryFor(t, cfg, travis.GroupDocs), plan.EventCron)
	require.NoError(t, err)

	stepIdx := func(substr string) int {
		for i, step := range p.Steps {
			if step.Command == substr {
				return i
			}
		}
		t.Fatalf("no step %q", substr)
		return -1
	}
	html := stepIdx("make -C docs html")
	linkcheck := stepIdx("make -C docs linkcheck")

	assert.Equal(t, 0, p.Exit(nil))
	// A deferred failure does not stop the plan, but does set the final
	// status.
	assert.Equal(t, 2, p.Exit(map[int]int{html: 2}))
	// Several deferred failures: the last one's status wins, like
	// repeated `EXIT_STATUS=$?` assignments.
	assert.Equal(t, 3, p.Exit(map[int]int{html: 2, linkcheck: 3}))
	// A halting failure ends the build with its own status immediately.
	assert.Equal(t, 7, p.Exit(map[int]int{0: 7, html: 2}))
}

func TestExitAfterSuccessIgnored(t *testing.T) {
	t.Parallel()
	cfg := loadFixture(t)
	p, err := plan.Resolve(cfg, entryFor(t, cfg, travis.GroupPython), plan.EventPush)
	require.NoError(t, err)

	last := len(p.Steps) - 1
	require.Equal(t, plan.PhaseAfterSuccess, p.Steps[last].Phase)
	assert.Equal(t, 0, p.Exit(map[int]int{last: 1}))
}

// The exit-status contract for a fully deferred plan: the result is non-zero
// exactly when at least one sub-step failed (the "logical OR" property).
func TestExitDeferredOr(t *testing.T) {
	t.Parallel()
	property := func(statuses []uint8) bool {
		p := &plan.Plan{}
		fail := make(map[int]int, len(statuses))
		anyFailed := false
		for i, s := range statuses {
			p.Steps = append(p.Steps, plan.Step{
				Phase:   plan.PhaseScript,
				Command: "step",
				Failure: plan.FailureDefer,
			})
			fail[i] = int(s)
			anyFailed = anyFailed || s != 0
		}
		return (p.Exit(fail) != 0) == anyFailed
	}
	testutil.QuickCheck(t, property, testutil.QuickConfig{MaxCount: 200},
		[]interface{}{[]uint8{}},
		[]interface{}{[]uint8{0, 0, 0}},
		[]interface{}{[]uint8{0, 2, 0}},
	)
}
