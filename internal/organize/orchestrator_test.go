package organize

import (
	"context"
	"fmt"
	"testing"
	"time"

	"foldr/internal/config"
	"foldr/internal/errors"
	"foldr/internal/i18n"
	"foldr/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inputReply struct {
	value string
	ok    bool
}

// scriptedPrompter answers dialogs from a fixed script and records what it
// was shown.
type scriptedPrompter struct {
	choices []int
	inputs  []inputReply
	dialogs []Dialog
	alerts  []string
}

func (p *scriptedPrompter) Choose(d Dialog) (int, error) {
	p.dialogs = append(p.dialogs, d)
	if len(p.choices) == 0 {
		return 0, fmt.Errorf("unexpected dialog %q", d.Title)
	}
	c := p.choices[0]
	p.choices = p.choices[1:]
	return c, nil
}

func (p *scriptedPrompter) Input(title, prompt, initial string) (string, bool, error) {
	if len(p.inputs) == 0 {
		return "", false, fmt.Errorf("unexpected input %q", title)
	}
	r := p.inputs[0]
	p.inputs = p.inputs[1:]
	return r.value, r.ok, nil
}

func (p *scriptedPrompter) Alert(title, message string) error {
	p.alerts = append(p.alerts, message)
	return nil
}

type fakeHost struct {
	refreshed int
	idle      []func()
	selected  []string
}

func (h *fakeHost) Refresh()            { h.refreshed++ }
func (h *fakeHost) DelayCall(fn func()) { h.idle = append(h.idle, fn) }
func (h *fakeHost) Select(p string)     { h.selected = append(h.selected, p) }

func (h *fakeHost) flush() {
	idle := h.idle
	h.idle = nil
	for _, fn := range idle {
		fn()
	}
}

type memStore struct {
	cfg     *config.Config
	updates int
}

func (s *memStore) Config() *config.Config { return s.cfg }

func (s *memStore) Update(fn func(*config.Config) error) error {
	next := s.cfg.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.cfg = next
	s.updates++
	return nil
}

type failingFS struct {
	*OSFileSystem
}

func (f failingFS) Move(src, dst string) error {
	return fmt.Errorf("disk full")
}

var testClock = func() time.Time { return time.Date(2024, 3, 4, 5, 6, 7, 0, time.Local) }

type fixture struct {
	root   string
	store  *memStore
	prompt *scriptedPrompter
	host   *fakeHost
	orch   *Orchestrator
}

func newFixture(t *testing.T, files map[string]string, opts ...Option) *fixture {
	t.Helper()
	root := testutils.NewProject(t, files)
	testutils.CreateDirs(t, root, "Assets/Targets/Bar")

	f := &fixture{
		root:   root,
		store:  &memStore{cfg: config.New()},
		prompt: &scriptedPrompter{},
		host:   &fakeHost{},
	}
	tr := i18n.NewCatalog("").Load("en")
	opts = append([]Option{WithClock(testClock)}, opts...)
	f.orch = New(root, f.store, f.prompt, f.host, tr, opts...)
	return f
}

func (f *fixture) tree(t *testing.T) map[string]string {
	return testutils.ReadTree(t, f.root)
}

func TestMoveIntoTarget(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/Foo/a.txt":     "a",
		"Assets/Foo/Sub/b.txt": "b",
		"Assets/Foo.meta":      "meta",
	})
	f.prompt.choices = []int{ChoicePrimary}

	res, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar/")
	require.NoError(t, err)

	assert.Equal(t, Done, res.State)
	assert.Equal(t, Moved, res.Outcome)
	assert.Equal(t, "Assets/Targets/Bar/Foo", res.Destination)
	assert.NotEmpty(t, res.OperationID)

	require.Len(t, f.prompt.dialogs, 1)
	assert.Equal(t, "Move 'Foo' to 'Assets/Targets/Bar/Foo'?", f.prompt.dialogs[0].Message)
	assert.Equal(t, []string{"Move", "Cancel", "Move and don't ask again"}, f.prompt.dialogs[0].Options)

	tree := f.tree(t)
	assert.Equal(t, "a", tree["Assets/Targets/Bar/Foo/a.txt"])
	assert.Equal(t, "b", tree["Assets/Targets/Bar/Foo/Sub/b.txt"])
	assert.Equal(t, "meta", tree["Assets/Targets/Bar/Foo.meta"])
	assert.NotContains(t, tree, "Assets/Foo/a.txt")
	assert.NotContains(t, tree, "Assets/Foo.meta")

	cfg := f.store.Config()
	require.Len(t, cfg.History, 1)
	assert.Equal(t, config.HistoryEntry{
		Action:    config.ActionMove,
		Path:      "Assets/Foo",
		Extra:     "Assets/Targets/Bar/Foo",
		Timestamp: "2024-03-04 05:06:07",
	}, cfg.History[0])
	assert.Equal(t, []string{"Assets/Targets/Bar"}, cfg.Recent)

	assert.Equal(t, 1, f.host.refreshed)
	assert.Empty(t, f.host.selected, "selection waits for the idle tick")
	f.host.flush()
	assert.Equal(t, []string{"Assets/Targets/Bar/Foo"}, f.host.selected)
}

func TestMoveWithoutConfirmOrJump(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/Foo/a.txt": "a"})
	f.store.cfg.Settings.ConfirmBeforeMove = false
	f.store.cfg.Settings.JumpToNewFolder = false

	res, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.NoError(t, err)
	assert.Equal(t, Moved, res.Outcome)
	assert.Empty(t, f.prompt.dialogs)
	assert.Empty(t, f.host.idle)
}

func TestMoveAndDontAskAgain(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/Foo/a.txt": "a"})
	f.prompt.choices = []int{ChoiceAlternate}

	res, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.NoError(t, err)
	assert.Equal(t, Moved, res.Outcome)
	assert.False(t, f.store.Config().Settings.ConfirmBeforeMove)
	assert.Equal(t, 2, f.store.updates)
}

func TestCancelLeavesEverythingInPlace(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		choices []int
		inputs  []inputReply
		state   State
	}{
		{
			name:    "confirm cancelled",
			files:   map[string]string{"Assets/Foo/a.txt": "a"},
			choices: []int{ChoiceCancel},
			state:   ConfirmPending,
		},
		{
			name:    "confirm dismissed",
			files:   map[string]string{"Assets/Foo/a.txt": "a"},
			choices: []int{ChoiceDismissed},
			state:   ConfirmPending,
		},
		{
			name:    "script warning",
			files:   map[string]string{"Assets/Foo/A.cs": "class A {}"},
			choices: []int{ChoicePrimary, ChoiceCancel},
			state:   ScriptWarningPending,
		},
		{
			name:    "patch dialog",
			files:   map[string]string{"Assets/Foo/A.cs": `var p = "Assets/Foo/x";`},
			choices: []int{ChoicePrimary, ChoiceCancel},
			state:   ScriptWarningPending,
		},
		{
			name:    "conflict",
			files:   map[string]string{"Assets/Foo/a.txt": "a", "Assets/Targets/Bar/Foo/b.txt": "b"},
			choices: []int{ChoicePrimary, ChoiceCancel},
			state:   ConflictPending,
		},
		{
			name:    "rename blank",
			files:   map[string]string{"Assets/Foo/a.txt": "a", "Assets/Targets/Bar/Foo/b.txt": "b"},
			choices: []int{ChoicePrimary, ChoiceAlternate},
			inputs:  []inputReply{{value: "  ", ok: true}},
			state:   ConflictPending,
		},
		{
			name:    "rename cancelled",
			files:   map[string]string{"Assets/Foo/a.txt": "a", "Assets/Targets/Bar/Foo/b.txt": "b"},
			choices: []int{ChoicePrimary, ChoiceAlternate},
			inputs:  []inputReply{{value: "Other", ok: false}},
			state:   ConflictPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.files)
			f.prompt.choices = tt.choices
			f.prompt.inputs = tt.inputs
			before := f.tree(t)

			res, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
			require.NoError(t, err)
			assert.Equal(t, Cancelled, res.Outcome)
			assert.Equal(t, tt.state, res.State)

			assert.Equal(t, before, f.tree(t))
			assert.Empty(t, f.store.Config().History)
			assert.Empty(t, f.store.Config().Recent)
			assert.Zero(t, f.host.refreshed)
		})
	}
}

func TestMergeIntoExistingFolder(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/Foo/a.txt":             "new a",
		"Assets/Foo/Sub/c.txt":         "c",
		"Assets/Foo.meta":              "src meta",
		"Assets/Targets/Bar/Foo/a.txt": "old a",
		"Assets/Targets/Bar/Foo/b.txt": "b",
		"Assets/Targets/Bar/Foo.meta":  "dst meta",
	})
	f.prompt.choices = []int{ChoicePrimary, ChoicePrimary}

	res, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.NoError(t, err)
	assert.Equal(t, Merged, res.Outcome)
	assert.Equal(t, "Assets/Targets/Bar/Foo", res.Destination)
	assert.Equal(t, 2, res.Merge.Files)

	assert.Equal(t, []string{"Merge", "Cancel", "Rename"}, f.prompt.dialogs[1].Options)

	assert.Equal(t, map[string]string{
		"Assets/Targets/Bar/Foo/a.txt":     "new a",
		"Assets/Targets/Bar/Foo/b.txt":     "b",
		"Assets/Targets/Bar/Foo/Sub/c.txt": "c",
		"Assets/Targets/Bar/Foo.meta":      "dst meta",
	}, f.tree(t))
	assert.False(t, f.orch.fs.Exists("Assets/Foo"))

	require.Len(t, f.store.Config().History, 1)
	assert.Equal(t, "Assets/Targets/Bar/Foo", f.store.Config().History[0].Extra)
}

func TestRenameOnConflict(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/Foo/a.txt":              "a",
		"Assets/Targets/Bar/Foo/b.txt":  "b",
		"Assets/Targets/Bar/Taken/x.md": "x",
	})
	f.prompt.choices = []int{ChoicePrimary, ChoiceAlternate}
	f.prompt.inputs = []inputReply{
		{value: "Taken", ok: true},
		{value: "a/b", ok: true},
		{value: " Foo2 ", ok: true},
	}

	res, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.NoError(t, err)
	assert.Equal(t, Renamed, res.Outcome)
	assert.Equal(t, "Assets/Targets/Bar/Foo2", res.Destination)

	require.Len(t, f.prompt.alerts, 2)
	assert.Contains(t, f.prompt.alerts[0], "'Taken' already exists")
	assert.Contains(t, f.prompt.alerts[1], "'a/b' is not a valid folder name")

	tree := f.tree(t)
	assert.Equal(t, "a", tree["Assets/Targets/Bar/Foo2/a.txt"])
	assert.Equal(t, "b", tree["Assets/Targets/Bar/Foo/b.txt"])
	assert.Equal(t, "Assets/Targets/Bar/Foo2", f.store.Config().History[0].Extra)
	assert.Equal(t, []string{"Assets/Targets/Bar"}, f.store.Config().Recent)
}

func TestPatchAndMove(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/Foo/Loader.cs": `var p = "Assets/Foo/data.json";`,
		"Assets/Foo/data.json": "{}",
	})
	f.prompt.choices = []int{ChoicePrimary, ChoicePrimary}

	res, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.NoError(t, err)
	assert.Equal(t, Moved, res.Outcome)
	assert.Equal(t, 1, res.Patched)

	require.Len(t, f.prompt.dialogs, 2)
	assert.Equal(t, []string{"Patch and Move", "Cancel", "Move Anyway"}, f.prompt.dialogs[1].Options)
	assert.Contains(t, f.prompt.dialogs[1].Message, `Loader.cs (line 1): "Assets/Foo/data.json"`)
	assert.Equal(t, []string{"Patched 1 file(s)."}, f.prompt.alerts)

	assert.Equal(t, `var p = "Assets/Targets/Bar/Foo/data.json";`, f.tree(t)["Assets/Targets/Bar/Foo/Loader.cs"])
}

func TestMoveAnywayKeepsScripts(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/Foo/Loader.cs": `var p = "Assets/Foo/data.json";`,
	})
	f.prompt.choices = []int{ChoicePrimary, ChoiceAlternate}

	res, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.NoError(t, err)
	assert.Equal(t, Moved, res.Outcome)
	assert.Zero(t, res.Patched)
	assert.Equal(t, `var p = "Assets/Foo/data.json";`, f.tree(t)["Assets/Targets/Bar/Foo/Loader.cs"])
}

func TestScriptDialogsFollowSettings(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/Foo/Loader.cs": `var p = "Assets/Foo/data.json";`,
	})
	f.store.cfg.Settings.ConfirmBeforeMove = false
	f.store.cfg.Settings.ShowPatchDialog = false
	f.prompt.choices = []int{ChoicePrimary}

	_, err := f.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.NoError(t, err)
	require.Len(t, f.prompt.dialogs, 1)
	assert.Equal(t, []string{"Move Anyway", "Cancel"}, f.prompt.dialogs[0].Options)

	g := newFixture(t, map[string]string{"Assets/Foo/A.cs": "class A {}"})
	g.store.cfg.Settings.ConfirmBeforeMove = false
	g.store.cfg.Settings.ShowScriptWarnings = false

	res, err := g.orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.NoError(t, err)
	assert.Equal(t, Moved, res.Outcome)
	assert.Empty(t, g.prompt.dialogs)
}

func TestMoveValidation(t *testing.T) {
	tests := []struct {
		name           string
		source, target string
		kind           errors.ErrorKind
	}{
		{"missing source", "Assets/Nope", "Assets/Targets/Bar", errors.InvalidPath},
		{"source is a file", "Assets/file.txt", "Assets/Targets/Bar", errors.InvalidPath},
		{"missing target", "Assets/Foo", "Assets/Targets/Nope", errors.TargetNotFound},
		{"into itself", "Assets/Foo", "Assets/Foo", errors.InvalidPath},
		{"into a child", "Assets/Foo", "Assets/Foo/Sub", errors.InvalidPath},
		{"already there", "Assets/Targets/Bar/Baz", "Assets/Targets/Bar", errors.InvalidPath},
		{"target is parent of project", "Assets/Foo", "..", errors.InvalidPath},
		{"target escapes project", "Assets/Foo", "../Elsewhere", errors.InvalidPath},
		{"target climbs out", "Assets/Foo", "Assets/../../Elsewhere", errors.InvalidPath},
		{"absolute target", "Assets/Foo", "/tmp", errors.InvalidPath},
		{"target is project root", "Assets/Foo", ".", errors.InvalidPath},
		{"source is project root", ".", "Assets", errors.InvalidPath},
		{"source is parent of project", "..", "Assets", errors.InvalidPath},
		{"source escapes project", "../Foo", "Assets", errors.InvalidPath},
		{"absolute source", "/tmp", "Assets", errors.InvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, map[string]string{
				"Assets/Foo/Sub/a.txt":        "a",
				"Assets/file.txt":             "f",
				"Assets/Targets/Bar/Baz/b.md": "b",
			})
			before := f.tree(t)

			res, err := f.orch.Move(context.Background(), tt.source, tt.target)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
			assert.True(t, errors.IsValidation(err))
			assert.Equal(t, Idle, res.State)
			assert.Empty(t, f.prompt.dialogs)
			assert.Equal(t, before, f.tree(t))
		})
	}
}

func TestMoveFailureRecordsNothing(t *testing.T) {
	root := testutils.NewProject(t, map[string]string{"Assets/Foo/a.txt": "a"})
	testutils.CreateDirs(t, root, "Assets/Targets/Bar")
	store := &memStore{cfg: config.New()}
	store.cfg.Settings.ConfirmBeforeMove = false
	prompt := &scriptedPrompter{}
	host := &fakeHost{}

	orch := New(root, store, prompt, host, i18n.NewCatalog("").Load("en"),
		WithFileSystem(failingFS{NewOSFileSystem(root)}))

	res, err := orch.Move(context.Background(), "Assets/Foo", "Assets/Targets/Bar")
	require.Error(t, err)
	assert.Equal(t, errors.FileOperationFailed, errors.KindOf(err))
	assert.Equal(t, Executing, res.State)
	assert.Equal(t, None, res.Outcome)
	require.Len(t, prompt.alerts, 1)
	assert.Contains(t, prompt.alerts[0], "disk full")
	assert.Empty(t, store.Config().History)
	assert.Empty(t, store.Config().Recent)
	assert.Zero(t, host.refreshed)
}

func TestMoveHonoursCancelledContext(t *testing.T) {
	f := newFixture(t, map[string]string{"Assets/Foo/a.txt": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orch.Move(ctx, "Assets/Foo", "Assets/Targets/Bar")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.prompt.dialogs)
	assert.Contains(t, f.tree(t), "Assets/Foo/a.txt")
}

func TestRecentsAcrossMoves(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Assets/A/a.txt": "a",
		"Assets/B/b.txt": "b",
		"Assets/C/c.txt": "c",
	})
	testutils.CreateDirs(t, f.root, "Assets/Targets/Baz")
	f.store.cfg.Settings.ConfirmBeforeMove = false

	for _, step := range []struct{ source, target string }{
		{"Assets/A", "Assets/Targets/Bar"},
		{"Assets/B", "Assets/Targets/Baz"},
		{"Assets/C", "Assets/Targets/Bar"},
	} {
		_, err := f.orch.Move(context.Background(), step.source, step.target)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"Assets/Targets/Bar", "Assets/Targets/Baz"}, f.store.Config().Recent)
	assert.Len(t, f.store.Config().History, 3)
}

func TestStateAndOutcomeNames(t *testing.T) {
	assert.Equal(t, "conflict-pending", ConflictPending.String())
	assert.Equal(t, "merged", Merged.String())
	assert.Equal(t, "unknown", State(42).String())
}
