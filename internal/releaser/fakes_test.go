package releaser

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/grokify/releaseconductor/internal/operator"
	"github.com/grokify/releaseconductor/pkg/model"
)

// mutatingCalls are the VCS operations that change local or remote state.
var mutatingCalls = []string{"Checkout", "Pull", "Add", "Commit", "CreateAnnotatedTag", "PushAtomic"}

// fakeVCS is an in-memory vcs.Client that records every call.
type fakeVCS struct {
	remoteBranches []string
	current        string
	localBranches  []string
	latestTags     []string
	status         []string
	ahead, behind  int
	headTags       []string
	remoteURL      string

	// Applied on Pull, to simulate another release landing during confirmation.
	pullHeadTags   []string
	pullLatestTags []string

	errs  map[string]error
	calls []string
}

func newFakeVCS() *fakeVCS {
	return &fakeVCS{
		remoteBranches: []string{"develop", "main"},
		current:        "main",
		localBranches:  []string{"main"},
		latestTags:     []string{"Release-1.4.2"},
		remoteURL:      "git@github.com:acme/widget.git",
		errs:           map[string]error{},
	}
}

func (f *fakeVCS) record(name string, args ...string) error {
	call := name
	if len(args) > 0 {
		call += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, call)
	return f.errs[name]
}

func (f *fakeVCS) called(name string) bool {
	for _, c := range f.calls {
		if c == name || strings.HasPrefix(c, name+" ") {
			return true
		}
	}
	return false
}

func (f *fakeVCS) mutations() []string {
	var out []string
	for _, c := range f.calls {
		name, _, _ := strings.Cut(c, " ")
		if slices.Contains(mutatingCalls, name) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeVCS) CurrentBranch(_ context.Context) (string, error) {
	return f.current, f.record("CurrentBranch")
}

func (f *fakeVCS) RemoteBranches(_ context.Context, remote string) ([]string, error) {
	return f.remoteBranches, f.record("RemoteBranches", remote)
}

func (f *fakeVCS) Fetch(_ context.Context, remote string, refs ...string) error {
	return f.record("Fetch", append([]string{remote}, refs...)...)
}

func (f *fakeVCS) LatestTaggedCommitTags(_ context.Context, pattern string) ([]string, error) {
	return f.latestTags, f.record("LatestTaggedCommitTags", pattern)
}

func (f *fakeVCS) Status(_ context.Context) ([]string, error) {
	return f.status, f.record("Status")
}

func (f *fakeVCS) BranchExists(_ context.Context, branch string) (bool, error) {
	return slices.Contains(f.localBranches, branch), f.record("BranchExists", branch)
}

func (f *fakeVCS) Divergence(_ context.Context, local, upstream string) (int, int, error) {
	return f.ahead, f.behind, f.record("Divergence", local, upstream)
}

func (f *fakeVCS) Checkout(_ context.Context, branch string) error {
	if err := f.record("Checkout", branch); err != nil {
		return err
	}
	f.current = branch
	return nil
}

func (f *fakeVCS) Pull(_ context.Context, remote, branch string) error {
	if err := f.record("Pull", remote, branch); err != nil {
		return err
	}
	if f.pullHeadTags != nil {
		f.headTags = f.pullHeadTags
	}
	if f.pullLatestTags != nil {
		f.latestTags = f.pullLatestTags
	}
	return nil
}

func (f *fakeVCS) Add(_ context.Context, paths ...string) error {
	return f.record("Add", paths...)
}

func (f *fakeVCS) Commit(_ context.Context, message string) error {
	return f.record("Commit", message)
}

func (f *fakeVCS) TagsAtHead(_ context.Context) ([]string, error) {
	return f.headTags, f.record("TagsAtHead")
}

func (f *fakeVCS) CreateAnnotatedTag(_ context.Context, name, message string) error {
	return f.record("CreateAnnotatedTag", name, message)
}

func (f *fakeVCS) PushAtomic(_ context.Context, remote string, refs ...string) error {
	return f.record("PushAtomic", append([]string{remote}, refs...)...)
}

func (f *fakeVCS) RemoteURL(_ context.Context, remote string) (string, error) {
	return f.remoteURL, f.record("RemoteURL", remote)
}

// memStore is an in-memory manifest.Store.
type memStore struct {
	version  string
	readErr  error
	writeErr error
	writes   []string
}

func (m *memStore) Path() string { return "package.json" }

func (m *memStore) ReadVersion() (string, error) {
	return m.version, m.readErr
}

func (m *memStore) WriteVersion(v string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, v)
	m.version = v
	return nil
}

// scriptedOperator answers questions from a script.
type scriptedOperator struct {
	selects    []string
	selectErr  error
	confirm    bool
	confirmErr error
	asked      []string
}

func (o *scriptedOperator) Select(_ context.Context, question string, options []string) (string, error) {
	o.asked = append(o.asked, question)
	if o.selectErr != nil {
		return "", o.selectErr
	}
	if len(o.selects) == 0 {
		return "", operator.ErrNoInput
	}
	answer := o.selects[0]
	o.selects = o.selects[1:]
	if !slices.Contains(options, answer) {
		return "", errors.New("answer not among options: " + answer)
	}
	return answer, nil
}

func (o *scriptedOperator) Confirm(_ context.Context, question string) (bool, error) {
	o.asked = append(o.asked, question)
	return o.confirm, o.confirmErr
}

// stubAnnouncer records announcements.
type stubAnnouncer struct {
	url   string
	err   error
	plans []model.ReleasePlan
}

func (a *stubAnnouncer) Announce(_ context.Context, plan model.ReleasePlan) (string, error) {
	a.plans = append(a.plans, plan)
	return a.url, a.err
}

func testPlan() model.ReleasePlan {
	return model.ReleasePlan{
		Branch:    model.ReleaseBranch{Name: "main"},
		Previous:  model.VersionTag{Major: 1, Minor: 4, Patch: 2},
		Next:      model.VersionTag{Major: 1, Minor: 4, Patch: 3},
		Increment: model.IncrementPatch,
		Remote:    "origin",
		Manifest:  "package.json",
	}
}
