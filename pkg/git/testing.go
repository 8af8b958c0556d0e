package git

import "fmt"

// Fake is an in-memory Client for tests. It tracks branches, pending
// changes, and the call sequence so tests can assert ordering without a
// real repository.
type Fake struct {
	// Branch is the branch HEAD currently points to.
	Branch string

	// Branches is the set of existing local branches.
	Branches map[string]bool

	// Changes is returned from ChangedFiles and consumed by Commit.
	Changes ChangeSet

	// Remote is returned from RemoteURL.
	Remote string

	// Commits collects commit messages in order.
	Commits []string

	// Pushed collects pushed branch names in order.
	Pushed []string

	// Calls records every capability invocation in order.
	Calls []string

	// Error overrides, nil for success.
	CurrentBranchErr error
	ChangesErr       error
	StageErr         error
	CommitErr        error
	PushErr          error
	RemoteErr        error
	CheckoutErr      error
	CreateErr        error
}

var _ Client = (*Fake)(nil)

// NewFake returns a Fake positioned on branch with only that branch
// existing.
func NewFake(branch string) *Fake {
	return &Fake{
		Branch:   branch,
		Branches: map[string]bool{branch: true},
	}
}

func (f *Fake) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *Fake) CurrentBranch() (string, error) {
	f.record("current-branch")
	if f.CurrentBranchErr != nil {
		return "", f.CurrentBranchErr
	}
	return f.Branch, nil
}

func (f *Fake) BranchExists(name string) (bool, error) {
	f.record("branch-exists " + name)
	return f.Branches[name], nil
}

func (f *Fake) Checkout(name string) error {
	f.record("checkout " + name)
	if f.CheckoutErr != nil {
		return f.CheckoutErr
	}
	if !f.Branches[name] {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	f.Branch = name
	return nil
}

func (f *Fake) CreateAndCheckout(name, from string) error {
	f.record(fmt.Sprintf("create %s from %s", name, from))
	if f.CreateErr != nil {
		return f.CreateErr
	}
	if f.Branches[name] {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}
	if !f.Branches[from] {
		return fmt.Errorf("%w: %s", ErrNotFound, from)
	}
	f.Branches[name] = true
	f.Branch = name
	return nil
}

func (f *Fake) ChangedFiles() (ChangeSet, error) {
	f.record("changed-files")
	if f.ChangesErr != nil {
		return nil, f.ChangesErr
	}
	return f.Changes, nil
}

func (f *Fake) StageAll() error {
	f.record("stage-all")
	return f.StageErr
}

func (f *Fake) Commit(message string) (string, error) {
	f.record("commit")
	if f.CommitErr != nil {
		return "", f.CommitErr
	}
	if f.Changes.Empty() {
		return "", ErrNothingToCommit
	}
	f.Commits = append(f.Commits, message)
	f.Changes = nil
	return fmt.Sprintf("%040d", len(f.Commits)), nil
}

func (f *Fake) Push(branch string) error {
	f.record("push " + branch)
	if f.PushErr != nil {
		return f.PushErr
	}
	f.Pushed = append(f.Pushed, branch)
	return nil
}

func (f *Fake) RemoteURL() (string, error) {
	f.record("remote-url")
	if f.RemoteErr != nil {
		return "", f.RemoteErr
	}
	return f.Remote, nil
}
