// Package git provides the version-control capability set for phasectl.
//
// The Client interface is the only surface the orchestrator talks to; the
// go-git backed Repo is the single real implementation, and tests substitute
// a double. The interface deliberately avoids tool-specific notions so a
// different backend could be dropped in without touching callers.
package git

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNotRepository indicates the directory is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNotFound indicates a referenced branch does not exist.
	ErrNotFound = errors.New("branch not found")

	// ErrAlreadyExists indicates a branch with that name already exists.
	ErrAlreadyExists = errors.New("branch already exists")

	// ErrNothingToCommit indicates the working tree is clean at commit time.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrDetachedHead indicates HEAD does not point to a branch.
	ErrDetachedHead = errors.New("detached HEAD")
)

// ChangeSet is the de-duplicated union of staged, modified-vs-HEAD, and
// untracked-but-not-ignored paths, sorted lexically.
type ChangeSet []string

// Empty reports whether the change set contains no paths.
func (c ChangeSet) Empty() bool {
	return len(c) == 0
}

// HasTests reports whether any path in the set looks like a test file.
// This is a best-effort label used for commit summaries, nothing more.
func (c ChangeSet) HasTests() bool {
	for _, p := range c {
		base := filepath.Base(p)
		if strings.HasSuffix(base, "_test.go") ||
			strings.HasPrefix(base, "test_") ||
			strings.Contains(p, "/test/") ||
			strings.Contains(p, "/tests/") {
			return true
		}
	}
	return false
}

func newChangeSet(paths []string) ChangeSet {
	seen := make(map[string]struct{}, len(paths))
	out := make(ChangeSet, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Client is the capability set the orchestrator needs from a version-control
// tool. Every call is a blocking round trip; none are safe for concurrent
// use, matching the single-active-session model.
type Client interface {
	// CurrentBranch returns the branch HEAD points to, or ErrDetachedHead.
	CurrentBranch() (string, error)

	// BranchExists reports whether a local branch with the name exists.
	BranchExists(name string) (bool, error)

	// Checkout switches to an existing branch, ErrNotFound if absent.
	// Uncommitted local changes are carried over.
	Checkout(name string) error

	// CreateAndCheckout creates a branch starting at from and switches to
	// it. ErrAlreadyExists if the name is taken; callers check first.
	CreateAndCheckout(name, from string) error

	// ChangedFiles enumerates the working tree's pending paths.
	ChangedFiles() (ChangeSet, error)

	// StageAll stages every pending change, including untracked files.
	StageAll() error

	// Commit records staged changes and returns the new commit id.
	// ErrNothingToCommit if the tree is clean.
	Commit(message string) (string, error)

	// Push pushes the named branch to origin. Failures are the caller's
	// to downgrade; a push error never invalidates the local commit.
	Push(branch string) error

	// RemoteURL returns the first origin URL, or "" when no remote is
	// configured. The empty string is not an error.
	RemoteURL() (string, error)
}
