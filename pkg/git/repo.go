package git

import (
	"errors"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const (
	defaultCommitterName  = "phasectl"
	defaultCommitterEmail = "phasectl@localhost"
	originRemote          = "origin"
)

// Options configures the go-git backed client.
type Options struct {
	// CommitterName and CommitterEmail identify the commit author.
	// Empty values fall back to the phasectl defaults.
	CommitterName  string
	CommitterEmail string
}

// Repo implements Client on top of go-git, operating on the repository
// containing path.
type Repo struct {
	repo           *gogit.Repository
	committerName  string
	committerEmail string
}

var _ Client = (*Repo)(nil)

// Open locates the repository containing path, walking up to find the .git
// directory the way the git CLI does. Returns ErrNotRepository when path is
// not inside a repository.
func Open(path string, opts *Options) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	r := &Repo{
		repo:           repo,
		committerName:  defaultCommitterName,
		committerEmail: defaultCommitterEmail,
	}
	if opts != nil {
		if opts.CommitterName != "" {
			r.committerName = opts.CommitterName
		}
		if opts.CommitterEmail != "" {
			r.committerEmail = opts.CommitterEmail
		}
	}
	return r, nil
}

// GitDir returns the repository's metadata directory (.git). Session state
// lives under it so that git itself never sees the file.
func (r *Repo) GitDir() (string, error) {
	st, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", errors.New("repository storage is not filesystem-backed")
	}
	return st.Filesystem().Root(), nil
}

// CurrentBranch returns the short name of the branch HEAD points to.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

// BranchExists reports whether the local branch exists.
func (r *Repo) BranchExists(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("looking up branch %s: %w", name, err)
	}
	return true, nil
}

// Checkout switches to an existing branch, keeping uncommitted changes.
func (r *Repo) Checkout(name string) error {
	exists, err := r.BranchExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Keep:   true,
	}); err != nil {
		return fmt.Errorf("checking out %s: %w", name, err)
	}
	return nil
}

// CreateAndCheckout creates name starting at from and switches to it.
func (r *Repo) CreateAndCheckout(name, from string) error {
	exists, err := r.BranchExists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	fromRef, err := r.repo.Reference(plumbing.NewBranchReferenceName(from), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, from)
		}
		return fmt.Errorf("resolving branch %s: %w", from, err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.Checkout(&gogit.CheckoutOptions{
		Hash:   fromRef.Hash(),
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	}); err != nil {
		return fmt.Errorf("creating branch %s from %s: %w", name, from, err)
	}
	return nil
}

// ChangedFiles returns the union of staged, modified, and untracked paths.
func (r *Repo) ChangedFiles() (ChangeSet, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}

	var paths []string
	for path, st := range status {
		if st.Worktree == gogit.Unmodified && st.Staging == gogit.Unmodified {
			continue
		}
		paths = append(paths, path)
	}
	return newChangeSet(paths), nil
}

// StageAll stages all pending changes, untracked files included.
func (r *Repo) StageAll() error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}
	return nil
}

// Commit records the staged changes and returns the commit hash.
func (r *Repo) Commit(message string) (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("opening worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("reading status: %w", err)
	}
	if status.IsClean() {
		return "", ErrNothingToCommit
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  r.committerName,
			Email: r.committerEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		if errors.Is(err, gogit.ErrEmptyCommit) {
			return "", ErrNothingToCommit
		}
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}

// Push pushes the branch to origin.
func (r *Repo) Push(branch string) error {
	spec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	err := r.repo.Push(&gogit.PushOptions{
		RemoteName: originRemote,
		RefSpecs:   []gitconfig.RefSpec{spec},
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing %s: %w", branch, err)
	}
	return nil
}

// RemoteURL returns the first URL of origin, or "" when origin is absent.
func (r *Repo) RemoteURL() (string, error) {
	remote, err := r.repo.Remote(originRemote)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("looking up remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}
	return urls[0], nil
}
