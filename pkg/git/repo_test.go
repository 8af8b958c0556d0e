package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository on branch main with one initial commit.
func initRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName("main"),
		},
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, repo
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestOpen_DetectsDotGitFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "internal", "deep")
	require.NoError(t, os.MkdirAll(sub, 0755))

	r, err := Open(sub, nil)
	require.NoError(t, err)

	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestGitDir(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, nil)
	require.NoError(t, err)

	gitDir, err := r.GitDir()
	require.NoError(t, err)
	assert.Equal(t, "HEAD", filepath.Base(filepath.Join(gitDir, "HEAD")))
	_, err = os.Stat(filepath.Join(gitDir, "HEAD"))
	assert.NoError(t, err)
}

func TestBranchExists(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, nil)
	require.NoError(t, err)

	exists, err := r.BranchExists("main")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = r.BranchExists("main-1-brainstorming")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateAndCheckout(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, nil)
	require.NoError(t, err)

	require.NoError(t, r.CreateAndCheckout("main-1-brainstorming", "main"))

	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main-1-brainstorming", branch)

	// Creating the same branch twice is an error; callers check first.
	err = r.CreateAndCheckout("main-1-brainstorming", "main")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// Creating from a missing base is NotFound.
	err = r.CreateAndCheckout("main-2-roadmap", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAndCheckout_DerivedNamesCoexistWithBase(t *testing.T) {
	// Hyphenated siblings never trip over refs/heads/main being a file,
	// the way a main/... name would. Both the feature branch and its
	// phase branch have to exist alongside the base and each other.
	dir, _ := initRepo(t)
	r, err := Open(dir, nil)
	require.NoError(t, err)

	require.NoError(t, r.CreateAndCheckout("main-1-brainstorming", "main"))
	require.NoError(t, r.CreateAndCheckout("main-1", "main"))

	for _, name := range []string{"main", "main-1", "main-1-brainstorming"} {
		exists, err := r.BranchExists(name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}
}

func TestCheckout(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, nil)
	require.NoError(t, err)

	err = r.Checkout("missing-branch")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.CreateAndCheckout("main-1-research", "main"))
	require.NoError(t, r.Checkout("main"))

	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestCheckout_KeepsUncommittedChanges(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, nil)
	require.NoError(t, err)

	writeFile(t, dir, "notes.md", "pending work\n")
	require.NoError(t, r.CreateAndCheckout("main-1-brainstorming", "main"))

	changes, err := r.ChangedFiles()
	require.NoError(t, err)
	assert.Contains(t, []string(changes), "notes.md")
}

func TestChangedFiles(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, nil)
	require.NoError(t, err)

	changes, err := r.ChangedFiles()
	require.NoError(t, err)
	assert.True(t, changes.Empty())

	writeFile(t, dir, "ideas.md", "some ideas\n")
	writeFile(t, dir, "README.md", "# modified\n")

	changes, err = r.ChangedFiles()
	require.NoError(t, err)
	assert.Equal(t, ChangeSet{"README.md", "ideas.md"}, changes)

	// Staging does not change the enumeration.
	require.NoError(t, r.StageAll())
	changes, err = r.ChangedFiles()
	require.NoError(t, err)
	assert.Len(t, changes, 2)
}

func TestCommit(t *testing.T) {
	dir, _ := initRepo(t)
	r, err := Open(dir, &Options{CommitterName: "Cris", CommitterEmail: "cris@example.com"})
	require.NoError(t, err)

	// Clean tree commits nothing.
	_, err = r.Commit("[Analysis] brainstorming: empty")
	assert.ErrorIs(t, err, ErrNothingToCommit)

	writeFile(t, dir, "ideas.md", "some ideas\n")
	require.NoError(t, r.StageAll())

	id, err := r.Commit("[Analysis] brainstorming: Generated ideas - by Cris")
	require.NoError(t, err)
	assert.Len(t, id, 40)

	changes, err := r.ChangedFiles()
	require.NoError(t, err)
	assert.True(t, changes.Empty())
}

func TestPush_LocalRemote(t *testing.T) {
	dir, repo := initRepo(t)

	bareDir := t.TempDir()
	_, err := gogit.PlainInit(bareDir, true)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{bareDir},
	})
	require.NoError(t, err)

	r, err := Open(dir, nil)
	require.NoError(t, err)

	require.NoError(t, r.Push("main"))
	// Second push is already up to date, not an error.
	require.NoError(t, r.Push("main"))
}

func TestRemoteURL(t *testing.T) {
	dir, repo := initRepo(t)
	r, err := Open(dir, nil)
	require.NoError(t, err)

	url, err := r.RemoteURL()
	require.NoError(t, err)
	assert.Empty(t, url)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:fyrsmithlabs/phasectl.git"},
	})
	require.NoError(t, err)

	url, err = r.RemoteURL()
	require.NoError(t, err)
	assert.Equal(t, "git@github.com:fyrsmithlabs/phasectl.git", url)
}

func TestChangeSet_HasTests(t *testing.T) {
	tests := []struct {
		name  string
		paths ChangeSet
		want  bool
	}{
		{"go test file", ChangeSet{"internal/phase/phase_test.go"}, true},
		{"tests directory", ChangeSet{"pkg/tests/fixtures.json"}, true},
		{"test underscore prefix", ChangeSet{"scripts/test_runner.py"}, true},
		{"no tests", ChangeSet{"README.md", "cmd/main.go"}, false},
		{"empty", ChangeSet{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.paths.HasTests())
		})
	}
}

func TestNewChangeSet_DedupesAndSorts(t *testing.T) {
	cs := newChangeSet([]string{"b.md", "a.md", "b.md", "c.md", "a.md"})
	assert.Equal(t, ChangeSet{"a.md", "b.md", "c.md"}, cs)
}
