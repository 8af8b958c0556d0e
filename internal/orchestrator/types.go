package orchestrator

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/phasectl/internal/review"
	"github.com/fyrsmithlabs/phasectl/pkg/git"
)

// State tracks where the orchestrator is in a session's lifecycle. It is
// diagnostic only; the persisted session record, not the state value, is
// the source of truth across invocations.
type State string

const (
	StateIdle          State = "idle"
	StateDeriving      State = "deriving"
	StateReady         State = "ready"
	StateReconciling   State = "reconciling"
	StatePhaseSwitched State = "phase_switched"
)

// Outcome is the terminal result of completing a session.
type Outcome string

const (
	// OutcomeCommitted means changes were committed. The push may still
	// have failed, see CompletionReport.PushWarning.
	OutcomeCommitted Outcome = "committed"

	// OutcomeNoChanges means the working tree had nothing to record.
	OutcomeNoChanges Outcome = "no_changes"

	// OutcomeCancelled means the user declined the commit and
	// acknowledged ending the session without one.
	OutcomeCancelled Outcome = "cancelled"
)

var (
	// ErrSessionAlreadyActive reports a second begin while a different
	// workflow's session is pending.
	ErrSessionAlreadyActive = errors.New("a workflow session is already active")

	// ErrNoActiveSession reports a complete with no pending session.
	// Callers treat it as informational, not fatal.
	ErrNoActiveSession = errors.New("no active workflow session")

	// ErrNotARepository mirrors the adapter's detection failure so
	// callers can match against either package.
	ErrNotARepository = git.ErrNotRepository

	// ErrDeclined reports that the user declined to begin work on a
	// dirty working tree. No session is created.
	ErrDeclined = errors.New("declined by user")
)

// VcsFailure wraps an adapter error with the operation that produced it.
type VcsFailure struct {
	Op  string
	Err error
}

func (e *VcsFailure) Error() string {
	return fmt.Sprintf("vcs failure during %s: %v", e.Op, e.Err)
}

func (e *VcsFailure) Unwrap() error {
	return e.Err
}

// SessionInfo reports the result of beginning a session.
type SessionInfo struct {
	SessionID     string `json:"session_id"`
	BaseBranch    string `json:"base_branch"`
	FeatureBranch string `json:"feature_branch"`
	PhaseNumber   int    `json:"phase_number"`
	PhaseName     string `json:"phase_name"`
	WorkflowID    string `json:"workflow_id"`

	// BranchCreated is false when an existing branch was reused.
	BranchCreated bool `json:"branch_created"`

	// Resumed is true when begin re-entered an already-recorded session
	// instead of deriving a fresh one.
	Resumed bool `json:"resumed"`
}

// CompletionReport is the terminal record of a completed session.
type CompletionReport struct {
	Outcome       Outcome `json:"outcome"`
	WorkflowID    string  `json:"workflow_id"`
	FeatureBranch string  `json:"feature_branch"`

	// PhaseBranch is empty for unscoped (phase 0) sessions.
	PhaseBranch string `json:"phase_branch,omitempty"`

	// FinalBranch is where the working copy ended up.
	FinalBranch string `json:"final_branch"`

	CommitID      string        `json:"commit_id,omitempty"`
	CommitMessage string        `json:"commit_message,omitempty"`
	ChangedFiles  git.ChangeSet `json:"changed_files,omitempty"`

	// PushWarning is set when the push failed; the local commit stands.
	PushWarning string `json:"push_warning,omitempty"`

	// Review is nil unless a review handoff was offered.
	Review *review.Outcome `json:"review,omitempty"`

	// Warnings collects non-fatal degradations encountered on the way
	// to the terminal outcome.
	Warnings []string `json:"warnings,omitempty"`
}
