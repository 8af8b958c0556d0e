// Package orchestrator decides which branch a unit of work runs on,
// persists that decision across the begin and complete invocation points,
// and drives phase-branch convergence afterward.
//
// The lifecycle is strictly sequential: the persisted session record is
// the mutual-exclusion token, so Begin refuses to run while a different
// workflow's record is pending, and Complete refuses to run without one.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/phasectl/internal/commitmsg"
	"github.com/fyrsmithlabs/phasectl/internal/config"
	"github.com/fyrsmithlabs/phasectl/internal/phase"
	"github.com/fyrsmithlabs/phasectl/internal/prompt"
	"github.com/fyrsmithlabs/phasectl/internal/review"
	"github.com/fyrsmithlabs/phasectl/internal/session"
	"github.com/fyrsmithlabs/phasectl/pkg/git"
)

// Orchestrator is the phase-aware branch state machine.
type Orchestrator struct {
	cfg     config.OrchestratorConfig
	vcs     git.Client
	store   session.Store
	confirm prompt.Confirmer
	reviews *review.Prompter
	logger  *zap.Logger
	state   State
}

// New builds an Orchestrator. vcs, store, and confirm are required; a nil
// logger is replaced with a nop.
func New(cfg config.OrchestratorConfig, vcs git.Client, store session.Store, confirm prompt.Confirmer, logger *zap.Logger) (*Orchestrator, error) {
	if vcs == nil {
		return nil, errors.New("vcs client is required")
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if confirm == nil {
		return nil, errors.New("confirmer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		cfg:     cfg,
		vcs:     vcs,
		store:   store,
		confirm: confirm,
		reviews: review.New(vcs, confirm, logger),
		logger:  logger,
		state:   StateIdle,
	}, nil
}

// State returns the current lifecycle state, for diagnostics.
func (o *Orchestrator) State() State {
	return o.state
}

// featureBranchName derives {base}-{phase}-{workflow} without suffix.
//
// Hyphens, not slashes: a slash-separated name would make the base branch
// a directory inside refs/heads while it already exists as a ref file,
// which git rejects. The same holds between the phase branch and the
// feature branches under it, so every derived name must be a sibling of
// the base, never a child.
func featureBranchName(base string, phaseNumber int, workflowID string) string {
	return fmt.Sprintf("%s-%d-%s", base, phaseNumber, workflowID)
}

// phaseBranchName derives {base}-{phase}.
func phaseBranchName(base string, phaseNumber int) string {
	return fmt.Sprintf("%s-%d", base, phaseNumber)
}

// Begin derives the feature branch for a workflow, switches to it, and
// persists the session record.
//
// A pending record for the same workflow is resumed idempotently (crash
// re-entry); a pending record for a different workflow fails with
// ErrSessionAlreadyActive. Any VCS failure before the record is persisted
// leaves no session behind.
func (o *Orchestrator) Begin(ctx context.Context, workflowID string) (*SessionInfo, error) {
	if workflowID == "" {
		return nil, errors.New("workflow identifier is required")
	}

	rec, recErr := o.store.Load()
	if recErr != nil && !errors.Is(recErr, session.ErrNoSession) {
		return nil, fmt.Errorf("loading session record: %w", recErr)
	}

	o.state = StateDeriving

	base, err := o.vcs.CurrentBranch()
	if err != nil {
		o.state = StateIdle
		return nil, &VcsFailure{Op: "current-branch", Err: err}
	}

	if recErr == nil {
		// A session is already pending. Re-entry into the same
		// workflow from outside its feature branch is a crash resume;
		// everything else is a refused second begin.
		if rec.WorkflowID == workflowID && base != rec.FeatureBranch {
			return o.resume(rec)
		}
		o.state = StateIdle
		return nil, fmt.Errorf("%w: workflow %q began at %s",
			ErrSessionAlreadyActive, rec.WorkflowID, rec.CreatedAt.Format(time.RFC3339))
	}

	if o.cfg.WarnDirtyWorkdir {
		if err := o.warnDirty(); err != nil {
			o.state = StateIdle
			return nil, err
		}
	}

	phaseNumber := phase.Of(workflowID)
	name, err := o.resolveBranchName(base, phaseNumber, workflowID)
	if err != nil {
		o.state = StateIdle
		return nil, err
	}

	if err := o.vcs.CreateAndCheckout(name, base); err != nil {
		// The caller is left on whatever branch the adapter last
		// confirmed; nothing was persisted.
		o.state = StateIdle
		return nil, &VcsFailure{Op: "create-branch " + name, Err: err}
	}

	newRec := &session.Record{
		SessionID:     uuid.New().String(),
		BaseBranch:    base,
		FeatureBranch: name,
		PhaseNumber:   phaseNumber,
		WorkflowID:    workflowID,
		CreatedAt:     time.Now(),
	}
	if err := o.store.Save(newRec); err != nil {
		o.state = StateIdle
		return nil, fmt.Errorf("branch %s was created but the session record could not be saved: %w", name, err)
	}

	o.state = StateReady
	o.logger.Info("workflow session started",
		zap.String("session_id", newRec.SessionID),
		zap.String("workflow", workflowID),
		zap.Int("phase", phaseNumber),
		zap.String("feature_branch", name),
	)

	return &SessionInfo{
		SessionID:     newRec.SessionID,
		BaseBranch:    base,
		FeatureBranch: name,
		PhaseNumber:   phaseNumber,
		PhaseName:     phase.Name(phaseNumber),
		WorkflowID:    workflowID,
		BranchCreated: true,
	}, nil
}

// resume re-enters a session whose record survived a crash between begin
// and complete. The recorded branch is reused without suffixing.
func (o *Orchestrator) resume(rec *session.Record) (*SessionInfo, error) {
	exists, err := o.vcs.BranchExists(rec.FeatureBranch)
	if err != nil {
		return nil, &VcsFailure{Op: "branch-exists " + rec.FeatureBranch, Err: err}
	}

	created := false
	if exists {
		if err := o.vcs.Checkout(rec.FeatureBranch); err != nil {
			return nil, &VcsFailure{Op: "checkout " + rec.FeatureBranch, Err: err}
		}
	} else {
		if err := o.vcs.CreateAndCheckout(rec.FeatureBranch, rec.BaseBranch); err != nil {
			return nil, &VcsFailure{Op: "create-branch " + rec.FeatureBranch, Err: err}
		}
		created = true
	}

	o.state = StateReady
	o.logger.Info("resumed workflow session",
		zap.String("session_id", rec.SessionID),
		zap.String("workflow", rec.WorkflowID),
		zap.String("feature_branch", rec.FeatureBranch),
	)

	return &SessionInfo{
		SessionID:     rec.SessionID,
		BaseBranch:    rec.BaseBranch,
		FeatureBranch: rec.FeatureBranch,
		PhaseNumber:   rec.PhaseNumber,
		PhaseName:     phase.Name(rec.PhaseNumber),
		WorkflowID:    rec.WorkflowID,
		BranchCreated: created,
		Resumed:       true,
	}, nil
}

// resolveBranchName finds an unused feature branch name, appending -2, -3,
// ... when the canonical name is taken by a branch no session record of
// ours names (another in-flight session's work).
func (o *Orchestrator) resolveBranchName(base string, phaseNumber int, workflowID string) (string, error) {
	canonical := featureBranchName(base, phaseNumber, workflowID)
	name := canonical
	for n := 2; ; n++ {
		exists, err := o.vcs.BranchExists(name)
		if err != nil {
			return "", &VcsFailure{Op: "branch-exists " + name, Err: err}
		}
		if !exists {
			return name, nil
		}
		name = fmt.Sprintf("%s-%d", canonical, n)
	}
}

// warnDirty asks before starting work on a tree with pending changes.
func (o *Orchestrator) warnDirty() error {
	changes, err := o.vcs.ChangedFiles()
	if err != nil {
		return &VcsFailure{Op: "changed-files", Err: err}
	}
	if changes.Empty() {
		return nil
	}
	ok, err := o.confirm.Confirm(
		fmt.Sprintf("Working tree has %d pending change(s); they will follow onto the new branch. Continue?", len(changes)), true)
	if err != nil {
		return fmt.Errorf("confirming dirty working tree: %w", err)
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}

// Complete commits the session's changes, offers a review handoff, and
// reconciles to the phase branch. Every path out of Complete other than a
// hard VCS failure during commit reaches a terminal outcome and clears
// the session record.
func (o *Orchestrator) Complete(ctx context.Context) (*CompletionReport, error) {
	rec, err := o.store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("loading session record: %w", err)
	}

	o.state = StateReconciling
	report := &CompletionReport{
		WorkflowID:    rec.WorkflowID,
		FeatureBranch: rec.FeatureBranch,
		FinalBranch:   rec.FeatureBranch,
	}
	if rec.PhaseNumber > phase.Unscoped {
		report.PhaseBranch = phaseBranchName(rec.BaseBranch, rec.PhaseNumber)
	}

	changes, err := o.vcs.ChangedFiles()
	if err != nil {
		// Degrade rather than leaving the record stuck: treat the tree
		// as unchanged, reconcile, and surface the failure as a warning.
		o.logger.Warn("could not enumerate changes", zap.Error(err))
		report.Warnings = append(report.Warnings, fmt.Sprintf("change detection failed: %v", err))
		changes = nil
	}
	report.ChangedFiles = changes

	if changes.Empty() {
		report.Outcome = OutcomeNoChanges
	} else {
		done, err := o.commitAndPush(rec, changes, report)
		if err != nil {
			// Commit did not happen; the session is not terminal and the
			// record stays so the caller can retry.
			return nil, err
		}
		if !done {
			// User declined the commit: terminal cancel, remaining steps
			// halt, nothing is rolled back.
			report.Outcome = OutcomeCancelled
			return o.finish(rec, report)
		}
	}

	if report.Outcome == OutcomeCommitted && rec.PhaseNumber > phase.Unscoped && o.cfg.OfferReview {
		out, err := o.reviews.Offer(rec.FeatureBranch, report.PhaseBranch, rec.WorkflowID)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("review offer failed: %v", err))
		} else {
			report.Review = &out
		}
	}

	o.reconcile(rec, report)
	return o.finish(rec, report)
}

// commitAndPush stages, composes, commits, and pushes. It returns
// (false, nil) when the user declined, (true, nil) when the tree is
// committed or turned out to be clean.
func (o *Orchestrator) commitAndPush(rec *session.Record, changes git.ChangeSet, report *CompletionReport) (bool, error) {
	if !o.cfg.AutoCommit {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("auto-commit disabled; %d change(s) left in the working tree", len(changes)))
		report.Outcome = OutcomeNoChanges
		return true, nil
	}

	if o.cfg.ConfirmBeforeCommit {
		ok, err := o.confirm.Confirm(
			fmt.Sprintf("Commit %d changed file(s) on %s?", len(changes), rec.FeatureBranch), true)
		if err != nil {
			return false, fmt.Errorf("confirming commit: %w", err)
		}
		if !ok {
			o.logger.Info("commit declined, ending session without one",
				zap.String("workflow", rec.WorkflowID))
			return false, nil
		}
	}

	if err := o.vcs.StageAll(); err != nil {
		return false, &VcsFailure{Op: "stage-all", Err: err}
	}

	message := commitmsg.Compose(o.cfg.CommitTemplate, rec.PhaseNumber, rec.WorkflowID, changes, o.cfg.Attribution)
	commitID, err := o.vcs.Commit(message)
	if err != nil {
		if errors.Is(err, git.ErrNothingToCommit) {
			// The change set raced with an external mutation; a clean
			// tree at commit time is a normal no-changes outcome.
			report.Outcome = OutcomeNoChanges
			return true, nil
		}
		return false, &VcsFailure{Op: "commit", Err: err}
	}

	report.Outcome = OutcomeCommitted
	report.CommitID = commitID
	report.CommitMessage = message
	o.logger.Info("committed workflow changes",
		zap.String("commit", commitID),
		zap.Int("files", len(changes)),
	)

	if o.cfg.AutoPush {
		if err := o.vcs.Push(rec.FeatureBranch); err != nil {
			// Never fatal: the local commit stands regardless of
			// network or auth state.
			report.PushWarning = err.Error()
			o.logger.Warn("push failed, local commit stands", zap.Error(err))
		}
	}
	return true, nil
}

// reconcile converges onto the phase branch. Unscoped sessions stay on
// the feature branch; reconciliation failures degrade to staying put.
func (o *Orchestrator) reconcile(rec *session.Record, report *CompletionReport) {
	if rec.PhaseNumber == phase.Unscoped || !o.cfg.AutoPhaseSwitch {
		return
	}

	target := report.PhaseBranch
	exists, err := o.vcs.BranchExists(target)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("phase reconciliation failed: %v", err))
		return
	}

	if exists {
		err = o.vcs.Checkout(target)
	} else {
		err = o.vcs.CreateAndCheckout(target, rec.BaseBranch)
	}
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("phase reconciliation failed: %v", err))
		return
	}

	report.FinalBranch = target
	o.state = StatePhaseSwitched
	o.logger.Info("reconciled to phase branch", zap.String("phase_branch", target))
}

// finish clears the record and returns the terminal report.
func (o *Orchestrator) finish(rec *session.Record, report *CompletionReport) (*CompletionReport, error) {
	if err := o.store.Clear(); err != nil {
		return nil, fmt.Errorf("clearing session record: %w", err)
	}
	o.state = StateIdle
	o.logger.Info("workflow session completed",
		zap.String("session_id", rec.SessionID),
		zap.String("workflow", rec.WorkflowID),
		zap.String("outcome", string(report.Outcome)),
		zap.String("final_branch", report.FinalBranch),
	)
	return report, nil
}
