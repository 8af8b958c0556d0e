// Package session persists the branch-derivation record that spans the
// begin and complete invocation points.
//
// Exactly one record may exist at a time; its presence is the mutual
// exclusion token that blocks a second begin. The record lives under the
// repository's .git directory so it survives between the two process
// invocations while staying invisible to git itself.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrNoSession indicates no session record exists.
	ErrNoSession = errors.New("no active session")

	// ErrSessionExists indicates a record is already present; the caller
	// must complete or cancel it before beginning new work.
	ErrSessionExists = errors.New("session already active")
)

// Record is the persisted branch-derivation decision for one unit of work.
type Record struct {
	// SessionID is the ownership marker: a branch is attributed to this
	// session only when the record naming it carries this identifier.
	SessionID string `json:"session_id"`

	// BaseBranch is the branch work started from, captured once.
	BaseBranch string `json:"base_branch"`

	// FeatureBranch is the derived {base}-{phase}-{workflow}[-{n}] name.
	FeatureBranch string `json:"feature_branch"`

	// PhaseNumber is >= 0; 0 means unscoped.
	PhaseNumber int `json:"phase_number"`

	// WorkflowID is the caller-supplied identifier, opaque here.
	WorkflowID string `json:"workflow_id"`

	// CreatedAt is diagnostic only.
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the record holds the fields every consumer relies on.
func (r *Record) Validate() error {
	if r.SessionID == "" {
		return errors.New("session record missing session_id")
	}
	if r.BaseBranch == "" {
		return errors.New("session record missing base_branch")
	}
	if r.FeatureBranch == "" {
		return errors.New("session record missing feature_branch")
	}
	if r.WorkflowID == "" {
		return errors.New("session record missing workflow_id")
	}
	if r.PhaseNumber < 0 {
		return fmt.Errorf("session record has negative phase %d", r.PhaseNumber)
	}
	return nil
}

// Store persists at most one Record between invocations.
type Store interface {
	// Load returns the active record, or ErrNoSession.
	Load() (*Record, error)

	// Save persists the record. ErrSessionExists if one is already
	// present; an active session is never silently overwritten.
	Save(rec *Record) error

	// Clear removes the record. Clearing an absent record is not an
	// error so terminal cleanup is idempotent.
	Clear() error
}

// FileStore keeps the record as a JSON file.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at gitDir. The record is written to
// <gitDir>/phasectl/session.json with owner-only permissions.
func NewFileStore(gitDir string) *FileStore {
	return &FileStore{path: filepath.Join(gitDir, "phasectl", "session.json")}
}

// Path returns the location of the record file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading session record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing session record %s: %w", s.path, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session record %s: %w", s.path, err)
	}
	return &rec, nil
}

func (s *FileStore) Save(rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err == nil {
		return ErrSessionExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking session record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}

	// Write-then-rename so a crash never leaves a half-written record.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing session record: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("persisting session record: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing session record: %w", err)
	}
	return nil
}
