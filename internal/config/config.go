// Package config provides configuration loading for phasectl.
package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config is the root configuration.
type Config struct {
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	Logging      LoggingConfig      `koanf:"logging"`
}

// OrchestratorConfig holds the behavior switches for the branch
// orchestrator. Every switch defaults to on; callers opt out.
type OrchestratorConfig struct {
	// Enabled turns branch orchestration off entirely when false.
	Enabled bool `koanf:"enabled"`

	// AutoCommit commits pending changes when a workflow completes.
	AutoCommit bool `koanf:"auto_commit"`

	// ConfirmBeforeCommit asks before committing. Declining cancels the
	// session without committing.
	ConfirmBeforeCommit bool `koanf:"confirm_before_commit"`

	// AutoPush pushes the feature branch after a successful commit.
	// Push failures are warnings, never fatal.
	AutoPush bool `koanf:"auto_push"`

	// OfferReview proposes a review request into the phase branch.
	OfferReview bool `koanf:"offer_review"`

	// AutoPhaseSwitch reconciles to the phase branch after completion.
	AutoPhaseSwitch bool `koanf:"auto_phase_switch"`

	// WarnDirtyWorkdir asks before beginning work on a dirty tree.
	WarnDirtyWorkdir bool `koanf:"warn_dirty_workdir"`

	// CommitTemplate is the message template with {phase}, {workflow},
	// {summary}, and {user} substitution points.
	CommitTemplate string `koanf:"commit_template"`

	// Attribution is the {user} token in commit messages.
	Attribution string `koanf:"attribution"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging level %q: %w", c.Logging.Level, err)
	}
	if c.Orchestrator.CommitTemplate == "" {
		return fmt.Errorf("commit_template cannot be empty")
	}
	if c.Orchestrator.Attribution == "" {
		return fmt.Errorf("attribution cannot be empty")
	}
	return nil
}
