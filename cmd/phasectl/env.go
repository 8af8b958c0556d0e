package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/phasectl/internal/config"
	"github.com/fyrsmithlabs/phasectl/internal/logging"
	"github.com/fyrsmithlabs/phasectl/internal/orchestrator"
	"github.com/fyrsmithlabs/phasectl/internal/prompt"
	"github.com/fyrsmithlabs/phasectl/internal/session"
	"github.com/fyrsmithlabs/phasectl/pkg/git"
)

// env bundles everything a subcommand needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	orch   *orchestrator.Orchestrator
	store  *session.FileStore
}

// errNoRepo marks the reported, non-fatal condition of running outside a
// repository: callers print a notice and exit zero so the surrounding
// workflow is never blocked.
var errNoRepo = errors.New("no repository")

func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, nil, err
	}

	var logger *zap.Logger
	if quiet {
		logger = logging.NewNop()
	} else {
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return nil, nil, err
		}
	}
	return cfg, logger, nil
}

// newEnv loads config, opens the repository, and wires the orchestrator.
func newEnv() (*env, error) {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(repoPath, &git.Options{
		CommitterName: cfg.Orchestrator.Attribution,
	})
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return nil, errNoRepo
		}
		return nil, err
	}

	gitDir, err := repo.GitDir()
	if err != nil {
		return nil, fmt.Errorf("locating git directory: %w", err)
	}
	store := session.NewFileStore(gitDir)

	var confirm prompt.Confirmer
	if assumeYes {
		confirm = &prompt.Auto{Answer: true}
	} else {
		confirm = prompt.NewTerminal()
	}

	orch, err := orchestrator.New(cfg.Orchestrator, repo, store, confirm, logger)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, orch: orch, store: store}, nil
}
