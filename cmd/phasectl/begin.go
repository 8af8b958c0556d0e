package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/phasectl/internal/orchestrator"
)

var beginCmd = &cobra.Command{
	Use:   "begin <workflow>",
	Short: "Derive and switch to the feature branch for a workflow",
	Long: `Derive the {base}-{phase}-{workflow} feature branch for a unit of work,
switch to it, and record the session so that "phasectl complete" can pick
it up after the work is done.

Examples:
  # Start a brainstorming workflow
  phasectl begin brainstorming

  # Start without confirmations, from a different directory
  phasectl begin research -C ~/src/project --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runBegin,
}

func runBegin(cmd *cobra.Command, args []string) error {
	workflowID := args[0]

	e, err := newEnv()
	if err != nil {
		if errors.Is(err, errNoRepo) {
			// Reported, not fatal: the caller's work proceeds without
			// branch management.
			fmt.Println(warnStyle.Render("Not inside a git repository; proceeding without branch management."))
			return nil
		}
		return err
	}

	if !e.cfg.Orchestrator.Enabled {
		fmt.Println(dimStyle.Render("Branch orchestration is disabled in configuration."))
		return nil
	}

	info, err := e.orch.Begin(cmd.Context(), workflowID)
	if err != nil {
		if errors.Is(err, orchestrator.ErrDeclined) {
			fmt.Println(dimStyle.Render("Aborted; no session started."))
			return nil
		}
		return err
	}

	verb := "Created"
	if !info.BranchCreated {
		verb = "Reusing"
	}
	fmt.Printf("%s %s\n", okStyle.Render(verb+" branch"), info.FeatureBranch)
	fmt.Printf("%s %s (phase %d, %s)\n", dimStyle.Render("Workflow:"), info.WorkflowID, info.PhaseNumber, info.PhaseName)
	if info.Resumed {
		fmt.Println(dimStyle.Render("Resumed a previously recorded session."))
	}
	return nil
}
