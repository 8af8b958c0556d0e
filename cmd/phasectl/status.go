package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/phasectl/internal/phase"
	"github.com/fyrsmithlabs/phasectl/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active workflow session, if any",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		if errors.Is(err, errNoRepo) {
			fmt.Println(warnStyle.Render("Not inside a git repository."))
			return nil
		}
		return err
	}

	rec, err := e.store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			fmt.Println(dimStyle.Render("No active workflow session."))
			return nil
		}
		return err
	}

	fmt.Printf("%s %s\n", okStyle.Render("Active session"), rec.SessionID)
	fmt.Printf("%s %s (phase %d, %s)\n", dimStyle.Render("Workflow:"), rec.WorkflowID, rec.PhaseNumber, phase.Name(rec.PhaseNumber))
	fmt.Printf("%s %s\n", dimStyle.Render("Feature branch:"), rec.FeatureBranch)
	fmt.Printf("%s %s\n", dimStyle.Render("Base branch:"), rec.BaseBranch)
	fmt.Printf("%s %s\n", dimStyle.Render("Started:"), rec.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("%s %s\n", dimStyle.Render("Record:"), e.store.Path())
	return nil
}
