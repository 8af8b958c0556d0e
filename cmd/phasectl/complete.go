package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/phasectl/internal/orchestrator"
	"github.com/fyrsmithlabs/phasectl/internal/review"
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Commit, offer a review handoff, and reconcile to the phase branch",
	Long: `Finish the active workflow session: detect changes, commit them with a
structured message, push the feature branch, offer a review request into
the phase branch, switch to the phase branch, and clear the session.

Examples:
  # Complete the active session interactively
  phasectl complete

  # Complete without prompts (accepts commit and review offers)
  phasectl complete --yes`,
	Args: cobra.NoArgs,
	RunE: runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		if errors.Is(err, errNoRepo) {
			fmt.Println(warnStyle.Render("Not inside a git repository; nothing to complete."))
			return nil
		}
		return err
	}

	if !e.cfg.Orchestrator.Enabled {
		fmt.Println(dimStyle.Render("Branch orchestration is disabled in configuration."))
		return nil
	}

	report, err := e.orch.Complete(cmd.Context())
	if err != nil {
		if errors.Is(err, orchestrator.ErrNoActiveSession) {
			// Reported, not fatal: there is simply nothing to do.
			fmt.Println(dimStyle.Render("No active workflow session; nothing to complete."))
			return nil
		}
		return err
	}

	printReport(report)
	return nil
}

func printReport(report *orchestrator.CompletionReport) {
	switch report.Outcome {
	case orchestrator.OutcomeCommitted:
		fmt.Printf("%s %s\n", okStyle.Render("Committed"), report.CommitID)
		fmt.Printf("%s %s\n", dimStyle.Render("Message:"), report.CommitMessage)
	case orchestrator.OutcomeNoChanges:
		fmt.Println(dimStyle.Render("No changes to commit."))
	case orchestrator.OutcomeCancelled:
		fmt.Println(warnStyle.Render("Commit declined; session closed without one."))
	}

	if report.PushWarning != "" {
		fmt.Printf("%s push failed: %s (local commit stands)\n", warnStyle.Render("Warning:"), report.PushWarning)
	}

	if report.Review != nil {
		switch report.Review.Kind {
		case review.Offered:
			fmt.Printf("%s %s\n", okStyle.Render("Review:"), report.Review.URL)
		case review.Declined:
			fmt.Println(dimStyle.Render("Review request declined."))
		case review.RemoteUnknown:
			fmt.Printf("%s open a review from %s into %s manually (no recognized remote)\n",
				dimStyle.Render("Review:"), report.Review.From, report.Review.To)
		}
	}

	for _, w := range report.Warnings {
		fmt.Printf("%s %s\n", warnStyle.Render("Warning:"), w)
	}

	fmt.Printf("%s %s\n", okStyle.Render("Now on"), report.FinalBranch)
}
