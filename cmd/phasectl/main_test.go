package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/phasectl/internal/orchestrator"
	"github.com/fyrsmithlabs/phasectl/internal/review"
)

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["begin"])
	assert.True(t, names["complete"])
	assert.True(t, names["status"])
}

func TestBeginRequiresWorkflowArgument(t *testing.T) {
	err := beginCmd.Args(beginCmd, []string{})
	require.Error(t, err)

	err = beginCmd.Args(beginCmd, []string{"brainstorming"})
	assert.NoError(t, err)

	err = beginCmd.Args(beginCmd, []string{"a", "b"})
	require.Error(t, err)
}

func TestPrintReportDoesNotPanic(t *testing.T) {
	reports := []*orchestrator.CompletionReport{
		{
			Outcome:       orchestrator.OutcomeCommitted,
			CommitID:      "abc123",
			CommitMessage: "[Analysis] brainstorming: Generated ideas and project direction - by Cris",
			FinalBranch:   "main-1",
			Review:        &review.Outcome{Kind: review.Offered, URL: "https://github.com/o/r/compare/a...b"},
		},
		{
			Outcome:     orchestrator.OutcomeNoChanges,
			FinalBranch: "main-1",
		},
		{
			Outcome:     orchestrator.OutcomeCancelled,
			FinalBranch: "main-1-brainstorming",
			PushWarning: "remote hung up",
			Review:      &review.Outcome{Kind: review.RemoteUnknown, From: "main-1-brainstorming", To: "main-1"},
			Warnings:    []string{"phase reconciliation failed: worktree conflict"},
		},
	}

	for _, r := range reports {
		printReport(r)
	}
}
