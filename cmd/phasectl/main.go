// Package main implements the phasectl CLI, the two invocation points
// around a unit of work: begin before it runs and complete after.
package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// configPath overrides the default config file location.
	configPath string
	// repoPath is the directory whose enclosing repository is managed.
	repoPath string
	// assumeYes answers every confirmation with yes (non-interactive).
	assumeYes bool
	// quiet suppresses log output.
	quiet bool

	// version information
	version = "dev"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phasectl",
	Short: "Phase-aware branch orchestration around workflow runs",
	Long: `phasectl manages the branch lifecycle around discrete units of work.

Call "phasectl begin <workflow>" before a workflow runs to derive and switch
to its feature branch, and "phasectl complete" afterward to commit, push,
offer a review handoff, and reconcile onto the phase branch.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/phasectl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&repoPath, "repo", "C", ".", "run as if started in this directory")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to all confirmations")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	rootCmd.AddCommand(beginCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(statusCmd)
}
