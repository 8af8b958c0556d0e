// Package commitmsg builds structured commit messages for completed
// workflows.
package commitmsg

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/phasectl/internal/phase"
	"github.com/fyrsmithlabs/phasectl/pkg/git"
)

// DefaultTemplate is used when configuration supplies no template. The four
// substitution points are {phase}, {workflow}, {summary}, and {user}.
const DefaultTemplate = "[{phase}] {workflow}: {summary} - by {user}"

// summaries holds the canned one-line summary per known workflow. Unknown
// workflows fall back to a generic completion line; the summary is a
// best-effort label, never derived from file contents.
var summaries = map[string]string{
	"brainstorming": "Generated ideas and project direction",
	"research":      "Collected findings and supporting references",
	"requirements":  "Captured functional and non-functional requirements",
	"roadmap":       "Laid out delivery milestones",
	"estimation":    "Sized the upcoming work",
	"milestones":    "Marked delivery checkpoints",
	"architecture":  "Outlined system structure and boundaries",
	"api-design":    "Defined external interfaces",
	"data-model":    "Shaped the core data entities",
	"scaffolding":   "Set up the project skeleton",
	"feature":       "Implemented planned functionality",
	"refactoring":   "Restructured existing code",
	"testing":       "Added test coverage",
	"review":        "Addressed review findings",
	"documentation": "Updated project documentation",
}

// Summary returns the canned one-liner for a workflow, consulting only the
// change set's path patterns, never file contents.
func Summary(workflowID string, changes git.ChangeSet) string {
	if workflowID == "testing" && changes.HasTests() {
		return "Added automated test coverage"
	}
	if s, ok := summaries[workflowID]; ok {
		return s
	}
	return fmt.Sprintf("Completed %s workflow", workflowID)
}

// Compose renders the template with the phase label, workflow identifier,
// change-set summary, and attribution token.
func Compose(template string, phaseNumber int, workflowID string, changes git.ChangeSet, user string) string {
	if template == "" {
		template = DefaultTemplate
	}
	r := strings.NewReplacer(
		"{phase}", phase.Name(phaseNumber),
		"{workflow}", workflowID,
		"{summary}", Summary(workflowID, changes),
		"{user}", user,
	)
	return r.Replace(template)
}
