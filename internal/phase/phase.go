// Package phase maps workflow identifiers to methodology phases.
//
// The table is the single authority consumed by both the begin and complete
// paths of the orchestrator; phase numbers are a stable classification and
// are never recomputed elsewhere.
package phase

// Unscoped is the phase for utility workflows that do not belong to a
// methodology phase. Unscoped work gets no phase branch.
const Unscoped = 0

// workflowPhases maps workflow identifiers to their phase number.
// Unknown identifiers resolve to Unscoped, never to an error.
var workflowPhases = map[string]int{
	// Phase 1: Analysis
	"brainstorming": 1,
	"research":      1,
	"requirements":  1,

	// Phase 2: Planning
	"roadmap":    2,
	"estimation": 2,
	"milestones": 2,

	// Phase 3: Solution Design
	"architecture": 3,
	"api-design":   3,
	"data-model":   3,

	// Phase 4: Implementation
	"scaffolding": 4,
	"feature":     4,
	"refactoring": 4,

	// Phase 5: Quality
	"testing":       5,
	"review":        5,
	"documentation": 5,
}

// phaseNames labels each phase for commit messages and CLI output.
var phaseNames = map[int]string{
	1: "Analysis",
	2: "Planning",
	3: "Solution Design",
	4: "Implementation",
	5: "Quality",
}

// DefaultName is the label for phases without an entry in the name table,
// including Unscoped.
const DefaultName = "Workflow"

// Of returns the phase number for a workflow identifier. It is a total
// function: unknown identifiers map to Unscoped.
func Of(workflowID string) int {
	if p, ok := workflowPhases[workflowID]; ok {
		return p
	}
	return Unscoped
}

// Name returns the human-readable label for a phase number, or DefaultName
// when the phase has no label.
func Name(phase int) string {
	if n, ok := phaseNames[phase]; ok {
		return n
	}
	return DefaultName
}

// Known reports whether the workflow identifier appears in the phase table.
func Known(workflowID string) bool {
	_, ok := workflowPhases[workflowID]
	return ok
}
