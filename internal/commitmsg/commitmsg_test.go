package commitmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fyrsmithlabs/phasectl/pkg/git"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		template string
		phase    int
		workflow string
		changes  git.ChangeSet
		user     string
		want     string
	}{
		{
			name:     "canned summary with full template",
			template: "[{phase}] {workflow}: {summary} - by {user}",
			phase:    1,
			workflow: "brainstorming",
			changes:  git.ChangeSet{"ideas.md"},
			user:     "Cris",
			want:     "[Analysis] brainstorming: Generated ideas and project direction - by Cris",
		},
		{
			name:     "unknown workflow gets default summary and label",
			template: "[{phase}] {workflow}: {summary} - by {user}",
			phase:    0,
			workflow: "yak-shaving",
			changes:  git.ChangeSet{"stuff.txt"},
			user:     "Cris",
			want:     "[Workflow] yak-shaving: Completed yak-shaving workflow - by Cris",
		},
		{
			name:     "empty template falls back to default",
			template: "",
			phase:    2,
			workflow: "roadmap",
			changes:  nil,
			user:     "dev",
			want:     "[Planning] roadmap: Laid out delivery milestones - by dev",
		},
		{
			name:     "template without placeholders passes through",
			template: "chore: routine commit",
			phase:    1,
			workflow: "brainstorming",
			changes:  nil,
			user:     "Cris",
			want:     "chore: routine commit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.template, tt.phase, tt.workflow, tt.changes, tt.user)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummary_TestingConsultsPathPatterns(t *testing.T) {
	withTests := git.ChangeSet{"internal/phase/phase_test.go"}
	withoutTests := git.ChangeSet{"README.md"}

	assert.Equal(t, "Added automated test coverage", Summary("testing", withTests))
	assert.Equal(t, "Added test coverage", Summary("testing", withoutTests))
}

func TestSummary_Default(t *testing.T) {
	assert.Equal(t, "Completed cleanup workflow", Summary("cleanup", nil))
}
