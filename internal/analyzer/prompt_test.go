package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("Costs rose {{.Section}} <b>")
	want := "Analyze the following business situation and provide the cause and effect:\n\n" +
		"Situation: Costs rose {{.Section}} <b>\n\n" +
		"Cause and Effect Analysis:"
	assert.Equal(t, want, got)
}

func TestExtractAnalysis(t *testing.T) {
	tests := []struct {
		name      string
		generated string
		want      string
	}{
		{"after cue", BuildPrompt("x") + "  Costs rose. ", "Costs rose."},
		{"last cue wins", "Cause and Effect Analysis: one Cause and Effect Analysis: two", "two"},
		{"no cue", "  plain text ", "plain text"},
		{"nothing after cue", BuildPrompt("x"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAnalysis(tt.generated))
		})
	}
}
