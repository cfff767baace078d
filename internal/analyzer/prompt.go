package analyzer

import (
	"strings"
)

// Cue is the phrase the model is asked to continue. Everything after its last
// occurrence in the decoded output is the analysis.
const Cue = "Cause and Effect Analysis:"

const preamble = "Analyze the following business situation and provide the cause and effect:"

// BuildPrompt embeds the situation verbatim between the preamble and the cue.
func BuildPrompt(situation string) string {
	var sb strings.Builder
	sb.WriteString(preamble)
	sb.WriteString("\n\nSituation: ")
	sb.WriteString(situation)
	sb.WriteString("\n\n")
	sb.WriteString(Cue)
	return sb.String()
}

// ExtractAnalysis returns the trimmed text after the last cue, or the whole
// trimmed text when the cue is missing.
func ExtractAnalysis(generated string) string {
	if i := strings.LastIndex(generated, Cue); i >= 0 {
		generated = generated[i+len(Cue):]
	}
	return strings.TrimSpace(generated)
}
