package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sozercan/impact-analyzer/internal/config"
)

func TestFragments(t *testing.T) {
	assert.Equal(t, []string{"Costs rose", "Revenue fell 3", "5 percent"}, Fragments("Costs rose. Revenue fell 3.5 percent."))
	assert.Nil(t, Fragments(""))
	assert.Nil(t, Fragments(" . .. "))
}

func TestClassifyFragment(t *testing.T) {
	tests := []struct {
		fragment string
		want     Role
	}{
		{"Costs rose due to staff turnover", RoleCause},
		{"The IMPACT is BECAUSE of delays", RoleCause},
		{"Churn stems from poor onboarding", RoleCause},
		{"Margins will decrease", RoleEffect},
		{"Expenses grew", RoleEffect},
		{"This will affect customers", RoleEffect},
		{"The weather was nice", RoleCause},
		{"", RoleCause},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFragment(tt.fragment))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	text := "Costs rose due to staff turnover. Margins will decrease. The weather was nice. Prices increase."
	want := Groups{
		Causes:  []string{"Costs rose due to staff turnover", "The weather was nice"},
		Effects: []string{"Margins will decrease", "Prices increase"},
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, Classify(text))
	}
}

func TestAssemble(t *testing.T) {
	groups := Classify("Costs rose due to staff turnover. Margins will decrease. The weather was nice.")

	tests := []struct {
		policy     string
		wantCause  string
		wantEffect string
	}{
		{config.AssemblyJoinAll, "Costs rose due to staff turnover. The weather was nice.", "Margins will decrease."},
		{config.AssemblyFirstOnly, "Costs rose due to staff turnover.", "Margins will decrease."},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			cause, effect := Assembler{Policy: tt.policy, DefaultCause: "dc.", DefaultEffect: "de."}.Assemble(groups)
			assert.Equal(t, tt.wantCause, cause)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestAssembleDefaults(t *testing.T) {
	a := Assembler{Policy: config.AssemblyJoinAll, DefaultCause: "No cause found", DefaultEffect: "No effect found."}

	cause, effect := a.Assemble(Classify(""))
	assert.Equal(t, "No cause found.", cause)
	assert.Equal(t, "No effect found.", effect)

	cause, effect = a.Assemble(Classify("The weather was nice."))
	assert.Equal(t, "The weather was nice.", cause)
	assert.Equal(t, "No effect found.", effect)

	cause, effect = a.Assemble(Classify("Costs increase."))
	assert.Equal(t, "No cause found.", cause)
	assert.Equal(t, "Costs increase.", effect)
}

func TestAssembleAlwaysEndsWithPeriod(t *testing.T) {
	texts := []string{
		"",
		".",
		"Costs rose due to staff. Costs increase",
		"A. B. C",
		"Revenue fell 3.5 percent because of churn",
		Clean("in general, etc"),
	}
	for _, policy := range []string{config.AssemblyJoinAll, config.AssemblyFirstOnly} {
		a := Assembler{Policy: policy, DefaultCause: defaultCause, DefaultEffect: defaultEffect}
		for _, text := range texts {
			cause, effect := a.Assemble(Classify(Clean(text)))
			assert.NotEmpty(t, cause)
			assert.NotEmpty(t, effect)
			assert.True(t, strings.HasSuffix(cause, "."), "cause %q", cause)
			assert.True(t, strings.HasSuffix(effect, "."), "effect %q", effect)
		}
	}
}
