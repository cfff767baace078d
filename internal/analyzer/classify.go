package analyzer

import (
	"strings"

	"github.com/sozercan/impact-analyzer/internal/config"
)

type Role string

const (
	RoleCause  Role = "cause"
	RoleEffect Role = "effect"
)

type rule struct {
	role    Role
	markers []string
}

// classificationRules is evaluated top to bottom for every fragment and the
// first rule with a matching marker wins. Fragments matching nothing are
// causes.
var classificationRules = []rule{
	{
		role: RoleCause,
		markers: []string{
			"due to", "driven by", "caused by", "result of", "stems from",
			"because", "factors", "reasons", "leads to", "attributed to",
		},
	},
	{
		role: RoleEffect,
		markers: []string{
			"impact", "result in", "consequence", "effect", "cost",
			"expense", "increase", "decrease", "affect", "influence",
		},
	},
}

const fallbackRole = RoleCause

// Fragments splits text on every period and drops empty pieces. Decimal
// numbers and abbreviations are split too.
func Fragments(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ".") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ClassifyFragment returns the role of a single fragment.
func ClassifyFragment(fragment string) Role {
	lower := strings.ToLower(fragment)
	for _, r := range classificationRules {
		for _, m := range r.markers {
			if strings.Contains(lower, m) {
				return r.role
			}
		}
	}
	return fallbackRole
}

// Groups holds the fragments assigned to each role, in input order.
type Groups struct {
	Causes  []string
	Effects []string
}

func Classify(text string) Groups {
	var g Groups
	for _, f := range Fragments(text) {
		switch ClassifyFragment(f) {
		case RoleEffect:
			g.Effects = append(g.Effects, f)
		default:
			g.Causes = append(g.Causes, f)
		}
	}
	return g
}

// Assembler turns a classified group into one display sentence.
type Assembler struct {
	Policy        string
	DefaultCause  string
	DefaultEffect string
}

// Assemble returns non-empty cause and effect statements, each ending in a
// period. An empty group is replaced by its default sentence.
func (a Assembler) Assemble(g Groups) (cause, effect string) {
	return a.assembleGroup(g.Causes, a.DefaultCause), a.assembleGroup(g.Effects, a.DefaultEffect)
}

func (a Assembler) assembleGroup(group []string, fallback string) string {
	if len(group) == 0 {
		group = []string{fallback}
	}

	var s string
	if a.Policy == config.AssemblyFirstOnly {
		s = group[0]
	} else {
		s = strings.Join(group, ". ")
	}
	return withPeriod(s)
}

func withPeriod(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}
