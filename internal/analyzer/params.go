package analyzer

import (
	"strings"
	"unicode"

	"github.com/sozercan/impact-analyzer/internal/config"
	"github.com/sozercan/impact-analyzer/internal/llm"
)

const (
	BucketFixed  = "fixed"
	BucketShort  = "short"
	BucketMedium = "medium"
	BucketLong   = "long"

	shortMaxWords  = 10
	mediumMaxWords = 40

	fixedEncodeLimit    = 256
	adaptiveEncodeLimit = 512
)

// Selection is the outcome of parameter selection for one input.
type Selection struct {
	Bucket      string
	Params      llm.Params
	EncodeLimit int
	// Overrides lists the keyword rules that fired, in evaluation order.
	Overrides []string
}

// ParameterSelector picks generation parameters for a situation.
type ParameterSelector interface {
	Select(situation string) Selection
}

// NewSelector returns the selector for a config variant; unknown values fall
// back to the adaptive selector.
func NewSelector(variant string) ParameterSelector {
	if variant == config.VariantFixed {
		return FixedSelector{}
	}
	return AdaptiveSelector{}
}

type FixedSelector struct{}

func (FixedSelector) Select(string) Selection {
	return Selection{
		Bucket: BucketFixed,
		Params: llm.Params{
			MaxLength:         100,
			MinLength:         50,
			BeamCount:         4,
			NoRepeatNgramSize: 2,
			Temperature:       0.3,
		},
		EncodeLimit: fixedEncodeLimit,
	}
}

type keywordOverride struct {
	name  string
	words []string
	apply func(*llm.Params)
}

// Evaluated in order; a later rule overwrites a field set by an earlier one.
var keywordOverrides = []keywordOverride{
	{
		name:  "delay",
		words: []string{"delay", "delays"},
		apply: func(p *llm.Params) { p.Temperature = 0.5 },
	},
	{
		name:  "cost",
		words: []string{"cost", "costs", "expense", "expenses"},
		apply: func(p *llm.Params) { p.BeamCount = 5 },
	},
	{
		name:  "failure",
		words: []string{"failure", "failures"},
		apply: func(p *llm.Params) { p.MaxLength = 120 },
	},
	{
		name:  "market",
		words: []string{"market", "markets", "competition"},
		apply: func(p *llm.Params) { p.Temperature = 0.4 },
	},
}

type AdaptiveSelector struct{}

func (AdaptiveSelector) Select(situation string) Selection {
	words := strings.Fields(situation)

	sel := Selection{EncodeLimit: adaptiveEncodeLimit}
	switch n := len(words); {
	case n <= shortMaxWords:
		sel.Bucket = BucketShort
		sel.Params = llm.Params{MaxLength: 80, MinLength: 30, BeamCount: 2, Temperature: 0.7}
	case n <= mediumMaxWords:
		sel.Bucket = BucketMedium
		sel.Params = llm.Params{MaxLength: 100, MinLength: 50, BeamCount: 4, Temperature: 0.6}
	default:
		sel.Bucket = BucketLong
		sel.Params = llm.Params{MaxLength: 150, MinLength: 70, BeamCount: 6, Temperature: 0.3}
	}
	sel.Params.NoRepeatNgramSize = 3
	sel.Params.EarlyStopping = true

	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[normalizeWord(w)] = true
	}
	for _, rule := range keywordOverrides {
		for _, w := range rule.words {
			if present[w] {
				rule.apply(&sel.Params)
				sel.Overrides = append(sel.Overrides, rule.name)
				break
			}
		}
	}
	return sel
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}))
}
