package apimodels

type AnalysisRequest struct {
	// Situation is the free-text business situation to analyze
	Situation string `json:"situation" yaml:"situation"`

	// Optional parameters to control analysis behavior
	Options AnalysisOptions `json:"options,omitempty" yaml:"options,omitempty"`
}

type AnalysisOptions struct {
	// Variant selects parameter selection: "fixed" or "adaptive"
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`

	// Assembly selects how classified sentences are combined: "join-all" or "first-only"
	Assembly string `json:"assembly,omitempty" yaml:"assembly,omitempty"`
}
