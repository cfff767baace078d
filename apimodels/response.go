package apimodels

import (
	"github.com/sozercan/impact-analyzer/internal/analyzer"
	"github.com/sozercan/impact-analyzer/internal/llm"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

type AnalysisResponse struct {
	// "ok" or "error"
	Status string `json:"status" yaml:"status"`

	// The classified statements, set when Status is "ok"
	Result *AnalysisResult `json:"result,omitempty" yaml:"result,omitempty"`

	// Set when Status is "error"
	Error *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`

	// Metadata about the analysis
	Metadata *AnalysisMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type AnalysisResult struct {
	Cause  string `json:"cause" yaml:"cause"`
	Effect string `json:"effect" yaml:"effect"`

	// Text is the two-paragraph rendering shown in the form
	Text string `json:"text" yaml:"text"`
}

type ErrorInfo struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

type AnalysisMetadata struct {
	// Time taken for analysis
	Duration string `json:"duration" yaml:"duration"`

	// Model used for analysis
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	Variant   string     `json:"variant" yaml:"variant"`
	Assembly  string     `json:"assembly" yaml:"assembly"`
	Bucket    string     `json:"bucket" yaml:"bucket"`
	Overrides []string   `json:"overrides,omitempty" yaml:"overrides,omitempty"`
	Params    llm.Params `json:"parameters" yaml:"parameters"`
}

type ExamplesResponse struct {
	Examples []string `json:"examples" yaml:"examples"`
}

// FromResult builds a successful response.
func FromResult(res *analyzer.Result) *AnalysisResponse {
	return &AnalysisResponse{
		Status: StatusOK,
		Result: &AnalysisResult{
			Cause:  res.Cause,
			Effect: res.Effect,
			Text:   res.Text(),
		},
		Metadata: &AnalysisMetadata{
			Duration:  res.Duration.String(),
			Model:     res.Model,
			Variant:   res.Variant,
			Assembly:  res.Assembly,
			Bucket:    res.Bucket,
			Overrides: res.Overrides,
			Params:    res.Params,
		},
	}
}

// FromError builds a failed response from an analysis error.
func FromError(err error) *AnalysisResponse {
	return &AnalysisResponse{
		Status: StatusError,
		Error: &ErrorInfo{
			Kind:    string(analyzer.KindOf(err)),
			Message: analyzer.DisplayMessage(err),
		},
	}
}
