package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sozercan/impact-analyzer/internal/config"
	"github.com/sozercan/impact-analyzer/internal/llm"
)

const (
	defaultCause  = "The cause of the issue was not clearly identified."
	defaultEffect = "The effect of the issue was not clearly identified."
)

type Options struct {
	Variant       string
	Assembly      string
	DefaultCause  string
	DefaultEffect string
}

// OptionsFromConfig copies the analysis section of the configuration.
func OptionsFromConfig(cfg config.AnalysisConfig) Options {
	return Options{
		Variant:       cfg.Variant,
		Assembly:      cfg.Assembly,
		DefaultCause:  cfg.DefaultCause,
		DefaultEffect: cfg.DefaultEffect,
	}
}

// Request is one situation to analyze. Empty Variant or Assembly use the
// analyzer defaults.
type Request struct {
	Situation string
	Variant   string
	Assembly  string
}

type Result struct {
	Cause  string
	Effect string

	// Analysis is the cleaned model output the statements were taken from.
	Analysis  string
	Variant   string
	Assembly  string
	Bucket    string
	Params    llm.Params
	Overrides []string
	Model     string
	Duration  time.Duration
}

// Text renders the result as two labelled paragraphs.
func (r *Result) Text() string {
	return fmt.Sprintf("Cause: %s\n\nEffect: %s", r.Cause, r.Effect)
}

type Analyzer struct {
	tokenizer llm.Tokenizer
	generator llm.Generator
	opts      Options
}

// New wires an analyzer to a tokenizer and generator. Both are usually the
// same *llm.Model, shared for the life of the process.
func New(tokenizer llm.Tokenizer, generator llm.Generator, opts Options) *Analyzer {
	if opts.Variant == "" {
		opts.Variant = config.VariantAdaptive
	}
	if opts.Assembly == "" {
		opts.Assembly = config.AssemblyJoinAll
	}
	if opts.DefaultCause == "" {
		opts.DefaultCause = defaultCause
	}
	if opts.DefaultEffect == "" {
		opts.DefaultEffect = defaultEffect
	}
	return &Analyzer{
		tokenizer: tokenizer,
		generator: generator,
		opts:      opts,
	}
}

// Analyze runs encode, generate, decode, clean and classify for one
// situation. Every failure is returned as an *Error.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	slog.Info("Starting analysis", "situationLength", len(req.Situation))
	startTime := time.Now()

	variant, assembly, err := a.resolve(req)
	if err != nil {
		return nil, &Error{Kind: KindInvalid, Err: err}
	}

	sel := NewSelector(variant).Select(req.Situation)
	slog.Debug("Selected generation parameters", "bucket", sel.Bucket, "params", sel.Params, "overrides", sel.Overrides)

	prompt := BuildPrompt(req.Situation)
	tokens, err := a.tokenizer.Encode(prompt, sel.EncodeLimit)
	if err != nil {
		slog.Error("Prompt encoding failed", "error", err)
		return nil, newError(KindEncode, err)
	}

	output, err := a.generator.Generate(ctx, tokens, sel.Params)
	if err != nil {
		slog.Error("Generation failed", "error", err)
		return nil, newError(KindGenerate, err)
	}

	generated, err := a.tokenizer.Decode(output, true)
	if err != nil {
		slog.Error("Decoding failed", "error", err)
		return nil, newError(KindDecode, err)
	}

	analysis := Clean(ExtractAnalysis(generated))
	groups := Classify(analysis)
	cause, effect := Assembler{
		Policy:        assembly,
		DefaultCause:  a.opts.DefaultCause,
		DefaultEffect: a.opts.DefaultEffect,
	}.Assemble(groups)

	result := &Result{
		Cause:     cause,
		Effect:    effect,
		Analysis:  analysis,
		Variant:   variant,
		Assembly:  assembly,
		Bucket:    sel.Bucket,
		Params:    sel.Params,
		Overrides: sel.Overrides,
		Model:     modelName(a.generator),
		Duration:  time.Since(startTime),
	}
	slog.Info("Analysis completed", "bucket", result.Bucket, "causes", len(groups.Causes), "effects", len(groups.Effects), "duration", result.Duration)
	return result, nil
}

func (a *Analyzer) resolve(req Request) (variant, assembly string, err error) {
	variant, assembly = a.opts.Variant, a.opts.Assembly
	if req.Variant != "" {
		variant = req.Variant
	}
	if req.Assembly != "" {
		assembly = req.Assembly
	}
	if err := config.ValidateVariant(variant); err != nil {
		return "", "", err
	}
	if err := config.ValidateAssembly(assembly); err != nil {
		return "", "", err
	}
	return variant, assembly, nil
}

func modelName(g llm.Generator) string {
	if n, ok := g.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}
