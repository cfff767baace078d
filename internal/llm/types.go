package llm

import (
	"context"
	"errors"
)

// EOS marks the end of a generated sequence. Backends also use it as padding.
const EOS = "<|endoftext|>"

var (
	ErrClosed         = errors.New("model is closed")
	ErrEmptyResponse  = errors.New("model returned an empty response")
	ErrUnknownBackend = errors.New("unknown llm backend")
)

// Tokens is an encoded text. Every piece carries its leading whitespace, so
// decoding is a concatenation.
type Tokens []string

// Tokenizer turns text into Tokens and back.
type Tokenizer interface {
	// Encode splits text and truncates the result to maxLength pieces when
	// maxLength is positive.
	Encode(text string, maxLength int) (Tokens, error)
	Decode(tokens Tokens, skipSpecial bool) (string, error)
}

// Generator continues a token sequence. The returned sequence holds the prompt
// followed by the continuation and ends with EOS.
type Generator interface {
	Generate(ctx context.Context, tokens Tokens, params Params) (Tokens, error)
}

// Params controls one generation call.
type Params struct {
	MaxLength         int     `json:"maxLength" yaml:"max_length"`
	MinLength         int     `json:"minLength" yaml:"min_length"`
	BeamCount         int     `json:"beamCount" yaml:"beam_count"`
	Temperature       float64 `json:"temperature" yaml:"temperature"`
	NoRepeatNgramSize int     `json:"noRepeatNgramSize" yaml:"no_repeat_ngram_size"`
	EarlyStopping     bool    `json:"earlyStopping,omitempty" yaml:"early_stopping,omitempty"`
}
