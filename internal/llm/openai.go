package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/sozercan/impact-analyzer/internal/config"
)

const defaultOpenAIEndpoint = "https://api.openai.com/v1"

const continuationInstruction = "You continue business analysis documents. Reply only with the text that follows the document you are given."

// OpenAI generates continuations through the chat completions API. The API
// has no beam search, so BeamCount, MinLength and NoRepeatNgramSize are not
// forwarded.
type OpenAI struct {
	client *openai.Client
	cfg    *config.LLMConfig
}

func NewOpenAI(cfg *config.LLMConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("api key is required for the openai and azure backends")
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	var client *openai.Client
	switch cfg.Backend {
	case config.BackendAzure:
		if cfg.Endpoint == "" {
			return nil, errors.New("endpoint is required for the azure backend")
		}
		client = openai.NewClient(
			azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
			option.WithHTTPClient(httpClient),
		)
	default: // "openai"
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = defaultOpenAIEndpoint
		}
		client = openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(endpoint),
			option.WithHTTPClient(httpClient),
		)
	}

	return &OpenAI{
		client: client,
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Generate(ctx context.Context, tokens Tokens, params Params) (Tokens, error) {
	prompt := strings.Join(tokens, "")

	resp, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model: openai.F(o.cfg.Model),
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(continuationInstruction),
				openai.UserMessage(prompt),
			}),
			Temperature: openai.F(params.Temperature),
			MaxTokens:   openai.F(int64(params.MaxLength)),
		},
	)
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	if r := []rune(content); !unicode.IsSpace(r[0]) {
		content = " " + content
	}
	return appendContinuation(tokens, content), nil
}
