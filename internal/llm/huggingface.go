package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sozercan/impact-analyzer/internal/config"
)

const defaultHuggingFaceEndpoint = "https://api-inference.huggingface.co/models"

// HuggingFace runs text generation on the Hugging Face Inference API, which
// forwards the parameters to the model's generate call.
type HuggingFace struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length"`
	NumBeams          int     `json:"num_beams"`
	NoRepeatNgramSize int     `json:"no_repeat_ngram_size"`
	Temperature       float64 `json:"temperature"`
	EarlyStopping     bool    `json:"early_stopping,omitempty"`
	ReturnFullText    bool    `json:"return_full_text"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

func NewHuggingFace(cfg *config.LLMConfig) (*HuggingFace, error) {
	if cfg.Model == "" {
		return nil, errors.New("model name is required for the huggingface backend")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultHuggingFaceEndpoint
	}
	return &HuggingFace{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (h *HuggingFace) Generate(ctx context.Context, tokens Tokens, params Params) (Tokens, error) {
	prompt := strings.Join(tokens, "")

	body, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxLength:         params.MaxLength,
			MinLength:         params.MinLength,
			NumBeams:          params.BeamCount,
			NoRepeatNgramSize: params.NoRepeatNgramSize,
			Temperature:       params.Temperature,
			EarlyStopping:     params.EarlyStopping,
			ReturnFullText:    true,
		},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+"/"+h.model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr hfError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("huggingface error: status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("huggingface error: status %d: %s", resp.StatusCode, string(respBody))
	}

	var generations []hfGeneration
	if err := json.Unmarshal(respBody, &generations); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(generations) == 0 || strings.TrimSpace(generations[0].GeneratedText) == "" {
		return nil, ErrEmptyResponse
	}

	text := generations[0].GeneratedText
	if !strings.HasPrefix(text, prompt) {
		return appendContinuation(tokens, " "+text), nil
	}
	return appendContinuation(nil, text), nil
}
