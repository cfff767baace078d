package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/sozercan/impact-analyzer/internal/config"
)

type ModelOption func(*modelOptions)

type modelOptions struct {
	name              string
	backend           string
	maxConcurrency    int
	requestsPerMinute int
}

func WithName(name string) ModelOption {
	return func(o *modelOptions) { o.name = name }
}

func WithBackend(backend string) ModelOption {
	return func(o *modelOptions) { o.backend = backend }
}

// WithMaxConcurrency bounds the number of in-flight Generate calls.
func WithMaxConcurrency(n int) ModelOption {
	return func(o *modelOptions) { o.maxConcurrency = n }
}

// WithRequestsPerMinute paces Generate calls. Zero disables pacing.
func WithRequestsPerMinute(n int) ModelOption {
	return func(o *modelOptions) { o.requestsPerMinute = n }
}

// Model is the long-lived handle to a tokenizer and generator pair. It is
// opened once per process and shared by all requests.
type Model struct {
	tokenizer Tokenizer
	generator Generator
	name      string
	backend   string

	slots   int64
	sem     *semaphore.Weighted
	limiter *rate.Limiter

	mu     sync.RWMutex
	closed bool
}

// Open builds the generator selected by cfg.Backend.
func Open(cfg *config.LLMConfig) (*Model, error) {
	var (
		gen Generator
		err error
	)
	switch cfg.Backend {
	case config.BackendHuggingFace:
		gen, err = NewHuggingFace(cfg)
	case config.BackendOpenAI, config.BackendAzure:
		gen, err = NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s generator: %w", cfg.Backend, err)
	}

	m := NewModel(WhitespaceTokenizer{}, gen,
		WithName(cfg.Model),
		WithBackend(cfg.Backend),
		WithMaxConcurrency(cfg.MaxConcurrency),
		WithRequestsPerMinute(cfg.RequestsPerMinute),
	)
	slog.Info("Model opened", "backend", cfg.Backend, "model", cfg.Model, "maxConcurrency", m.slots)
	return m, nil
}

func NewModel(tokenizer Tokenizer, generator Generator, opts ...ModelOption) *Model {
	options := &modelOptions{maxConcurrency: 1}
	for _, opt := range opts {
		opt(options)
	}
	if options.maxConcurrency < 1 {
		options.maxConcurrency = 1
	}

	m := &Model{
		tokenizer: tokenizer,
		generator: generator,
		name:      options.name,
		backend:   options.backend,
		slots:     int64(options.maxConcurrency),
		sem:       semaphore.NewWeighted(int64(options.maxConcurrency)),
	}
	if options.requestsPerMinute > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(float64(options.requestsPerMinute)/60.0), 1)
	}
	return m
}

func (m *Model) Name() string    { return m.name }
func (m *Model) Backend() string { return m.backend }

func (m *Model) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}

func (m *Model) Encode(text string, maxLength int) (Tokens, error) {
	if m.isClosed() {
		return nil, ErrClosed
	}
	return m.tokenizer.Encode(text, maxLength)
}

func (m *Model) Decode(tokens Tokens, skipSpecial bool) (string, error) {
	if m.isClosed() {
		return "", ErrClosed
	}
	return m.tokenizer.Decode(tokens, skipSpecial)
}

// Generate waits for a free slot and, when pacing is on, for the rate limiter
// before calling the generator. Both waits honour ctx.
func (m *Model) Generate(ctx context.Context, tokens Tokens, params Params) (Tokens, error) {
	if m.isClosed() {
		return nil, ErrClosed
	}
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer m.sem.Release(1)

	if m.isClosed() {
		return nil, ErrClosed
	}
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	slog.Debug("Generating", "backend", m.backend, "model", m.name, "promptTokens", len(tokens), "params", params)
	return m.generator.Generate(ctx, tokens, params)
}

// Close rejects new calls, waits for in-flight generation to finish and then
// releases the generator when it holds resources.
func (m *Model) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	if err := m.sem.Acquire(context.Background(), m.slots); err != nil {
		return err
	}
	defer m.sem.Release(m.slots)

	slog.Info("Model closed", "backend", m.backend, "model", m.name)
	if c, ok := m.generator.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
