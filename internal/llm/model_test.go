package llm

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/impact-analyzer/internal/config"
)

// blockingGenerator holds every call until release is closed and records the
// highest number of concurrent calls it saw.
type blockingGenerator struct {
	release  chan struct{}
	inFlight int32
	peak     int32
	calls    int32
}

func (g *blockingGenerator) Generate(ctx context.Context, tokens Tokens, _ Params) (Tokens, error) {
	atomic.AddInt32(&g.calls, 1)
	n := atomic.AddInt32(&g.inFlight, 1)
	defer atomic.AddInt32(&g.inFlight, -1)
	for {
		p := atomic.LoadInt32(&g.peak)
		if n <= p || atomic.CompareAndSwapInt32(&g.peak, p, n) {
			break
		}
	}
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return appendContinuation(tokens, " done"), nil
}

type closingGenerator struct {
	closed bool
}

func (g *closingGenerator) Generate(_ context.Context, tokens Tokens, _ Params) (Tokens, error) {
	return appendContinuation(tokens, " ok"), nil
}

func (g *closingGenerator) Close() error {
	g.closed = true
	return nil
}

func TestModelBoundsConcurrency(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{})}
	m := NewModel(WhitespaceTokenizer{}, gen, WithMaxConcurrency(2))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Generate(context.Background(), Tokens{"x"}, Params{})
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&gen.calls) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&gen.calls), "only two calls may run at once")

	close(gen.release)
	wg.Wait()

	assert.Equal(t, int32(5), atomic.LoadInt32(&gen.calls))
	assert.Equal(t, int32(2), atomic.LoadInt32(&gen.peak))
}

func TestModelGenerateHonoursContextWhileWaiting(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{})}
	defer close(gen.release)
	m := NewModel(WhitespaceTokenizer{}, gen)

	go func() { _, _ = m.Generate(context.Background(), Tokens{"first"}, Params{}) }()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&gen.calls) == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Generate(ctx, Tokens{"second"}, Params{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestModelRateLimiterHonoursContext(t *testing.T) {
	m := NewModel(WhitespaceTokenizer{}, &closingGenerator{}, WithRequestsPerMinute(1))

	_, err := m.Generate(context.Background(), Tokens{"a"}, Params{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Generate(ctx, Tokens{"b"}, Params{})
	assert.Error(t, err, "second call must not get a token within the deadline")
}

func TestModelClose(t *testing.T) {
	gen := &closingGenerator{}
	m := NewModel(WhitespaceTokenizer{}, gen, WithName("gpt2-large"), WithBackend("huggingface"))

	assert.Equal(t, "gpt2-large", m.Name())
	assert.Equal(t, "huggingface", m.Backend())

	require.NoError(t, m.Close())
	assert.True(t, gen.closed)
	require.NoError(t, m.Close(), "closing twice is a no-op")

	_, err := m.Encode("text", 0)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.Decode(Tokens{"text"}, true)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = m.Generate(context.Background(), Tokens{"text"}, Params{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestOpenSelectsBackend(t *testing.T) {
	m, err := Open(&config.LLMConfig{Backend: config.BackendHuggingFace, Model: "gpt2-large", MaxConcurrency: 1})
	require.NoError(t, err)
	assert.Equal(t, "huggingface", m.Backend())
	require.NoError(t, m.Close())

	_, err = Open(&config.LLMConfig{Backend: "llama", Model: "x"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(&config.LLMConfig{Backend: config.BackendOpenAI, Model: "gpt-4o-mini"})
	assert.Error(t, err, "openai requires an api key")

	_, err = Open(&config.LLMConfig{Backend: config.BackendAzure, Model: "gpt-4o", APIKey: "k"})
	assert.Error(t, err, "azure requires an endpoint")
}
