package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/internal/provider/anthropic"
	"github.com/spetersoncode/finsight/internal/provider/openai"
	"github.com/spetersoncode/finsight/retry"
)

// mockProvider counts calls and fails the first `failures` of them.
type mockProvider struct {
	calls    int
	failures int
	err      error
}

func (m *mockProvider) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	m.calls++
	if m.calls <= m.failures {
		return nil, m.err
	}
	return &ai.Response{Content: "ok"}, nil
}

func (m *mockProvider) Embed(ctx context.Context, texts []string, opts ...ai.EmbeddingOption) (*ai.EmbeddingResponse, error) {
	m.calls++
	if m.calls <= m.failures {
		return nil, m.err
	}
	return &ai.EmbeddingResponse{Embeddings: [][]float64{{1, 0}}}, nil
}

func testClient(p *mockProvider) *Client {
	return &Client{
		chat:        p,
		embedder:    p,
		retryConfig: retry.Config{MaxAttempts: 3, Multiplier: 1},
	}
}

func TestChatRetriesTransientErrors(t *testing.T) {
	p := &mockProvider{failures: 2, err: ai.NewTransientError("overloaded", 503, nil)}

	resp, err := testClient(p).Chat(context.Background(), []ai.Message{ai.UserMessage("hi")})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, p.calls)
}

func TestChatDoesNotRetryPermanentErrors(t *testing.T) {
	p := &mockProvider{failures: 1, err: ai.NewPermanentError("bad key", 401, nil)}

	_, err := testClient(p).Chat(context.Background(), nil)

	assert.True(t, ai.IsPermanent(err))
	assert.Equal(t, 1, p.calls)
}

func TestEmbedRetries(t *testing.T) {
	p := &mockProvider{failures: 1, err: ai.NewTransientError("rate limited", 429, nil)}

	resp, err := testClient(p).Embed(context.Background(), []string{"x"})

	require.NoError(t, err)
	assert.Len(t, resp.Embeddings, 1)
	assert.Equal(t, 2, p.calls)
}

func TestNewRequiresAPIKeys(t *testing.T) {
	for _, p := range []ai.Provider{ai.ProviderOpenAI, ai.ProviderAnthropic, ai.ProviderGoogle} {
		_, err := New(context.Background(), Config{Provider: p})
		var missing *ErrMissingAPIKey
		assert.True(t, errors.As(err, &missing), "provider %s", p)
	}
}

func TestNewOllamaDefaults(t *testing.T) {
	c, err := New(context.Background(), Config{OllamaBaseURL: "http://localhost:11434/"})

	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOllama, c.Provider())
	assert.IsType(t, &openai.Client{}, c.embedder)
}

func TestNewAnthropicFallsBackToOllamaEmbeddings(t *testing.T) {
	c, err := New(context.Background(), Config{
		Provider:      ai.ProviderAnthropic,
		APIKeys:       APIKeys{Anthropic: "key"},
		OllamaBaseURL: "http://localhost:11434",
	})

	require.NoError(t, err)
	assert.IsType(t, &anthropic.Client{}, c.chat)
	assert.IsType(t, &openai.Client{}, c.embedder)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "mystery"})
	assert.Error(t, err)
}
