// Package client builds the provider-backed chat and embedding client used by
// every crew and by the vector store. Exactly one client is constructed per
// process and passed down explicitly.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/chat"
	"github.com/spetersoncode/finsight/internal/provider/anthropic"
	"github.com/spetersoncode/finsight/internal/provider/google"
	"github.com/spetersoncode/finsight/internal/provider/openai"
	"github.com/spetersoncode/finsight/retry"
)

// ollamaAPIKey is sent to Ollama, which ignores it but the OpenAI SDK
// refuses an empty key.
const ollamaAPIKey = "ollama"

// APIKeys holds API keys for the hosted providers.
type APIKeys struct {
	OpenAI    string
	Anthropic string
	Google    string
}

// Config holds configuration for creating a Client.
type Config struct {
	// Provider serves chat requests.
	Provider ai.Provider

	// EmbeddingProvider serves embedding requests. Defaults to Provider,
	// or to Ollama when Provider cannot embed (Anthropic).
	EmbeddingProvider ai.Provider

	APIKeys APIKeys

	// OllamaBaseURL is the Ollama server root, e.g. http://localhost:11434.
	OllamaBaseURL string

	// ChatModel and EmbeddingModel override the provider defaults.
	ChatModel      string
	EmbeddingModel string

	// Retry configures retries of transient failures. Nil means retry.DefaultConfig().
	Retry *retry.Config

	Logger *slog.Logger
}

// ErrFeatureNotSupported is returned when a provider cannot serve a capability.
type ErrFeatureNotSupported struct {
	Provider ai.Provider
	Feature  string
}

func (e *ErrFeatureNotSupported) Error() string {
	return fmt.Sprintf("%s provider does not support %s", e.Provider, e.Feature)
}

// ErrMissingAPIKey is returned when a hosted provider is selected without a key.
type ErrMissingAPIKey struct {
	Provider ai.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// Client routes chat and embedding calls to the configured providers and
// retries transient failures.
type Client struct {
	chat        ai.ChatProvider
	embedder    ai.EmbeddingProvider
	provider    ai.Provider
	retryConfig retry.Config
	logger      *slog.Logger
}

// New creates a Client for cfg.
func New(ctx context.Context, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Provider == "" {
		cfg.Provider = ai.ProviderOllama
	}

	retryConfig := retry.DefaultConfig()
	if cfg.Retry != nil {
		retryConfig = *cfg.Retry
	}
	if retryConfig.OnRetry == nil {
		retryConfig.OnRetry = func(attempt int, err error, delay time.Duration) {
			logger.Warn("retrying provider call", "attempt", attempt, "delay", delay, "error", err)
		}
	}

	c := &Client{
		provider:    cfg.Provider,
		retryConfig: retryConfig,
		logger:      logger,
	}

	chatProvider, err := newProvider(ctx, cfg, cfg.Provider)
	if err != nil {
		return nil, err
	}
	c.chat = chatProvider

	embeddingProvider := cfg.EmbeddingProvider
	if embeddingProvider == "" {
		embeddingProvider = cfg.Provider
		if embeddingProvider == ai.ProviderAnthropic {
			embeddingProvider = ai.ProviderOllama
		}
	}
	if embeddingProvider == cfg.Provider {
		if e, ok := chatProvider.(ai.EmbeddingProvider); ok {
			c.embedder = e
			return c, nil
		}
	}

	p, err := newProvider(ctx, cfg, embeddingProvider)
	if err != nil {
		return nil, err
	}
	e, ok := p.(ai.EmbeddingProvider)
	if !ok {
		return nil, &ErrFeatureNotSupported{Provider: embeddingProvider, Feature: "embedding"}
	}
	c.embedder = e
	return c, nil
}

func newProvider(ctx context.Context, cfg Config, p ai.Provider) (ai.ChatProvider, error) {
	switch p {
	case ai.ProviderOllama:
		opts := []openai.ClientOption{
			openai.WithBaseURL(strings.TrimRight(cfg.OllamaBaseURL, "/") + "/v1"),
		}
		if cfg.ChatModel != "" {
			opts = append(opts, openai.WithModel(cfg.ChatModel))
		}
		if cfg.EmbeddingModel != "" {
			opts = append(opts, openai.WithEmbeddingModel(cfg.EmbeddingModel))
		}
		return openai.New(ollamaAPIKey, opts...), nil
	case ai.ProviderOpenAI:
		if cfg.APIKeys.OpenAI == "" {
			return nil, &ErrMissingAPIKey{Provider: p}
		}
		var opts []openai.ClientOption
		if cfg.ChatModel != "" {
			opts = append(opts, openai.WithModel(cfg.ChatModel))
		}
		if cfg.EmbeddingModel != "" {
			opts = append(opts, openai.WithEmbeddingModel(cfg.EmbeddingModel))
		}
		return openai.New(cfg.APIKeys.OpenAI, opts...), nil
	case ai.ProviderAnthropic:
		if cfg.APIKeys.Anthropic == "" {
			return nil, &ErrMissingAPIKey{Provider: p}
		}
		var opts []anthropic.ClientOption
		if cfg.ChatModel != "" {
			opts = append(opts, anthropic.WithModel(cfg.ChatModel))
		}
		return anthropic.New(cfg.APIKeys.Anthropic, opts...), nil
	case ai.ProviderGoogle:
		if cfg.APIKeys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: p}
		}
		var opts []google.ClientOption
		if cfg.ChatModel != "" {
			opts = append(opts, google.WithModel(cfg.ChatModel))
		}
		if cfg.EmbeddingModel != "" {
			opts = append(opts, google.WithEmbeddingModel(cfg.EmbeddingModel))
		}
		return google.New(ctx, cfg.APIKeys.Google, opts...)
	default:
		return nil, fmt.Errorf("unknown provider %q", p)
	}
}

// Provider returns the provider serving chat requests.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// Chat sends a conversation, retrying transient failures.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	return retry.Do(ctx, c.retryConfig, func(ctx context.Context) (*ai.Response, error) {
		return c.chat.Chat(ctx, messages, opts...)
	})
}

// Embed generates embeddings, retrying transient failures.
func (c *Client) Embed(ctx context.Context, texts []string, opts ...ai.EmbeddingOption) (*ai.EmbeddingResponse, error) {
	return retry.Do(ctx, c.retryConfig, func(ctx context.Context) (*ai.EmbeddingResponse, error) {
		return c.embedder.Embed(ctx, texts, opts...)
	})
}

var (
	_ chat.Client   = (*Client)(nil)
	_ chat.Embedder = (*Client)(nil)
)
