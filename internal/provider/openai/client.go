// Package openai adapts the OpenAI SDK to finsight's chat and embedding
// interfaces. Ollama exposes an OpenAI-compatible API, so the same client
// serves local models when constructed with WithBaseURL.
package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	ai "github.com/spetersoncode/finsight"
	"github.com/spetersoncode/finsight/internal/provider/apierr"
)

const (
	DefaultChatModel      = "gpt-4o-mini"
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// Client wraps the OpenAI SDK to implement ai.ChatProvider and ai.EmbeddingProvider.
type Client struct {
	client         *openai.Client
	model          string
	embeddingModel string
	requestOpts    []option.RequestOption
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the default chat model.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithEmbeddingModel sets the default embedding model.
func WithEmbeddingModel(model string) ClientOption {
	return func(c *Client) {
		c.embeddingModel = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint such as
// Ollama's http://localhost:11434/v1.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, option.WithBaseURL(url))
	}
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		model:          DefaultChatModel,
		embeddingModel: DefaultEmbeddingModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, c.requestOpts...)...)
	c.client = &client
	return c
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, ai.NewTransientError("openai: response has no choices", 0, nil)
	}

	choice := resp.Choices[0]
	return &ai.Response{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(choice.Message),
	}, nil
}

// Embed generates embeddings for the provided texts.
func (c *Client) Embed(ctx context.Context, texts []string, opts ...ai.EmbeddingOption) (*ai.EmbeddingResponse, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: at least one text is required for embedding", ai.ErrEmptyInput)
	}

	options := ai.ApplyEmbeddingOptions(opts...)
	model := c.embeddingModel
	if options.Model != "" {
		model = options.Model
	}

	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	}
	if options.Dimensions > 0 {
		params.Dimensions = openai.Int(int64(options.Dimensions))
	}

	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	embeddings := make([][]float64, len(resp.Data))
	for _, data := range resp.Data {
		if int(data.Index) < len(embeddings) {
			embeddings[data.Index] = data.Embedding
		}
	}

	return &ai.EmbeddingResponse{
		Embeddings: embeddings,
		Usage:      ai.Usage{InputTokens: int(resp.Usage.PromptTokens)},
	}, nil
}

// wrapError categorizes OpenAI API errors; other errors (network) pass
// through for the retry heuristics.
func wrapError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return apierr.Categorize(err, apiErr.StatusCode, apierr.RetryAfter(apiErr.Response))
}

var (
	_ ai.ChatProvider      = (*Client)(nil)
	_ ai.EmbeddingProvider = (*Client)(nil)
)
