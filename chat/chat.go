// Package chat provides the interfaces shared by the crew, vectorstore and
// client packages without import cycles.
//
// The [github.com/spetersoncode/finsight/client.Client] type implements both.
package chat

import (
	"context"

	ai "github.com/spetersoncode/finsight"
)

// Client sends a conversation to a language model.
type Client interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)
}

// Embedder turns texts into vectors.
type Embedder interface {
	// Embed generates one embedding per text, in input order.
	Embed(ctx context.Context, texts []string, opts ...ai.EmbeddingOption) (*ai.EmbeddingResponse, error)
}
