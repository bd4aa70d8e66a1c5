package finsight

// EmbeddingResponse represents a complete response from an embedding provider.
type EmbeddingResponse struct {
	// Embeddings contains one embedding vector per input text.
	// The order matches the input texts order.
	Embeddings [][]float64
	Usage      Usage
}

// EmbeddingTaskType specifies the intended use case for embeddings.
// Only Google honours it; the other providers ignore it.
type EmbeddingTaskType string

const (
	// EmbeddingTaskTypeRetrievalQuery optimizes for search queries.
	EmbeddingTaskTypeRetrievalQuery EmbeddingTaskType = "RETRIEVAL_QUERY"
	// EmbeddingTaskTypeRetrievalDocument optimizes for documents to be searched.
	EmbeddingTaskTypeRetrievalDocument EmbeddingTaskType = "RETRIEVAL_DOCUMENT"
)

// EmbeddingOptions contains configuration for an embedding request.
type EmbeddingOptions struct {
	Model      string
	Dimensions int
	TaskType   EmbeddingTaskType
}

// EmbeddingOption is a functional option for configuring embedding requests.
type EmbeddingOption func(*EmbeddingOptions)

// WithEmbeddingModel sets the model to use for embedding generation.
func WithEmbeddingModel(model string) EmbeddingOption {
	return func(o *EmbeddingOptions) {
		o.Model = model
	}
}

// WithEmbeddingDimensions sets the output dimensions for the embedding vectors.
func WithEmbeddingDimensions(dims int) EmbeddingOption {
	return func(o *EmbeddingOptions) {
		o.Dimensions = dims
	}
}

// WithEmbeddingTaskType sets the intended task type for embeddings.
func WithEmbeddingTaskType(taskType EmbeddingTaskType) EmbeddingOption {
	return func(o *EmbeddingOptions) {
		o.TaskType = taskType
	}
}

// ApplyEmbeddingOptions applies functional options to an EmbeddingOptions struct.
func ApplyEmbeddingOptions(opts ...EmbeddingOption) *EmbeddingOptions {
	o := &EmbeddingOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
