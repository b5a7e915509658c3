package domain

import "context"

// OracleRequest is the fixed call contract for the extraction oracle. The
// user prompt embeds the paged document text; the system instruction pins
// the extraction rules.
type OracleRequest struct {
	SystemInstruction string
	UserPrompt        string
	MaxOutputTokens   int
}

// OracleResponse is the oracle's free-form reply plus usage counters for
// cost accounting.
type OracleResponse struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// OracleClient is the black-box structured-extraction service. Implementations
// must honor context cancellation and surface transport failures as
// *ServiceError; no retries happen at this layer.
type OracleClient interface {
	Complete(ctx context.Context, req OracleRequest) (*OracleResponse, error)
}

// EmbeddingClient turns text into a vector for semantic search.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
