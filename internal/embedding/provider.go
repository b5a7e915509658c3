package embedding

import (
	"fmt"

	"github.com/pursuitworks/pursuit/internal/domain"
)

// NewClient returns an embedding client for the given provider name.
// Supported providers: "openai", "mock".
func NewClient(provider, apiKey string) (domain.EmbeddingClient, error) {
	switch provider {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an API key")
		}
		return NewOpenAIClient(apiKey), nil
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}
