package llm

import (
	"context"

	"github.com/pursuitworks/pursuit/internal/domain"
)

// MockClient is a configurable oracle for testing.
// Set Response/Err to control what Complete returns; Calls records every
// request for assertions.
type MockClient struct {
	Response *domain.OracleResponse
	Err      error

	// RespondFn, when set, takes precedence over Response/Err.
	RespondFn func(req domain.OracleRequest) (*domain.OracleResponse, error)

	Calls []domain.OracleRequest
}

func NewMockClient() *MockClient {
	return &MockClient{
		Response: &domain.OracleResponse{Text: "{}"},
	}
}

func (c *MockClient) Complete(ctx context.Context, req domain.OracleRequest) (*domain.OracleResponse, error) {
	c.Calls = append(c.Calls, req)
	if c.RespondFn != nil {
		return c.RespondFn(req)
	}
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Response, nil
}
