package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pursuitworks/pursuit/internal/domain"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicModel       = "claude-sonnet-4-20250514"
	anthropicVersion     = "2023-06-01"
)

// AnthropicClient talks to the Anthropic Messages API. The http.Client is
// owned by the struct; one client is built at process start and shared.
type AnthropicClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *AnthropicClient) Complete(ctx context.Context, oreq domain.OracleRequest) (*domain.OracleResponse, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: oreq.MaxOutputTokens,
		System:    oreq.SystemInstruction,
		Messages:  []anthropicMessage{{Role: "user", Content: oreq.UserPrompt}},
	})
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("marshal anthropic request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("create anthropic request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("anthropic request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("read anthropic response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ServiceError{Err: fmt.Errorf("anthropic API returned status %d: %s", resp.StatusCode, string(respBody))}
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("unmarshal anthropic response: %w", err)}
	}

	if result.Error != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("anthropic API error: %s", result.Error.Message)}
	}

	if len(result.Content) == 0 {
		return nil, &domain.ServiceError{Err: fmt.Errorf("anthropic API returned no content")}
	}

	return &domain.OracleResponse{
		Text:         strings.TrimSpace(result.Content[0].Text),
		InputTokens:  result.Usage.InputTokens,
		OutputTokens: result.Usage.OutputTokens,
	}, nil
}
