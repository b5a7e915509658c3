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
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	openAIModel   = "gpt-4o-mini"
)

// OpenAIClient implements the oracle contract over the Chat Completions API.
type OpenAIClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) Complete(ctx context.Context, oreq domain.OracleRequest) (*domain.OracleResponse, error) {
	body, err := json.Marshal(openAIRequest{
		Model:     openAIModel,
		MaxTokens: oreq.MaxOutputTokens,
		Messages: []openAIMessage{
			{Role: "system", Content: oreq.SystemInstruction},
			{Role: "user", Content: oreq.UserPrompt},
		},
	})
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("marshal openai request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("create openai request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("openai request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("read openai response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ServiceError{Err: fmt.Errorf("openai API returned status %d: %s", resp.StatusCode, string(respBody))}
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("unmarshal openai response: %w", err)}
	}

	if result.Error != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("openai API error: %s", result.Error.Message)}
	}

	if len(result.Choices) == 0 {
		return nil, &domain.ServiceError{Err: fmt.Errorf("openai API returned no choices")}
	}

	return &domain.OracleResponse{
		Text:         strings.TrimSpace(result.Choices[0].Message.Content),
		InputTokens:  result.Usage.PromptTokens,
		OutputTokens: result.Usage.CompletionTokens,
	}, nil
}
