package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/llm"
)

// ContradictionService asks the oracle for internally inconsistent
// statements within a document.
type ContradictionService struct {
	oracle   domain.OracleClient
	maxChars int
	logger   *zap.Logger
}

func NewContradictionService(oracle domain.OracleClient, maxChars int, logger *zap.Logger) *ContradictionService {
	if maxChars <= 0 {
		maxChars = llm.DefaultMaxDocumentChars
	}
	return &ContradictionService{
		oracle:   oracle,
		maxChars: maxChars,
		logger:   logger,
	}
}

type contradictionReply struct {
	Contradictions []struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		StatementA  struct {
			Text string `json:"text"`
			Page int    `json:"page"`
		} `json:"statement_a"`
		StatementB struct {
			Text string `json:"text"`
			Page int    `json:"page"`
		} `json:"statement_b"`
		ClarifyingQuestion string `json:"clarifying_question"`
	} `json:"contradictions"`
}

// ContradictionResult carries the detected contradictions plus the
// token usage of the oracle call that produced them.
type ContradictionResult struct {
	Contradictions []domain.Contradiction
	InputTokens    int
	OutputTokens   int
}

// Detect runs the contradiction prompt over pagedText. A document with
// no contradictions yields an empty, non-nil slice; that is a success,
// not an error. Unrecognized type labels fall back to the scope type.
func (s *ContradictionService) Detect(ctx context.Context, pagedText string) (*ContradictionResult, error) {
	system, user := llm.BuildContradictionPrompt(pagedText, s.maxChars)

	resp, err := s.oracle.Complete(ctx, domain.OracleRequest{
		SystemInstruction: system,
		UserPrompt:        user,
		MaxOutputTokens:   llm.MaxOutputTokens,
	})
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFence(resp.Text)

	var reply contradictionReply
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		return nil, &domain.MalformedResponseError{
			Err: fmt.Errorf("contradiction reply is not valid JSON: %w", err),
			Raw: resp.Text,
		}
	}

	out := make([]domain.Contradiction, 0, len(reply.Contradictions))
	for _, c := range reply.Contradictions {
		ctype := domain.ParseContradictionType(c.Type)
		if string(ctype) != c.Type {
			s.logger.Debug("unknown contradiction type, falling back to scope",
				zap.String("type", c.Type))
		}
		out = append(out, domain.Contradiction{
			Type:        ctype,
			Description: c.Description,
			StatementA: domain.Statement{
				Text: c.StatementA.Text,
				Page: c.StatementA.Page,
			},
			StatementB: domain.Statement{
				Text: c.StatementB.Text,
				Page: c.StatementB.Page,
			},
			ClarifyingQuestion: c.ClarifyingQuestion,
		})
	}
	return &ContradictionResult{
		Contradictions: out,
		InputTokens:    resp.InputTokens,
		OutputTokens:   resp.OutputTokens,
	}, nil
}
