package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/llm"
)

const contradictionReplyJSON = `{
  "contradictions": [
    {
      "type": "numerical",
      "description": "Meeting counts differ between sections",
      "statement_a": {"text": "The consultant shall attend four (4) progress meetings", "page": 5},
      "statement_b": {"text": "A total of six progress meetings are anticipated", "page": 12},
      "clarifying_question": "Can you confirm the number of progress meetings (page 5 states 4, page 12 states 6)?"
    },
    {
      "type": "budget_discrepancy",
      "description": "Scope statements conflict",
      "statement_a": {"text": "a full condition assessment", "page": 3},
      "statement_b": {"text": "a desktop review only", "page": 9},
      "clarifying_question": "Is a full assessment or a desktop review required?"
    }
  ]
}`

func TestDetectParsesContradictions(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{Text: contradictionReplyJSON, InputTokens: 900, OutputTokens: 210}
	svc := NewContradictionService(oracle, 0, testLogger())

	result, err := svc.Detect(context.Background(), pagedText("p1"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	found := result.Contradictions
	if len(found) != 2 {
		t.Fatalf("got %d contradictions, want 2", len(found))
	}
	if result.InputTokens != 900 || result.OutputTokens != 210 {
		t.Errorf("tokens = %d/%d, want 900/210", result.InputTokens, result.OutputTokens)
	}

	first := found[0]
	if first.Type != domain.ContradictionNumerical {
		t.Errorf("type = %q, want numerical", first.Type)
	}
	if first.StatementA.Page != 5 || first.StatementB.Page != 12 {
		t.Errorf("pages = %d/%d, want 5/12", first.StatementA.Page, first.StatementB.Page)
	}
	if first.ClarifyingQuestion == "" {
		t.Error("clarifying question was dropped")
	}
}

func TestDetectUnknownTypeFallsBackToScope(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{Text: contradictionReplyJSON}
	svc := NewContradictionService(oracle, 0, testLogger())

	result, err := svc.Detect(context.Background(), pagedText("p1"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	// "budget_discrepancy" is not in the closed type set.
	if result.Contradictions[1].Type != domain.ContradictionScope {
		t.Errorf("unknown type mapped to %q, want scope", result.Contradictions[1].Type)
	}
}

func TestDetectEmptyListIsSuccess(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{Text: `{"contradictions": []}`}
	svc := NewContradictionService(oracle, 0, testLogger())

	result, err := svc.Detect(context.Background(), pagedText("p1"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if result.Contradictions == nil {
		t.Fatal("empty result should be a non-nil slice")
	}
	if len(result.Contradictions) != 0 {
		t.Errorf("got %d contradictions, want 0", len(result.Contradictions))
	}
}

func TestDetectMalformedReply(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{Text: "no contradictions found"}
	svc := NewContradictionService(oracle, 0, testLogger())

	_, err := svc.Detect(context.Background(), pagedText("p1"))
	var malformed *domain.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedResponseError", err)
	}
}
