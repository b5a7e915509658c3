package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/llm"
)

const extractionReply = `{
  "client_name": {"value": "City of Guelph", "source_page": 1, "source_text": "issued by the City of Guelph"},
  "opportunity_title": {"value": "Main Street Reconstruction", "source_page": 1, "source_text": "RFP for Main Street Reconstruction"},
  "submission_deadline": {"value": "2026-10-15 14:00", "source_page": 2, "source_text": "Proposals due October 15"},
  "scope_summary": {"value": null, "source_page": null, "source_text": null},
  "required_internal_disciplines": {"value": ["Civil", "Structural"], "source_page": 3, "source_text": "the consultant shall provide"},
  "client_contact": {
    "value": {"name": "Jane Doe", "email": null, "phone": "555-0100", "role": null},
    "source_page": 1,
    "source_text": "direct questions to Jane Doe"
  }
}`

func newExtractor(t *testing.T, oracle *llm.MockClient) *ExtractionService {
	t.Helper()
	svc, err := NewExtractionService(oracle, 0, testLogger())
	if err != nil {
		t.Fatalf("NewExtractionService: %v", err)
	}
	return svc
}

func fieldNames(fields []domain.ExtractedField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.FieldName
	}
	return names
}

func findField(fields []domain.ExtractedField, name string) *domain.ExtractedField {
	for i := range fields {
		if fields[i].FieldName == name {
			return &fields[i]
		}
	}
	return nil
}

func TestExtractFlattensReply(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{Text: extractionReply, InputTokens: 1200, OutputTokens: 340}
	svc := newExtractor(t, oracle)

	result, err := svc.Extract(context.Background(), pagedText("page one", "page two", "page three"), 3)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if result.InputTokens != 1200 || result.OutputTokens != 340 {
		t.Errorf("token usage = %d/%d, want 1200/340", result.InputTokens, result.OutputTokens)
	}

	want := map[string]string{
		"client_name":                   "City of Guelph",
		"opportunity_title":             "Main Street Reconstruction",
		"submission_deadline":           "2026-10-15 14:00",
		"required_internal_disciplines": `["Civil", "Structural"]`,
		"client_contact_name":           "Jane Doe",
		"client_contact_phone":          "555-0100",
	}
	if len(result.Fields) != len(want) {
		t.Fatalf("got fields %v, want %d fields", fieldNames(result.Fields), len(want))
	}
	for name, value := range want {
		f := findField(result.Fields, name)
		if f == nil {
			t.Errorf("missing field %q", name)
			continue
		}
		if f.Value != value {
			t.Errorf("field %q = %q, want %q", name, f.Value, value)
		}
		if f.Confidence != 0.9 {
			t.Errorf("field %q confidence = %v, want 0.9", name, f.Confidence)
		}
	}
}

func TestExtractContactExplosionSkipsNulls(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{Text: extractionReply}
	svc := newExtractor(t, oracle)

	result, err := svc.Extract(context.Background(), pagedText("p1"), 3)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// email and role were null; only name and phone survive.
	for _, name := range []string{"client_contact_email", "client_contact_role"} {
		if findField(result.Fields, name) != nil {
			t.Errorf("null contact value produced field %q", name)
		}
	}
	contact := findField(result.Fields, "client_contact_name")
	if contact == nil {
		t.Fatal("missing client_contact_name")
	}
	if contact.SourcePage == nil || *contact.SourcePage != 1 {
		t.Error("exploded field did not inherit the parent source page")
	}
	if contact.SourceText != "direct questions to Jane Doe" {
		t.Errorf("exploded field source text = %q", contact.SourceText)
	}
}

func TestExtractFencedAndBareRepliesMatch(t *testing.T) {
	bare := llm.NewMockClient()
	bare.Response = &domain.OracleResponse{Text: extractionReply}
	fenced := llm.NewMockClient()
	fenced.Response = &domain.OracleResponse{Text: "```json\n" + extractionReply + "\n```"}

	svc1 := newExtractor(t, bare)
	svc2 := newExtractor(t, fenced)

	r1, err := svc1.Extract(context.Background(), pagedText("p1"), 3)
	if err != nil {
		t.Fatalf("bare Extract: %v", err)
	}
	r2, err := svc2.Extract(context.Background(), pagedText("p1"), 3)
	if err != nil {
		t.Fatalf("fenced Extract: %v", err)
	}

	if len(r1.Fields) != len(r2.Fields) {
		t.Fatalf("bare produced %d fields, fenced %d", len(r1.Fields), len(r2.Fields))
	}
	for i := range r1.Fields {
		if r1.Fields[i] != r2.Fields[i] {
			a, b := r1.Fields[i], r2.Fields[i]
			if a.FieldName != b.FieldName || a.Value != b.Value || a.SourceText != b.SourceText {
				t.Errorf("field %d differs: %+v vs %+v", i, a, b)
			}
		}
	}
}

func TestExtractDropsUnmappedKeys(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{
		Text: `{"hallucinated_field": {"value": "x", "source_page": 1, "source_text": "y"}}`,
	}
	svc := newExtractor(t, oracle)

	result, err := svc.Extract(context.Background(), pagedText("p1"), 1)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Fields) != 0 {
		t.Errorf("unmapped key produced fields: %v", fieldNames(result.Fields))
	}
}

func TestExtractDropsOutOfRangeSourcePage(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{
		Text: `{
			"client_name": {"value": "City of Guelph", "source_page": 12, "source_text": "q"},
			"rfp_number": {"value": "RFP-2026-014", "source_page": 2, "source_text": "q"}
		}`,
	}
	svc := newExtractor(t, oracle)

	result, err := svc.Extract(context.Background(), pagedText("p1", "p2"), 2)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if findField(result.Fields, "client_name") != nil {
		t.Error("field citing page 12 of a 2-page document was kept")
	}
	if findField(result.Fields, "rfp_number") == nil {
		t.Error("valid field was dropped alongside the out-of-range one")
	}
}

func TestExtractMalformedReply(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{Text: "I could not process this document."}
	svc := newExtractor(t, oracle)

	_, err := svc.Extract(context.Background(), pagedText("p1"), 1)
	var malformed *domain.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("err = %v, want MalformedResponseError", err)
	}
	if malformed.Raw != "I could not process this document." {
		t.Errorf("Raw = %q, want the verbatim reply", malformed.Raw)
	}
}

func TestExtractOracleFailurePropagates(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Err = &domain.ServiceError{Err: errors.New("status 529")}
	svc := newExtractor(t, oracle)

	_, err := svc.Extract(context.Background(), pagedText("p1"), 1)
	var svcErr *domain.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("err = %v, want ServiceError", err)
	}
}

func TestExtractSendsTruncatedDocument(t *testing.T) {
	oracle := llm.NewMockClient()
	oracle.Response = &domain.OracleResponse{Text: "{}"}
	svc, err := NewExtractionService(oracle, 100, testLogger())
	if err != nil {
		t.Fatalf("NewExtractionService: %v", err)
	}

	long := pagedText(string(make([]byte, 500)))
	if _, err := svc.Extract(context.Background(), long, 1); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(oracle.Calls) != 1 {
		t.Fatalf("oracle called %d times, want 1", len(oracle.Calls))
	}
	call := oracle.Calls[0]
	if call.MaxOutputTokens != llm.MaxOutputTokens {
		t.Errorf("MaxOutputTokens = %d, want %d", call.MaxOutputTokens, llm.MaxOutputTokens)
	}
	wantNotice := "[DOCUMENT TRUNCATED - First 100 characters shown]"
	if !strings.Contains(call.UserPrompt, wantNotice) {
		t.Errorf("prompt missing truncation notice %q", wantNotice)
	}
}
