package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/ingest"
)

// DefaultMatchLimit caps the ranked matches returned when the caller
// does not ask for a specific count.
const DefaultMatchLimit = 5

// TextIngestor converts raw document bytes into page-delimited text.
type TextIngestor interface {
	ExtractText(data []byte) (*ingest.Result, error)
}

// RFPService orchestrates the document pipeline: ingestion, field
// extraction, contradiction detection, budget matching, and the go/no-go
// decision.
type RFPService struct {
	rfps           domain.RFPStore
	extractions    domain.ExtractionStore
	contradictions domain.ContradictionStore
	budgets        domain.BudgetStore

	ingestor  TextIngestor
	extractor *ExtractionService
	detector  *ContradictionService
	matcher   *MatchingService
	embedder  domain.EmbeddingClient

	logger *zap.Logger
}

func NewRFPService(
	rfps domain.RFPStore,
	extractions domain.ExtractionStore,
	contradictions domain.ContradictionStore,
	budgets domain.BudgetStore,
	ingestor TextIngestor,
	extractor *ExtractionService,
	detector *ContradictionService,
	matcher *MatchingService,
	embedder domain.EmbeddingClient,
	logger *zap.Logger,
) *RFPService {
	return &RFPService{
		rfps:           rfps,
		extractions:    extractions,
		contradictions: contradictions,
		budgets:        budgets,
		ingestor:       ingestor,
		extractor:      extractor,
		detector:       detector,
		matcher:        matcher,
		embedder:       embedder,
		logger:         logger,
	}
}

// Upload ingests a PDF and registers the document in status new. The
// oracle is not called here; extraction is a separate, explicit step.
func (s *RFPService) Upload(ctx context.Context, orgID uuid.UUID, filename string, data []byte) (*domain.RFPDocument, error) {
	result, err := s.ingestor.ExtractText(data)
	if err != nil {
		return nil, err
	}

	doc := &domain.RFPDocument{
		ID:        uuid.New(),
		OrgID:     orgID,
		Source:    domain.RFPSourcePDFUpload,
		Filename:  filename,
		Status:    domain.RFPStatusNew,
		PagedText: result.Text,
		PageCount: result.PageCount,
	}
	if err := s.rfps.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create rfp document: %w", err)
	}

	s.logger.Info("rfp document uploaded",
		zap.String("rfp_id", doc.ID.String()),
		zap.String("filename", filename),
		zap.Int("page_count", doc.PageCount))
	return doc, nil
}

// QuickScan registers pasted text as a single-page document, skipping
// PDF ingestion.
func (s *RFPService) QuickScan(ctx context.Context, orgID uuid.UUID, name, text string) (*domain.RFPDocument, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}

	doc := &domain.RFPDocument{
		ID:        uuid.New(),
		OrgID:     orgID,
		Source:    domain.RFPSourceQuickScan,
		Filename:  name,
		Status:    domain.RFPStatusNew,
		PagedText: fmt.Sprintf("\n--- PAGE 1 ---\n%s", text),
		PageCount: 1,
	}
	if err := s.rfps.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create rfp document: %w", err)
	}
	return doc, nil
}

func (s *RFPService) Get(ctx context.Context, id, orgID uuid.UUID) (*domain.RFPDocument, error) {
	return s.rfps.GetByID(ctx, id, orgID)
}

func (s *RFPService) List(ctx context.Context, orgID uuid.UUID) ([]domain.RFPDocument, error) {
	return s.rfps.List(ctx, orgID)
}

// RunExtraction sends the document text to the oracle, writes the
// evidence rows, and fills the document's extracted columns. The
// document sits in status processing for the duration; any failure
// restores the prior status and leaves previous evidence intact.
func (s *RFPService) RunExtraction(ctx context.Context, id, orgID uuid.UUID) (*domain.RFPDocument, error) {
	doc, err := s.rfps.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	prevStatus := doc.Status
	if err := s.rfps.UpdateStatus(ctx, id, orgID, domain.RFPStatusProcessing); err != nil {
		return nil, fmt.Errorf("mark rfp processing: %w", err)
	}

	result, err := s.extractor.Extract(ctx, doc.PagedText, doc.PageCount)
	if err != nil {
		s.revertStatus(ctx, id, orgID, prevStatus)
		return nil, err
	}

	for i := range result.Fields {
		result.Fields[i].RFPID = doc.ID
	}
	if err := s.extractions.ReplaceForRFP(ctx, doc.ID, result.Fields); err != nil {
		s.revertStatus(ctx, id, orgID, prevStatus)
		return nil, fmt.Errorf("store evidence: %w", err)
	}

	for _, f := range result.Fields {
		s.applyField(doc, f)
	}

	if s.embedder != nil && doc.ScopeSummary != "" {
		vec, err := s.embedder.Embed(ctx, doc.ScopeSummary)
		if err != nil {
			s.logger.Warn("embedding rfp scope failed",
				zap.String("rfp_id", doc.ID.String()),
				zap.Error(err))
		} else {
			doc.Embedding = vec
		}
	}

	doc.Status = domain.RFPStatusExtracted
	if err := s.rfps.Update(ctx, doc); err != nil {
		s.revertStatus(ctx, id, orgID, prevStatus)
		return nil, fmt.Errorf("update rfp document: %w", err)
	}

	s.logger.Info("rfp extraction complete",
		zap.String("rfp_id", doc.ID.String()),
		zap.Int("fields", len(result.Fields)),
		zap.Int("input_tokens", result.InputTokens),
		zap.Int("output_tokens", result.OutputTokens))
	return doc, nil
}

func (s *RFPService) revertStatus(ctx context.Context, id, orgID uuid.UUID, status domain.RFPStatus) {
	if err := s.rfps.UpdateStatus(ctx, id, orgID, status); err != nil {
		s.logger.Error("reverting rfp status failed",
			zap.String("rfp_id", id.String()),
			zap.Error(err))
	}
}

// applyField copies one evidence value onto its document column.
// Unknown names are ignored; list and object columns are stored as
// decoded JSON and dropped with a log line when they fail to decode.
func (s *RFPService) applyField(doc *domain.RFPDocument, f domain.ExtractedField) {
	switch f.FieldName {
	case "client_name":
		doc.ClientName = f.Value
	case "rfp_number":
		doc.RFPNumber = f.Value
	case "opportunity_title":
		doc.OpportunityTitle = f.Value
	case "client_contact_name":
		doc.ClientContactName = f.Value
	case "client_contact_email":
		doc.ClientContactEmail = f.Value
	case "client_contact_phone":
		doc.ClientContactPhone = f.Value
	case "client_contact_role":
		doc.ClientContactRole = f.Value
	case "published_date":
		doc.PublishedDate = f.Value
	case "question_deadline":
		doc.QuestionDeadline = f.Value
	case "submission_deadline":
		doc.SubmissionDeadline = f.Value
	case "contract_duration":
		doc.ContractDuration = f.Value
	case "scope_summary":
		doc.ScopeSummary = f.Value
	case "required_internal_disciplines":
		doc.RequiredInternalDisciplines = s.decodeList(f)
	case "required_external_disciplines":
		doc.RequiredExternalDisciplines = s.decodeList(f)
	case "risk_flags":
		doc.RiskFlags = s.decodeList(f)
	case "evaluation_criteria":
		doc.EvaluationCriteria = s.decodeObject(f)
	case "reference_requirements":
		doc.ReferenceRequirements = s.decodeObject(f)
	case "insurance_requirements":
		doc.InsuranceRequirements = s.decodeObject(f)
	}
}

func (s *RFPService) decodeList(f domain.ExtractedField) []string {
	var list []string
	if err := json.Unmarshal([]byte(f.Value), &list); err != nil {
		s.logger.Warn("evidence value is not a string list",
			zap.String("field", f.FieldName),
			zap.Error(err))
		return nil
	}
	return list
}

func (s *RFPService) decodeObject(f domain.ExtractedField) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(f.Value), &obj); err != nil {
		s.logger.Warn("evidence value is not a JSON object",
			zap.String("field", f.FieldName),
			zap.Error(err))
		return nil
	}
	return obj
}

// Evidence lists the provenance rows behind a document's extracted
// columns.
func (s *RFPService) Evidence(ctx context.Context, id, orgID uuid.UUID) ([]domain.ExtractedField, error) {
	if _, err := s.rfps.GetByID(ctx, id, orgID); err != nil {
		return nil, err
	}
	return s.extractions.ListByRFP(ctx, id, orgID)
}

// EvidenceForField lists the provenance rows behind one extracted
// column. An empty field name is rejected; a field with no evidence
// yields an empty list, not an error.
func (s *RFPService) EvidenceForField(ctx context.Context, id, orgID uuid.UUID, fieldName string) ([]domain.ExtractedField, error) {
	if strings.TrimSpace(fieldName) == "" {
		return nil, &domain.ValidationError{Field: "field", Reason: "must not be empty"}
	}
	if _, err := s.rfps.GetByID(ctx, id, orgID); err != nil {
		return nil, err
	}
	return s.extractions.GetByFieldName(ctx, id, orgID, fieldName)
}

// DetectContradictions runs contradiction detection and replaces the
// stored batch. An empty result is a valid outcome, stored as such.
func (s *RFPService) DetectContradictions(ctx context.Context, id, orgID uuid.UUID) ([]domain.Contradiction, error) {
	doc, err := s.rfps.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	result, err := s.detector.Detect(ctx, doc.PagedText)
	if err != nil {
		return nil, err
	}

	found := result.Contradictions
	for i := range found {
		found[i].ID = uuid.New()
		found[i].RFPID = doc.ID
	}
	if err := s.contradictions.ReplaceForRFP(ctx, doc.ID, found); err != nil {
		return nil, fmt.Errorf("store contradictions: %w", err)
	}

	s.logger.Info("contradiction detection complete",
		zap.String("rfp_id", doc.ID.String()),
		zap.Int("contradictions", len(found)),
		zap.Int("input_tokens", result.InputTokens),
		zap.Int("output_tokens", result.OutputTokens))
	return found, nil
}

func (s *RFPService) ListContradictions(ctx context.Context, id, orgID uuid.UUID) ([]domain.Contradiction, error) {
	if _, err := s.rfps.GetByID(ctx, id, orgID); err != nil {
		return nil, err
	}
	return s.contradictions.ListByRFP(ctx, id, orgID)
}

// Matches ranks the org's budget line items against the document's
// extracted title and scope. limit <= 0 uses DefaultMatchLimit.
func (s *RFPService) Matches(ctx context.Context, id, orgID uuid.UUID, limit int) ([]domain.MatchResult, error) {
	doc, err := s.rfps.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	if doc.ScopeSummary == "" && doc.OpportunityTitle == "" {
		return nil, &domain.ValidationError{Field: "scope_summary", Reason: "document has no extracted scope to match against"}
	}

	items, err := s.budgets.ListAllLineItems(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list budget line items: %w", err)
	}

	results := s.matcher.Match(domain.MatchTarget{
		Title:     doc.OpportunityTitle,
		ScopeText: doc.ScopeSummary,
	}, items)

	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Decide records the go/no-go call on a document.
func (s *RFPService) Decide(ctx context.Context, id, orgID uuid.UUID, decision, notes string) (*domain.RFPDocument, error) {
	var status domain.RFPStatus
	switch decision {
	case string(domain.RFPStatusGo):
		status = domain.RFPStatusGo
	case string(domain.RFPStatusNoGo):
		status = domain.RFPStatusNoGo
	default:
		return nil, &domain.ValidationError{Field: "decision", Reason: "must be go or no_go"}
	}

	doc, err := s.rfps.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc.Status = status
	doc.DecisionNotes = notes
	doc.DecidedAt = &now
	if err := s.rfps.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("record decision: %w", err)
	}
	return doc, nil
}

// RFPUpdate is the allow-list of human-editable columns. Nil pointers
// leave the column untouched.
type RFPUpdate struct {
	ClientName         *string `json:"client_name"`
	RFPNumber          *string `json:"rfp_number"`
	OpportunityTitle   *string `json:"opportunity_title"`
	PublishedDate      *string `json:"published_date"`
	QuestionDeadline   *string `json:"question_deadline"`
	SubmissionDeadline *string `json:"submission_deadline"`
	ContractDuration   *string `json:"contract_duration"`
	ScopeSummary       *string `json:"scope_summary"`
}

// Update applies a reviewer's corrections to a document's columns and
// moves it to status reviewed.
func (s *RFPService) Update(ctx context.Context, id, orgID uuid.UUID, upd RFPUpdate) (*domain.RFPDocument, error) {
	doc, err := s.rfps.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&doc.ClientName, upd.ClientName)
	set(&doc.RFPNumber, upd.RFPNumber)
	set(&doc.OpportunityTitle, upd.OpportunityTitle)
	set(&doc.PublishedDate, upd.PublishedDate)
	set(&doc.QuestionDeadline, upd.QuestionDeadline)
	set(&doc.SubmissionDeadline, upd.SubmissionDeadline)
	set(&doc.ContractDuration, upd.ContractDuration)
	set(&doc.ScopeSummary, upd.ScopeSummary)

	if doc.Status == domain.RFPStatusExtracted {
		doc.Status = domain.RFPStatusReviewed
	}
	if err := s.rfps.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update rfp document: %w", err)
	}
	return doc, nil
}

// ContradictionFeedback marks a detected contradiction as helpful or
// not.
func (s *RFPService) ContradictionFeedback(ctx context.Context, contradictionID, orgID uuid.UUID, isHelpful bool) error {
	return s.contradictions.SetFeedback(ctx, contradictionID, orgID, isHelpful)
}
