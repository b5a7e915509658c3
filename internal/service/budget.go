package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/llm"
)

// BudgetService ingests municipal budget documents, extracts capital
// project line items, and serves keyword-free semantic search over
// them.
type BudgetService struct {
	budgets  domain.BudgetStore
	ingestor TextIngestor
	oracle   domain.OracleClient
	embedder domain.EmbeddingClient
	maxChars int
	logger   *zap.Logger
}

// NewBudgetService builds the budget pipeline. embedder may be nil, in
// which case line items are stored without vectors and semantic search
// is unavailable.
func NewBudgetService(
	budgets domain.BudgetStore,
	ingestor TextIngestor,
	oracle domain.OracleClient,
	embedder domain.EmbeddingClient,
	maxChars int,
	logger *zap.Logger,
) *BudgetService {
	if maxChars <= 0 {
		maxChars = llm.BudgetMaxDocumentChars
	}
	return &BudgetService{
		budgets:  budgets,
		ingestor: ingestor,
		oracle:   oracle,
		embedder: embedder,
		maxChars: maxChars,
		logger:   logger,
	}
}

// Upload ingests a budget PDF, extracts its line items, and stores
// both.
func (s *BudgetService) Upload(ctx context.Context, orgID uuid.UUID, municipality, fiscalYear, filename string, data []byte) (*domain.CapitalBudget, []domain.BudgetLineItem, error) {
	if strings.TrimSpace(municipality) == "" {
		return nil, nil, &domain.ValidationError{Field: "municipality", Reason: "must not be empty"}
	}

	result, err := s.ingestor.ExtractText(data)
	if err != nil {
		return nil, nil, err
	}

	budget := &domain.CapitalBudget{
		ID:           uuid.New(),
		OrgID:        orgID,
		Municipality: municipality,
		FiscalYear:   fiscalYear,
		Filename:     filename,
		PagedText:    result.Text,
		PageCount:    result.PageCount,
	}
	if err := s.budgets.Create(ctx, budget); err != nil {
		return nil, nil, fmt.Errorf("create capital budget: %w", err)
	}

	extraction, err := s.ExtractLineItems(ctx, result.Text, municipality)
	if err != nil {
		return nil, nil, err
	}
	items := extraction.Items
	for i := range items {
		items[i].ID = uuid.New()
		items[i].BudgetID = budget.ID
	}
	if err := s.budgets.ReplaceLineItems(ctx, budget.ID, items); err != nil {
		return nil, nil, fmt.Errorf("store line items: %w", err)
	}

	s.logger.Info("capital budget ingested",
		zap.String("budget_id", budget.ID.String()),
		zap.String("municipality", municipality),
		zap.Int("line_items", len(items)),
		zap.Int("input_tokens", extraction.InputTokens),
		zap.Int("output_tokens", extraction.OutputTokens))
	return budget, items, nil
}

// Extract re-runs line-item extraction over a stored budget's text and
// replaces its line items. Useful when the first pass failed or the
// prompt has since improved.
func (s *BudgetService) Extract(ctx context.Context, id, orgID uuid.UUID) ([]domain.BudgetLineItem, error) {
	budget, err := s.budgets.GetByID(ctx, id, orgID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(budget.PagedText) == "" {
		return nil, &domain.ValidationError{Field: "budget", Reason: "budget has no extracted text"}
	}

	extraction, err := s.ExtractLineItems(ctx, budget.PagedText, budget.Municipality)
	if err != nil {
		return nil, err
	}
	items := extraction.Items
	for i := range items {
		items[i].ID = uuid.New()
		items[i].BudgetID = budget.ID
	}
	if err := s.budgets.ReplaceLineItems(ctx, budget.ID, items); err != nil {
		return nil, fmt.Errorf("store line items: %w", err)
	}

	s.logger.Info("budget line items re-extracted",
		zap.String("budget_id", budget.ID.String()),
		zap.Int("line_items", len(items)),
		zap.Int("input_tokens", extraction.InputTokens),
		zap.Int("output_tokens", extraction.OutputTokens))
	return items, nil
}

func (s *BudgetService) Get(ctx context.Context, id, orgID uuid.UUID) (*domain.CapitalBudget, error) {
	return s.budgets.GetByID(ctx, id, orgID)
}

func (s *BudgetService) List(ctx context.Context, orgID uuid.UUID, municipality string) ([]domain.CapitalBudget, error) {
	return s.budgets.List(ctx, orgID, municipality)
}

func (s *BudgetService) LineItems(ctx context.Context, budgetID, orgID uuid.UUID) ([]domain.BudgetLineItem, error) {
	return s.budgets.ListLineItems(ctx, budgetID, orgID)
}

// Search embeds the query and returns the topK nearest line items.
func (s *BudgetService) Search(ctx context.Context, orgID uuid.UUID, query string, topK int) ([]domain.LineItemWithScore, error) {
	if s.embedder == nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("semantic search requires an embedding provider")}
	}
	if strings.TrimSpace(query) == "" {
		return nil, &domain.ValidationError{Field: "query", Reason: "must not be empty"}
	}
	if topK <= 0 {
		topK = DefaultMatchLimit
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &domain.ServiceError{Err: fmt.Errorf("embed search query: %w", err)}
	}
	return s.budgets.SearchLineItems(ctx, orgID, vec, topK)
}

type budgetItemReply struct {
	ProjectName       string   `json:"project_name"`
	ProjectID         *string  `json:"project_id"`
	Department        *string  `json:"department"`
	TotalBudget       *float64 `json:"total_budget"`
	CurrentYearBudget *float64 `json:"current_year_budget"`
	FundingType       *string  `json:"funding_type"`
	Description       string   `json:"description"`
	Justification     *string  `json:"justification"`
	SourcePage        *int     `json:"source_page"`
	SourceText        *string  `json:"source_text"`
}

// BudgetExtractionResult carries the parsed line items plus the token
// usage of the oracle call that produced them.
type BudgetExtractionResult struct {
	Items        []domain.BudgetLineItem
	InputTokens  int
	OutputTokens int
}

// ExtractLineItems runs the budget prompt over pagedText and returns the
// parsed line items. Entries without a project name are dropped. When an
// embedder is configured each item gets a vector over its name,
// department, and description.
func (s *BudgetService) ExtractLineItems(ctx context.Context, pagedText, municipality string) (*BudgetExtractionResult, error) {
	system, user := llm.BuildBudgetPrompt(pagedText, municipality, s.maxChars)

	resp, err := s.oracle.Complete(ctx, domain.OracleRequest{
		SystemInstruction: system,
		UserPrompt:        user,
		MaxOutputTokens:   llm.MaxOutputTokens,
	})
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFence(resp.Text)

	var replies []budgetItemReply
	if err := json.Unmarshal([]byte(cleaned), &replies); err != nil {
		return nil, &domain.MalformedResponseError{
			Err: fmt.Errorf("budget reply is not a JSON array: %w", err),
			Raw: resp.Text,
		}
	}

	items := make([]domain.BudgetLineItem, 0, len(replies))
	for _, r := range replies {
		if strings.TrimSpace(r.ProjectName) == "" {
			s.logger.Warn("dropping budget line item without project name")
			continue
		}
		item := domain.BudgetLineItem{
			ProjectName:       r.ProjectName,
			ProjectID:         deref(r.ProjectID),
			Department:        deref(r.Department),
			TotalBudget:       r.TotalBudget,
			CurrentYearBudget: r.CurrentYearBudget,
			FundingType:       deref(r.FundingType),
			Description:       r.Description,
			Justification:     deref(r.Justification),
			SourcePage:        r.SourcePage,
			SourceText:        deref(r.SourceText),
		}

		if s.embedder != nil {
			vec, err := s.embedder.Embed(ctx, embeddingText(item))
			if err != nil {
				s.logger.Warn("embedding budget line item failed",
					zap.String("project_name", item.ProjectName),
					zap.Error(err))
			} else {
				item.Embedding = vec
			}
		}
		items = append(items, item)
	}
	return &BudgetExtractionResult{
		Items:        items,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

func embeddingText(item domain.BudgetLineItem) string {
	parts := []string{item.ProjectName}
	if item.Department != "" {
		parts = append(parts, item.Department)
	}
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	return strings.Join(parts, "\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
