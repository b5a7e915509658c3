package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/ingest"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

type mockIngestor struct {
	result *ingest.Result
	err    error
}

func (m *mockIngestor) ExtractText(_ []byte) (*ingest.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockRFPStore struct {
	docs       map[uuid.UUID]*domain.RFPDocument
	updateErr  error
	statusErr  error
	statusLog  []domain.RFPStatus
	lastUpdate *domain.RFPDocument
}

func newMockRFPStore() *mockRFPStore {
	return &mockRFPStore{docs: make(map[uuid.UUID]*domain.RFPDocument)}
}

func (m *mockRFPStore) Create(_ context.Context, r *domain.RFPDocument) error {
	m.docs[r.ID] = r
	return nil
}

func (m *mockRFPStore) GetByID(_ context.Context, id uuid.UUID, orgID uuid.UUID) (*domain.RFPDocument, error) {
	doc, ok := m.docs[id]
	if !ok || doc.OrgID != orgID {
		return nil, errors.New("rfp document not found")
	}
	cp := *doc
	return &cp, nil
}

func (m *mockRFPStore) List(_ context.Context, orgID uuid.UUID) ([]domain.RFPDocument, error) {
	var out []domain.RFPDocument
	for _, doc := range m.docs {
		if doc.OrgID == orgID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (m *mockRFPStore) Update(_ context.Context, r *domain.RFPDocument) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastUpdate = r
	cp := *r
	m.docs[r.ID] = &cp
	return nil
}

func (m *mockRFPStore) UpdateStatus(_ context.Context, id uuid.UUID, _ uuid.UUID, status domain.RFPStatus) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	m.statusLog = append(m.statusLog, status)
	if doc, ok := m.docs[id]; ok {
		doc.Status = status
	}
	return nil
}

type mockExtractionStore struct {
	fields     map[uuid.UUID][]domain.ExtractedField
	replaceErr error
}

func newMockExtractionStore() *mockExtractionStore {
	return &mockExtractionStore{fields: make(map[uuid.UUID][]domain.ExtractedField)}
}

func (m *mockExtractionStore) ReplaceForRFP(_ context.Context, rfpID uuid.UUID, fields []domain.ExtractedField) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.fields[rfpID] = fields
	return nil
}

func (m *mockExtractionStore) ListByRFP(_ context.Context, rfpID uuid.UUID, _ uuid.UUID) ([]domain.ExtractedField, error) {
	return m.fields[rfpID], nil
}

func (m *mockExtractionStore) GetByFieldName(_ context.Context, rfpID uuid.UUID, _ uuid.UUID, fieldName string) ([]domain.ExtractedField, error) {
	var out []domain.ExtractedField
	for _, f := range m.fields[rfpID] {
		if f.FieldName == fieldName {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockContradictionStore struct {
	batches    map[uuid.UUID][]domain.Contradiction
	feedbackID uuid.UUID
	feedback   *bool
}

func newMockContradictionStore() *mockContradictionStore {
	return &mockContradictionStore{batches: make(map[uuid.UUID][]domain.Contradiction)}
}

func (m *mockContradictionStore) ReplaceForRFP(_ context.Context, rfpID uuid.UUID, contradictions []domain.Contradiction) error {
	m.batches[rfpID] = contradictions
	return nil
}

func (m *mockContradictionStore) ListByRFP(_ context.Context, rfpID uuid.UUID, _ uuid.UUID) ([]domain.Contradiction, error) {
	return m.batches[rfpID], nil
}

func (m *mockContradictionStore) SetFeedback(_ context.Context, id uuid.UUID, _ uuid.UUID, isHelpful bool) error {
	m.feedbackID = id
	m.feedback = &isHelpful
	return nil
}

type mockBudgetStore struct {
	budgets map[uuid.UUID]*domain.CapitalBudget
	items   map[uuid.UUID][]domain.BudgetLineItem
	hits    []domain.LineItemWithScore
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{
		budgets: make(map[uuid.UUID]*domain.CapitalBudget),
		items:   make(map[uuid.UUID][]domain.BudgetLineItem),
	}
}

func (m *mockBudgetStore) Create(_ context.Context, b *domain.CapitalBudget) error {
	m.budgets[b.ID] = b
	return nil
}

func (m *mockBudgetStore) GetByID(_ context.Context, id uuid.UUID, orgID uuid.UUID) (*domain.CapitalBudget, error) {
	b, ok := m.budgets[id]
	if !ok || b.OrgID != orgID {
		return nil, errors.New("capital budget not found")
	}
	return b, nil
}

func (m *mockBudgetStore) List(_ context.Context, orgID uuid.UUID, municipality string) ([]domain.CapitalBudget, error) {
	var out []domain.CapitalBudget
	for _, b := range m.budgets {
		if b.OrgID == orgID && (municipality == "" || b.Municipality == municipality) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBudgetStore) ReplaceLineItems(_ context.Context, budgetID uuid.UUID, items []domain.BudgetLineItem) error {
	m.items[budgetID] = items
	return nil
}

func (m *mockBudgetStore) ListLineItems(_ context.Context, budgetID uuid.UUID, _ uuid.UUID) ([]domain.BudgetLineItem, error) {
	return m.items[budgetID], nil
}

func (m *mockBudgetStore) ListAllLineItems(_ context.Context, _ uuid.UUID) ([]domain.BudgetLineItem, error) {
	var out []domain.BudgetLineItem
	for _, items := range m.items {
		out = append(out, items...)
	}
	return out, nil
}

func (m *mockBudgetStore) SearchLineItems(_ context.Context, _ uuid.UUID, _ []float32, topK int) ([]domain.LineItemWithScore, error) {
	if len(m.hits) > topK {
		return m.hits[:topK], nil
	}
	return m.hits, nil
}

func pagedText(pages ...string) string {
	out := ""
	for i, p := range pages {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("\n--- PAGE %d ---\n%s", i+1, p)
	}
	return out
}
