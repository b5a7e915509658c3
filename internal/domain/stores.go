package domain

import (
	"context"

	"github.com/google/uuid"
)

type OrgStore interface {
	Create(ctx context.Context, o *Org) error
	GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*Org, error)
}

type RFPStore interface {
	Create(ctx context.Context, r *RFPDocument) error
	GetByID(ctx context.Context, id uuid.UUID, orgID uuid.UUID) (*RFPDocument, error)
	List(ctx context.Context, orgID uuid.UUID) ([]RFPDocument, error)
	// Update persists the extracted columns and status of an already-created
	// document.
	Update(ctx context.Context, r *RFPDocument) error
	UpdateStatus(ctx context.Context, id uuid.UUID, orgID uuid.UUID, status RFPStatus) error
}

type ExtractionStore interface {
	// ReplaceForRFP atomically swaps the evidence rows for a document:
	// either the whole new set is committed or the old set survives intact.
	ReplaceForRFP(ctx context.Context, rfpID uuid.UUID, fields []ExtractedField) error
	ListByRFP(ctx context.Context, rfpID uuid.UUID, orgID uuid.UUID) ([]ExtractedField, error)
	GetByFieldName(ctx context.Context, rfpID uuid.UUID, orgID uuid.UUID, fieldName string) ([]ExtractedField, error)
}

type BudgetStore interface {
	Create(ctx context.Context, b *CapitalBudget) error
	GetByID(ctx context.Context, id uuid.UUID, orgID uuid.UUID) (*CapitalBudget, error)
	List(ctx context.Context, orgID uuid.UUID, municipality string) ([]CapitalBudget, error)
	ReplaceLineItems(ctx context.Context, budgetID uuid.UUID, items []BudgetLineItem) error
	ListLineItems(ctx context.Context, budgetID uuid.UUID, orgID uuid.UUID) ([]BudgetLineItem, error)
	// ListAllLineItems returns every line item visible to the org, across
	// budgets, for the matching engine.
	ListAllLineItems(ctx context.Context, orgID uuid.UUID) ([]BudgetLineItem, error)
	SearchLineItems(ctx context.Context, orgID uuid.UUID, embedding []float32, topK int) ([]LineItemWithScore, error)
}

type ContradictionStore interface {
	// ReplaceForRFP swaps the contradiction batch for a document atomically,
	// mirroring ExtractionStore.ReplaceForRFP.
	ReplaceForRFP(ctx context.Context, rfpID uuid.UUID, contradictions []Contradiction) error
	ListByRFP(ctx context.Context, rfpID uuid.UUID, orgID uuid.UUID) ([]Contradiction, error)
	SetFeedback(ctx context.Context, id uuid.UUID, orgID uuid.UUID, isHelpful bool) error
}
