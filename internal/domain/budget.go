package domain

import (
	"time"

	"github.com/google/uuid"
)

// CapitalBudget is one municipal capital budget document.
type CapitalBudget struct {
	ID           uuid.UUID `json:"id"`
	OrgID        uuid.UUID `json:"org_id,omitempty"`
	Municipality string    `json:"municipality"`
	FiscalYear   string    `json:"fiscal_year"`
	Filename     string    `json:"filename,omitempty"`
	PagedText    string    `json:"-"`
	PageCount    int       `json:"page_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// BudgetLineItem is a single capital project pulled from a budget document.
// The matching engine only reads these; ownership stays with whatever
// ingested the budget.
type BudgetLineItem struct {
	ID                uuid.UUID `json:"id"`
	BudgetID          uuid.UUID `json:"budget_id"`
	ProjectName       string    `json:"project_name"`
	ProjectID         string    `json:"project_id,omitempty"`
	Department        string    `json:"department,omitempty"`
	TotalBudget       *float64  `json:"total_budget,omitempty"`
	CurrentYearBudget *float64  `json:"current_year_budget,omitempty"`
	FundingType       string    `json:"funding_type,omitempty"`
	Description       string    `json:"description,omitempty"`
	Justification     string    `json:"justification,omitempty"`
	SourcePage        *int      `json:"source_page,omitempty"`
	SourceText        string    `json:"source_text,omitempty"`
	Embedding         []float32 `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

// LineItemWithScore is a vector-search hit.
type LineItemWithScore struct {
	BudgetLineItem
	Score float32 `json:"score"`
}
