package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pursuitworks/pursuit/internal/domain"
)

type BudgetStore struct {
	db *pgxpool.Pool
}

func NewBudgetStore(db *pgxpool.Pool) *BudgetStore {
	return &BudgetStore{db: db}
}

func (s *BudgetStore) Create(ctx context.Context, b *domain.CapitalBudget) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO capital_budgets (id, org_id, municipality, fiscal_year, filename, paged_text, page_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		b.ID, b.OrgID, b.Municipality, b.FiscalYear, b.Filename, b.PagedText, b.PageCount,
	).Scan(&b.CreatedAt)
}

func (s *BudgetStore) GetByID(ctx context.Context, id uuid.UUID, orgID uuid.UUID) (*domain.CapitalBudget, error) {
	var b domain.CapitalBudget
	err := s.db.QueryRow(ctx,
		`SELECT id, org_id, municipality, fiscal_year, filename, paged_text, page_count, created_at
		 FROM capital_budgets WHERE id = $1 AND org_id = $2`,
		id, orgID,
	).Scan(&b.ID, &b.OrgID, &b.Municipality, &b.FiscalYear, &b.Filename, &b.PagedText, &b.PageCount, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *BudgetStore) List(ctx context.Context, orgID uuid.UUID, municipality string) ([]domain.CapitalBudget, error) {
	query := `SELECT id, org_id, municipality, fiscal_year, filename, '', page_count, created_at
		 FROM capital_budgets WHERE org_id = $1`
	args := []any{orgID}
	if municipality != "" {
		query += ` AND municipality = $2`
		args = append(args, municipality)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.CapitalBudget
	for rows.Next() {
		var b domain.CapitalBudget
		if err := rows.Scan(&b.ID, &b.OrgID, &b.Municipality, &b.FiscalYear, &b.Filename, &b.PagedText, &b.PageCount, &b.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// ReplaceLineItems swaps a budget's line items transactionally.
func (s *BudgetStore) ReplaceLineItems(ctx context.Context, budgetID uuid.UUID, items []domain.BudgetLineItem) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM budget_line_items WHERE budget_id = $1`, budgetID); err != nil {
		return fmt.Errorf("delete previous line items: %w", err)
	}

	for i := range items {
		item := &items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}

		var embedding *pgvector.Vector
		if len(item.Embedding) > 0 {
			v := pgvector.NewVector(item.Embedding)
			embedding = &v
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO budget_line_items (
				id, budget_id, project_name, project_id, department,
				total_budget, current_year_budget, funding_type,
				description, justification, source_page, source_text, embedding
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING created_at`,
			item.ID, budgetID, item.ProjectName, item.ProjectID, item.Department,
			item.TotalBudget, item.CurrentYearBudget, item.FundingType,
			item.Description, item.Justification, item.SourcePage, item.SourceText, embedding,
		).Scan(&item.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert line item %s: %w", item.ProjectName, err)
		}
	}

	return tx.Commit(ctx)
}

const lineItemColumns = `i.id, i.budget_id, i.project_name, i.project_id, i.department,
	i.total_budget, i.current_year_budget, i.funding_type,
	i.description, i.justification, i.source_page, i.source_text, i.created_at`

func (s *BudgetStore) ListLineItems(ctx context.Context, budgetID uuid.UUID, orgID uuid.UUID) ([]domain.BudgetLineItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+lineItemColumns+`
		 FROM budget_line_items i
		 JOIN capital_budgets b ON b.id = i.budget_id
		 WHERE i.budget_id = $1 AND b.org_id = $2
		 ORDER BY i.project_name`,
		budgetID, orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLineItems(rows)
}

func (s *BudgetStore) ListAllLineItems(ctx context.Context, orgID uuid.UUID) ([]domain.BudgetLineItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+lineItemColumns+`
		 FROM budget_line_items i
		 JOIN capital_budgets b ON b.id = i.budget_id
		 WHERE b.org_id = $1
		 ORDER BY i.created_at`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLineItems(rows)
}

func (s *BudgetStore) SearchLineItems(ctx context.Context, orgID uuid.UUID, embedding []float32, topK int) ([]domain.LineItemWithScore, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := s.db.Query(ctx,
		`SELECT `+lineItemColumns+`,
		        1 - (i.embedding <=> $1) AS score
		 FROM budget_line_items i
		 JOIN capital_budgets b ON b.id = i.budget_id
		 WHERE b.org_id = $2 AND i.embedding IS NOT NULL
		 ORDER BY i.embedding <=> $1
		 LIMIT $3`,
		vec, orgID, topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.LineItemWithScore
	for rows.Next() {
		var hit domain.LineItemWithScore
		if err := rows.Scan(
			&hit.ID, &hit.BudgetID, &hit.ProjectName, &hit.ProjectID, &hit.Department,
			&hit.TotalBudget, &hit.CurrentYearBudget, &hit.FundingType,
			&hit.Description, &hit.Justification, &hit.SourcePage, &hit.SourceText, &hit.CreatedAt,
			&hit.Score,
		); err != nil {
			return nil, err
		}
		results = append(results, hit)
	}
	return results, rows.Err()
}

func scanLineItems(rows pgx.Rows) ([]domain.BudgetLineItem, error) {
	var results []domain.BudgetLineItem
	for rows.Next() {
		var item domain.BudgetLineItem
		if err := rows.Scan(
			&item.ID, &item.BudgetID, &item.ProjectName, &item.ProjectID, &item.Department,
			&item.TotalBudget, &item.CurrentYearBudget, &item.FundingType,
			&item.Description, &item.Justification, &item.SourcePage, &item.SourceText, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}
