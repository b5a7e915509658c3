package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pursuitworks/pursuit/internal/domain"
)

type ContradictionStore struct {
	db *pgxpool.Pool
}

func NewContradictionStore(db *pgxpool.Pool) *ContradictionStore {
	return &ContradictionStore{db: db}
}

// ReplaceForRFP swaps the contradiction batch for a document
// transactionally. Storing an empty batch clears previous findings.
func (s *ContradictionStore) ReplaceForRFP(ctx context.Context, rfpID uuid.UUID, contradictions []domain.Contradiction) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM contradictions WHERE rfp_id = $1`, rfpID); err != nil {
		return fmt.Errorf("delete previous contradictions: %w", err)
	}

	for i := range contradictions {
		c := &contradictions[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO contradictions (
				id, rfp_id, type, description,
				statement_a_text, statement_a_page, statement_b_text, statement_b_page,
				clarifying_question
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at`,
			c.ID, rfpID, c.Type, c.Description,
			c.StatementA.Text, c.StatementA.Page, c.StatementB.Text, c.StatementB.Page,
			c.ClarifyingQuestion,
		).Scan(&c.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert contradiction: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *ContradictionStore) ListByRFP(ctx context.Context, rfpID uuid.UUID, orgID uuid.UUID) ([]domain.Contradiction, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.rfp_id, c.type, c.description,
		        c.statement_a_text, c.statement_a_page, c.statement_b_text, c.statement_b_page,
		        c.clarifying_question, c.is_helpful, c.feedback_at, c.created_at
		 FROM contradictions c
		 JOIN rfp_documents r ON r.id = c.rfp_id
		 WHERE c.rfp_id = $1 AND r.org_id = $2
		 ORDER BY c.created_at`,
		rfpID, orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Contradiction
	for rows.Next() {
		var c domain.Contradiction
		if err := rows.Scan(
			&c.ID, &c.RFPID, &c.Type, &c.Description,
			&c.StatementA.Text, &c.StatementA.Page, &c.StatementB.Text, &c.StatementB.Page,
			&c.ClarifyingQuestion, &c.IsHelpful, &c.FeedbackAt, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (s *ContradictionStore) SetFeedback(ctx context.Context, id uuid.UUID, orgID uuid.UUID, isHelpful bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE contradictions c SET is_helpful = $3, feedback_at = NOW()
		 FROM rfp_documents r
		 WHERE c.id = $1 AND c.rfp_id = r.id AND r.org_id = $2`,
		id, orgID, isHelpful,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
