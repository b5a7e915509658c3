package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pursuitworks/pursuit/internal/domain"
)

type ExtractionStore struct {
	db *pgxpool.Pool
}

func NewExtractionStore(db *pgxpool.Pool) *ExtractionStore {
	return &ExtractionStore{db: db}
}

// ReplaceForRFP swaps the evidence set for a document in one
// transaction, so a failed insert leaves the previous set in place.
func (s *ExtractionStore) ReplaceForRFP(ctx context.Context, rfpID uuid.UUID, fields []domain.ExtractedField) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM extractions WHERE rfp_id = $1`, rfpID); err != nil {
		return fmt.Errorf("delete previous evidence: %w", err)
	}

	for i := range fields {
		f := &fields[i]
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO extractions (id, rfp_id, field_name, value, source_page, source_text, confidence, human_edited)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING created_at`,
			f.ID, rfpID, f.FieldName, f.Value, f.SourcePage, f.SourceText, f.Confidence, f.HumanEdited,
		).Scan(&f.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert evidence %s: %w", f.FieldName, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *ExtractionStore) ListByRFP(ctx context.Context, rfpID uuid.UUID, orgID uuid.UUID) ([]domain.ExtractedField, error) {
	rows, err := s.db.Query(ctx,
		`SELECT e.id, e.rfp_id, e.field_name, e.value, e.source_page, e.source_text,
		        e.confidence, e.human_edited, e.verified_at, e.created_at
		 FROM extractions e
		 JOIN rfp_documents r ON r.id = e.rfp_id
		 WHERE e.rfp_id = $1 AND r.org_id = $2
		 ORDER BY e.field_name`,
		rfpID, orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExtractedFields(rows)
}

func (s *ExtractionStore) GetByFieldName(ctx context.Context, rfpID uuid.UUID, orgID uuid.UUID, fieldName string) ([]domain.ExtractedField, error) {
	rows, err := s.db.Query(ctx,
		`SELECT e.id, e.rfp_id, e.field_name, e.value, e.source_page, e.source_text,
		        e.confidence, e.human_edited, e.verified_at, e.created_at
		 FROM extractions e
		 JOIN rfp_documents r ON r.id = e.rfp_id
		 WHERE e.rfp_id = $1 AND r.org_id = $2 AND e.field_name = $3`,
		rfpID, orgID, fieldName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExtractedFields(rows)
}

func scanExtractedFields(rows pgx.Rows) ([]domain.ExtractedField, error) {
	var results []domain.ExtractedField
	for rows.Next() {
		var f domain.ExtractedField
		if err := rows.Scan(
			&f.ID, &f.RFPID, &f.FieldName, &f.Value, &f.SourcePage, &f.SourceText,
			&f.Confidence, &f.HumanEdited, &f.VerifiedAt, &f.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, f)
	}
	return results, rows.Err()
}
