package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pursuitworks/pursuit/internal/domain"
)

type RFPStore struct {
	db *pgxpool.Pool
}

func NewRFPStore(db *pgxpool.Pool) *RFPStore {
	return &RFPStore{db: db}
}

const rfpColumns = `id, org_id, source, filename, status,
	rfp_number, client_name, opportunity_title,
	client_contact_name, client_contact_email, client_contact_phone, client_contact_role,
	published_date, question_deadline, submission_deadline, contract_duration,
	scope_summary, required_internal_disciplines, required_external_disciplines,
	evaluation_criteria, reference_requirements, insurance_requirements, risk_flags,
	paged_text, page_count, decision_notes, decided_at, created_at, updated_at`

func (s *RFPStore) Create(ctx context.Context, r *domain.RFPDocument) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO rfp_documents (id, org_id, source, filename, status, paged_text, page_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		r.ID, r.OrgID, r.Source, r.Filename, r.Status, r.PagedText, r.PageCount,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
}

func (s *RFPStore) GetByID(ctx context.Context, id uuid.UUID, orgID uuid.UUID) (*domain.RFPDocument, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+rfpColumns+` FROM rfp_documents WHERE id = $1 AND org_id = $2`,
		id, orgID,
	)
	doc, err := scanRFP(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *RFPStore) List(ctx context.Context, orgID uuid.UUID) ([]domain.RFPDocument, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+rfpColumns+` FROM rfp_documents WHERE org_id = $1 ORDER BY created_at DESC`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.RFPDocument
	for rows.Next() {
		doc, err := scanRFP(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *doc)
	}
	return results, rows.Err()
}

func (s *RFPStore) Update(ctx context.Context, r *domain.RFPDocument) error {
	internalJSON, err := json.Marshal(r.RequiredInternalDisciplines)
	if err != nil {
		return fmt.Errorf("marshal required_internal_disciplines: %w", err)
	}
	externalJSON, err := json.Marshal(r.RequiredExternalDisciplines)
	if err != nil {
		return fmt.Errorf("marshal required_external_disciplines: %w", err)
	}
	riskJSON, err := json.Marshal(r.RiskFlags)
	if err != nil {
		return fmt.Errorf("marshal risk_flags: %w", err)
	}
	evalJSON, err := json.Marshal(r.EvaluationCriteria)
	if err != nil {
		return fmt.Errorf("marshal evaluation_criteria: %w", err)
	}
	refJSON, err := json.Marshal(r.ReferenceRequirements)
	if err != nil {
		return fmt.Errorf("marshal reference_requirements: %w", err)
	}
	insJSON, err := json.Marshal(r.InsuranceRequirements)
	if err != nil {
		return fmt.Errorf("marshal insurance_requirements: %w", err)
	}

	var embedding *pgvector.Vector
	if len(r.Embedding) > 0 {
		v := pgvector.NewVector(r.Embedding)
		embedding = &v
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE rfp_documents SET
			status = $3, rfp_number = $4, client_name = $5, opportunity_title = $6,
			client_contact_name = $7, client_contact_email = $8, client_contact_phone = $9, client_contact_role = $10,
			published_date = $11, question_deadline = $12, submission_deadline = $13, contract_duration = $14,
			scope_summary = $15, required_internal_disciplines = $16, required_external_disciplines = $17,
			evaluation_criteria = $18, reference_requirements = $19, insurance_requirements = $20, risk_flags = $21,
			embedding = $22, decision_notes = $23, decided_at = $24, updated_at = NOW()
		 WHERE id = $1 AND org_id = $2`,
		r.ID, r.OrgID,
		r.Status, r.RFPNumber, r.ClientName, r.OpportunityTitle,
		r.ClientContactName, r.ClientContactEmail, r.ClientContactPhone, r.ClientContactRole,
		r.PublishedDate, r.QuestionDeadline, r.SubmissionDeadline, r.ContractDuration,
		r.ScopeSummary, internalJSON, externalJSON,
		evalJSON, refJSON, insJSON, riskJSON,
		embedding, r.DecisionNotes, r.DecidedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RFPStore) UpdateStatus(ctx context.Context, id uuid.UUID, orgID uuid.UUID, status domain.RFPStatus) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE rfp_documents SET status = $3, updated_at = NOW()
		 WHERE id = $1 AND org_id = $2`,
		id, orgID, status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRFP(row pgx.Row) (*domain.RFPDocument, error) {
	doc := &domain.RFPDocument{}
	var internalJSON, externalJSON, evalJSON, refJSON, insJSON, riskJSON []byte

	err := row.Scan(
		&doc.ID, &doc.OrgID, &doc.Source, &doc.Filename, &doc.Status,
		&doc.RFPNumber, &doc.ClientName, &doc.OpportunityTitle,
		&doc.ClientContactName, &doc.ClientContactEmail, &doc.ClientContactPhone, &doc.ClientContactRole,
		&doc.PublishedDate, &doc.QuestionDeadline, &doc.SubmissionDeadline, &doc.ContractDuration,
		&doc.ScopeSummary, &internalJSON, &externalJSON,
		&evalJSON, &refJSON, &insJSON, &riskJSON,
		&doc.PagedText, &doc.PageCount, &doc.DecisionNotes, &doc.DecidedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{internalJSON, &doc.RequiredInternalDisciplines},
		{externalJSON, &doc.RequiredExternalDisciplines},
		{evalJSON, &doc.EvaluationCriteria},
		{refJSON, &doc.ReferenceRequirements},
		{insJSON, &doc.InsuranceRequirements},
		{riskJSON, &doc.RiskFlags},
	} {
		if len(col.raw) > 0 {
			if err := json.Unmarshal(col.raw, col.dst); err != nil {
				return nil, fmt.Errorf("unmarshal rfp json column: %w", err)
			}
		}
	}
	return doc, nil
}
