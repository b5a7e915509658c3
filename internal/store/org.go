package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pursuitworks/pursuit/internal/domain"
)

type OrgStore struct {
	db *pgxpool.Pool
}

func NewOrgStore(db *pgxpool.Pool) *OrgStore {
	return &OrgStore{db: db}
}

func (s *OrgStore) Create(ctx context.Context, o *domain.Org) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO orgs (name, api_key_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		o.Name, o.APIKeyHash,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (s *OrgStore) GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.Org, error) {
	var o domain.Org
	err := s.db.QueryRow(ctx,
		`SELECT id, name, api_key_hash, created_at, updated_at
		 FROM orgs WHERE api_key_hash = $1`,
		apiKeyHash,
	).Scan(&o.ID, &o.Name, &o.APIKeyHash, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
