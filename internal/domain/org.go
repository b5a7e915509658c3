package domain

import (
	"time"

	"github.com/google/uuid"
)

// Org is a consulting firm using the platform. Every persisted row is scoped
// to an org; API keys are stored hashed.
type Org struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
