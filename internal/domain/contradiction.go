package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContradictionType string

const (
	ContradictionNumerical ContradictionType = "numerical"
	ContradictionTimeline  ContradictionType = "timeline"
	ContradictionScope     ContradictionType = "scope"
)

func ValidContradictionType(t string) bool {
	switch ContradictionType(t) {
	case ContradictionNumerical, ContradictionTimeline, ContradictionScope:
		return true
	}
	return false
}

// ParseContradictionType maps an oracle-reported type string onto the closed
// set. Anything unrecognized becomes scope rather than an error.
func ParseContradictionType(t string) ContradictionType {
	if ValidContradictionType(t) {
		return ContradictionType(t)
	}
	return ContradictionScope
}

// Statement is one side of a contradiction, quoted with its source page.
type Statement struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

// Contradiction is a pair of statements in the same document that conflict
// on a number, date, or scope claim. Feedback fields are set later by a
// human reviewer, independently of detection.
type Contradiction struct {
	ID                 uuid.UUID         `json:"id"`
	RFPID              uuid.UUID         `json:"rfp_id"`
	Type               ContradictionType `json:"type"`
	Description        string            `json:"description"`
	StatementA         Statement         `json:"statement_a"`
	StatementB         Statement         `json:"statement_b"`
	ClarifyingQuestion string            `json:"clarifying_question"`
	IsHelpful          *bool             `json:"is_helpful,omitempty"`
	FeedbackAt         *time.Time        `json:"feedback_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}
