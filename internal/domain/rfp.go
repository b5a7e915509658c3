package domain

import (
	"time"

	"github.com/google/uuid"
)

type RFPStatus string

const (
	RFPStatusNew        RFPStatus = "new"
	RFPStatusProcessing RFPStatus = "processing"
	RFPStatusExtracted  RFPStatus = "extracted"
	RFPStatusReviewed   RFPStatus = "reviewed"
	RFPStatusGo         RFPStatus = "go"
	RFPStatusNoGo       RFPStatus = "no_go"
)

func ValidRFPStatus(s string) bool {
	switch RFPStatus(s) {
	case RFPStatusNew, RFPStatusProcessing, RFPStatusExtracted, RFPStatusReviewed, RFPStatusGo, RFPStatusNoGo:
		return true
	}
	return false
}

type RFPSource string

const (
	RFPSourcePDFUpload RFPSource = "pdf_upload"
	RFPSourceQuickScan RFPSource = "quick_scan"
)

func ValidRFPSource(s string) bool {
	switch RFPSource(s) {
	case RFPSourcePDFUpload, RFPSourceQuickScan:
		return true
	}
	return false
}

// RFPDocument is a solicitation under pursuit review. Extracted columns are
// filled in by the field extractor; each one is backed by an ExtractedField
// row carrying its source evidence.
type RFPDocument struct {
	ID       uuid.UUID `json:"id"`
	OrgID    uuid.UUID `json:"org_id,omitempty"`
	Source   RFPSource `json:"source"`
	Filename string    `json:"filename,omitempty"`
	Status   RFPStatus `json:"status"`

	RFPNumber        string `json:"rfp_number,omitempty"`
	ClientName       string `json:"client_name,omitempty"`
	OpportunityTitle string `json:"opportunity_title,omitempty"`

	ClientContactName  string `json:"client_contact_name,omitempty"`
	ClientContactEmail string `json:"client_contact_email,omitempty"`
	ClientContactPhone string `json:"client_contact_phone,omitempty"`
	ClientContactRole  string `json:"client_contact_role,omitempty"`

	// Dates are kept as the strings the oracle quoted from the document
	// (ISO where the source allowed it); parsing them further is a review
	// concern, not an extraction concern.
	PublishedDate      string `json:"published_date,omitempty"`
	QuestionDeadline   string `json:"question_deadline,omitempty"`
	SubmissionDeadline string `json:"submission_deadline,omitempty"`
	ContractDuration   string `json:"contract_duration,omitempty"`

	ScopeSummary string `json:"scope_summary,omitempty"`

	RequiredInternalDisciplines []string `json:"required_internal_disciplines,omitempty"`
	RequiredExternalDisciplines []string `json:"required_external_disciplines,omitempty"`

	EvaluationCriteria    map[string]any `json:"evaluation_criteria,omitempty"`
	ReferenceRequirements map[string]any `json:"reference_requirements,omitempty"`
	InsuranceRequirements map[string]any `json:"insurance_requirements,omitempty"`
	RiskFlags             []string       `json:"risk_flags,omitempty"`

	PagedText string    `json:"-"`
	PageCount int       `json:"page_count"`
	Embedding []float32 `json:"-"`

	DecisionNotes string     `json:"decision_notes,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExtractedField is one provenance-linked value pulled from a document.
// Nested schema objects explode into multiple flat fields (a contact block
// yields client_contact_name, client_contact_phone, ...).
type ExtractedField struct {
	ID          uuid.UUID  `json:"id"`
	RFPID       uuid.UUID  `json:"rfp_id"`
	FieldName   string     `json:"field_name"`
	Value       string     `json:"value"`
	SourcePage  *int       `json:"source_page,omitempty"`
	SourceText  string     `json:"source_text,omitempty"`
	Confidence  float32    `json:"confidence"`
	HumanEdited bool       `json:"human_edited"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
