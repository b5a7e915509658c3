package service

import (
	"encoding/json"
	"fmt"
)

// fieldKind describes how a raw extracted value is normalized before it
// is flattened into evidence rows and document columns.
type fieldKind int

const (
	// kindScalar stores the value as a plain string (numbers and booleans
	// are rendered with their JSON text).
	kindScalar fieldKind = iota
	// kindStringList stores a JSON array of strings verbatim.
	kindStringList
	// kindObject explodes a nested object into child fields using the
	// children map (raw key -> exploded field name).
	kindObject
	// kindJSON stores the raw JSON value as-is.
	kindJSON
)

type fieldSpec struct {
	kind     fieldKind
	children map[string]string
}

// fieldSchema maps the keys of the extraction reply to evidence field
// names. Keys absent from this table are dropped. The client_contact
// object is exploded into client_contact_* fields; nulls inside it are
// skipped rather than recorded as empty strings.
var fieldSchema = map[string]fieldSpec{
	"client_name":                   {kind: kindScalar},
	"rfp_number":                    {kind: kindScalar},
	"opportunity_title":             {kind: kindScalar},
	"published_date":                {kind: kindScalar},
	"question_deadline":             {kind: kindScalar},
	"submission_deadline":           {kind: kindScalar},
	"contract_duration":             {kind: kindScalar},
	"scope_summary":                 {kind: kindScalar},
	"required_internal_disciplines": {kind: kindStringList},
	"required_external_disciplines": {kind: kindStringList},
	"risk_flags":                    {kind: kindStringList},
	"evaluation_criteria":           {kind: kindJSON},
	"reference_requirements":        {kind: kindJSON},
	"insurance_requirements":        {kind: kindJSON},
	"client_contact": {
		kind: kindObject,
		children: map[string]string{
			"name":  "client_contact_name",
			"email": "client_contact_email",
			"phone": "client_contact_phone",
			"role":  "client_contact_role",
		},
	},
}

// fieldValue is the per-field envelope the extraction prompt asks for.
type fieldValue struct {
	Value      json.RawMessage `json:"value"`
	SourcePage *int            `json:"source_page"`
	SourceText string          `json:"source_text"`
}

// validateFieldSchema guards against a malformed schema table. Called
// once from the extraction service constructor.
func validateFieldSchema() error {
	for name, spec := range fieldSchema {
		if spec.kind == kindObject && len(spec.children) == 0 {
			return fmt.Errorf("field %q declared as object but has no children", name)
		}
		if spec.kind != kindObject && spec.children != nil {
			return fmt.Errorf("field %q has children but is not an object", name)
		}
	}
	return nil
}
