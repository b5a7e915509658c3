package domain

import "fmt"

// IngestionError means a document could not be opened or parsed.
// It is fatal for that document; no partial text is ever returned alongside it.
type IngestionError struct {
	Err error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed: %v", e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// ServiceError means the extraction oracle was unreachable, rejected the
// call, or the call was cancelled. Callers may retry; the pipeline does not.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("oracle call failed: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// MalformedResponseError means the oracle replied but the content could not
// be parsed against the expected schema. Raw keeps the full reply so a human
// or an automated re-prompt can inspect what came back.
type MalformedResponseError struct {
	Err error
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed oracle response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ValidationError means a parsed value violates an invariant (confidence out
// of range, an unmapped nested key, a source page outside the document). The
// offending field is dropped, never fabricated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}
