package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/domain"
	"github.com/pursuitworks/pursuit/internal/llm"
)

// extractionConfidence is assigned to every field produced by a single
// oracle pass. Per-field calibration would require a second scoring
// pass, which is not worth the tokens.
const extractionConfidence = 0.9

// ExtractionResult carries the flattened evidence rows plus the token
// usage of the oracle call that produced them.
type ExtractionResult struct {
	Fields       []domain.ExtractedField
	InputTokens  int
	OutputTokens int
}

// ExtractionService turns the paged text of an RFP document into
// structured evidence fields via one oracle call.
type ExtractionService struct {
	oracle   domain.OracleClient
	maxChars int
	logger   *zap.Logger
}

func NewExtractionService(oracle domain.OracleClient, maxChars int, logger *zap.Logger) (*ExtractionService, error) {
	if err := validateFieldSchema(); err != nil {
		return nil, fmt.Errorf("field schema: %w", err)
	}
	if maxChars <= 0 {
		maxChars = llm.DefaultMaxDocumentChars
	}
	return &ExtractionService{
		oracle:   oracle,
		maxChars: maxChars,
		logger:   logger,
	}, nil
}

// Extract runs the extraction prompt over pagedText and flattens the
// reply into evidence fields. Fields the oracle returns that are not in
// the schema, carry a null value, or cite a page outside
// [1, pageCount] are dropped with a log line rather than failing the
// whole pass.
func (s *ExtractionService) Extract(ctx context.Context, pagedText string, pageCount int) (*ExtractionResult, error) {
	system, user := llm.BuildExtractionPrompt(pagedText, s.maxChars)

	resp, err := s.oracle.Complete(ctx, domain.OracleRequest{
		SystemInstruction: system,
		UserPrompt:        user,
		MaxOutputTokens:   llm.MaxOutputTokens,
	})
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFence(resp.Text)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &domain.MalformedResponseError{
			Err: fmt.Errorf("extraction reply is not a JSON object: %w", err),
			Raw: resp.Text,
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]domain.ExtractedField, 0, len(keys))
	for _, key := range keys {
		spec, ok := fieldSchema[key]
		if !ok {
			s.logger.Debug("dropping unmapped extraction key", zap.String("field", key))
			continue
		}

		var fv fieldValue
		if err := json.Unmarshal(raw[key], &fv); err != nil {
			s.logger.Warn("dropping malformed extraction field",
				zap.String("field", key),
				zap.Error(err))
			continue
		}

		if fv.SourcePage != nil && (*fv.SourcePage < 1 || *fv.SourcePage > pageCount) {
			s.logger.Warn("dropping extraction field with out-of-range source page",
				zap.String("field", key),
				zap.Int("source_page", *fv.SourcePage),
				zap.Int("page_count", pageCount))
			continue
		}

		fields = append(fields, s.flatten(key, spec, fv)...)
	}

	return &ExtractionResult{
		Fields:       fields,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}, nil
}

// flatten converts one schema entry into zero or more evidence fields.
// Null values yield nothing.
func (s *ExtractionService) flatten(key string, spec fieldSpec, fv fieldValue) []domain.ExtractedField {
	if isJSONNull(fv.Value) {
		return nil
	}

	switch spec.kind {
	case kindScalar:
		value, ok := scalarString(fv.Value)
		if !ok {
			s.logger.Warn("dropping non-scalar value for scalar field", zap.String("field", key))
			return nil
		}
		return []domain.ExtractedField{newField(key, value, fv)}

	case kindStringList:
		var list []string
		if err := json.Unmarshal(fv.Value, &list); err != nil {
			s.logger.Warn("dropping non-list value for list field",
				zap.String("field", key),
				zap.Error(err))
			return nil
		}
		return []domain.ExtractedField{newField(key, string(fv.Value), fv)}

	case kindJSON:
		return []domain.ExtractedField{newField(key, string(fv.Value), fv)}

	case kindObject:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(fv.Value, &obj); err != nil {
			s.logger.Warn("dropping non-object value for object field",
				zap.String("field", key),
				zap.Error(err))
			return nil
		}

		childKeys := make([]string, 0, len(spec.children))
		for k := range spec.children {
			childKeys = append(childKeys, k)
		}
		sort.Strings(childKeys)

		var out []domain.ExtractedField
		for _, childKey := range childKeys {
			rawChild, present := obj[childKey]
			if !present || isJSONNull(rawChild) {
				continue
			}
			value, ok := scalarString(rawChild)
			if !ok {
				s.logger.Warn("dropping non-scalar nested value",
					zap.String("field", key),
					zap.String("child", childKey))
				continue
			}
			out = append(out, newField(spec.children[childKey], value, fv))
		}
		return out
	}

	return nil
}

func newField(name, value string, fv fieldValue) domain.ExtractedField {
	return domain.ExtractedField{
		FieldName:  name,
		Value:      value,
		SourcePage: fv.SourcePage,
		SourceText: fv.SourceText,
		Confidence: extractionConfidence,
	}
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// scalarString renders a JSON scalar as a string. Quoted strings are
// unquoted; numbers and booleans keep their JSON text. Arrays and
// objects are rejected.
func scalarString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '[', '{':
		return "", false
	default:
		return string(trimmed), true
	}
}
