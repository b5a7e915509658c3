package service

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/domain"
)

// Confidence weights. Keyword overlap dominates because the vocabulary
// was chosen for this domain; the two edit-ratio terms catch renames.
const (
	keywordWeight = 0.4
	descWeight    = 0.3
	titleWeight   = 0.3

	// matchThreshold discards noise matches; results must score strictly
	// above it.
	matchThreshold = 0.1

	// maxReasonTerms caps the shared keywords quoted in a match reason.
	maxReasonTerms = 5
)

// MatchingService scores an RFP against capital budget line items. It
// is fully deterministic and makes no external calls.
type MatchingService struct {
	logger *zap.Logger
}

func NewMatchingService(logger *zap.Logger) *MatchingService {
	return &MatchingService{logger: logger}
}

// Match ranks items against the target. Results are sorted by
// descending confidence with candidate order preserved on ties, and
// never include matches at or below the threshold.
func (s *MatchingService) Match(target domain.MatchTarget, items []domain.BudgetLineItem) []domain.MatchResult {
	targetKeywords := keywordSet(target.Title + " " + target.ScopeText)

	results := make([]domain.MatchResult, 0, len(items))
	for i := range items {
		item := &items[i]
		itemKeywords := keywordSet(item.ProjectName + " " + item.Description)

		shared := sharedTerms(targetKeywords, itemKeywords)
		overlap := float64(len(shared)) / math.Max(float64(len(targetKeywords)), 1)

		descSim := editRatio(target.ScopeText, item.Description)
		titleSim := editRatio(target.Title, item.ProjectName)

		confidence := round3(keywordWeight*overlap + descWeight*descSim + titleWeight*titleSim)
		if confidence <= matchThreshold {
			continue
		}

		results = append(results, domain.MatchResult{
			Item:       item,
			Confidence: confidence,
			Reason:     matchReason(shared, descSim, titleSim),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	s.logger.Debug("matched budget line items",
		zap.Int("candidates", len(items)),
		zap.Int("matches", len(results)))
	return results
}

// sharedTerms returns the sorted intersection of two keyword sets.
// Sorting keeps reasons stable across runs.
func sharedTerms(a, b map[string]struct{}) []string {
	var shared []string
	for term := range a {
		if _, ok := b[term]; ok {
			shared = append(shared, term)
		}
	}
	sort.Strings(shared)
	return shared
}

func matchReason(shared []string, descSim, titleSim float64) string {
	switch {
	case len(shared) > 0:
		if len(shared) > maxReasonTerms {
			shared = shared[:maxReasonTerms]
		}
		return "Matching keywords: " + strings.Join(shared, ", ")
	case descSim > 0.3:
		return "Similar project description"
	case titleSim > 0.3:
		return "Similar project name"
	default:
		return "Partial match"
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
