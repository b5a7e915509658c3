package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pursuitworks/pursuit/internal/domain"
)

func TestMatchIdenticalStrings(t *testing.T) {
	svc := NewMatchingService(testLogger())

	target := domain.MatchTarget{
		Title:     "Main Street Reconstruction",
		ScopeText: "Road reconstruction on Main Street",
	}
	items := []domain.BudgetLineItem{{
		ProjectName: "Main Street Reconstruction",
		Description: "Road reconstruction on Main Street",
	}}

	results := svc.Match(target, items)
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Confidence)
	assert.True(t, strings.HasPrefix(results[0].Reason, "Matching keywords:"), "reason = %q", results[0].Reason)
}

func TestMatchMainStreetScenario(t *testing.T) {
	svc := NewMatchingService(testLogger())

	target := domain.MatchTarget{
		Title:     "Main Street Reconstruction",
		ScopeText: "Road reconstruction on Main Street with sewer and water main replacement",
	}
	items := []domain.BudgetLineItem{{
		ProjectName: "Main Street Reconstruction – Water/Sewer",
		Description: "Reconstruction of Main Street including sanitary and water main renewal",
	}}

	results := svc.Match(target, items)
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Confidence, 0.5)
	for _, kw := range []string{"reconstruction", "water", "sewer"} {
		assert.Contains(t, results[0].Reason, kw)
	}
}

func TestMatchResultsSortedAndThresholded(t *testing.T) {
	svc := NewMatchingService(testLogger())

	target := domain.MatchTarget{
		Title:     "Speed River Bridge Rehabilitation",
		ScopeText: "Structural rehabilitation of the Speed River bridge deck",
	}
	items := []domain.BudgetLineItem{
		{ProjectName: "Downtown Parking Study", Description: "zoning review"},
		{ProjectName: "Speed River Bridge Rehabilitation", Description: "Rehabilitation of the Speed River bridge deck"},
		{ProjectName: "Bridge Deck Repairs", Description: "Annual bridge deck repair program"},
	}

	results := svc.Match(target, items)
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Confidence, results[i].Confidence)
	}
	for _, r := range results {
		assert.Greater(t, r.Confidence, 0.1)
	}
	assert.Equal(t, "Speed River Bridge Rehabilitation", results[0].Item.ProjectName)
}

func TestMatchReasonCapsSharedTerms(t *testing.T) {
	svc := NewMatchingService(testLogger())

	text := "road street highway bridge culvert water sewer storm drainage"
	results := svc.Match(
		domain.MatchTarget{Title: text, ScopeText: text},
		[]domain.BudgetLineItem{{ProjectName: text, Description: text}},
	)
	require.Len(t, results, 1)

	terms := strings.Split(strings.TrimPrefix(results[0].Reason, "Matching keywords: "), ", ")
	assert.LessOrEqual(t, len(terms), 5)
	assert.True(t, sortedStrings(terms), "reason terms not sorted: %v", terms)
}

func TestMatchTiesKeepCandidateOrder(t *testing.T) {
	svc := NewMatchingService(testLogger())

	// Two identical candidates score identically; the stable sort must
	// keep their input order.
	item := domain.BudgetLineItem{
		ProjectName: "Trail Network Expansion",
		Description: "New trail construction in the east end",
	}
	first, second := item, item
	first.ProjectID = "TR-001"
	second.ProjectID = "TR-002"

	results := svc.Match(domain.MatchTarget{
		Title:     "Trail Expansion",
		ScopeText: "trail construction",
	}, []domain.BudgetLineItem{first, second})

	require.Len(t, results, 2)
	assert.Equal(t, "TR-001", results[0].Item.ProjectID)
	assert.Equal(t, "TR-002", results[1].Item.ProjectID)
}

func TestMatchEmptyTarget(t *testing.T) {
	svc := NewMatchingService(testLogger())

	results := svc.Match(domain.MatchTarget{}, []domain.BudgetLineItem{
		{ProjectName: "Main Street Reconstruction", Description: "road work"},
	})
	assert.Empty(t, results)
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}
