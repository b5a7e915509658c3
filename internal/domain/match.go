package domain

// MatchTarget is what an RFP offers the matching engine: its title and the
// scope text a previous extraction produced.
type MatchTarget struct {
	Title     string `json:"title"`
	ScopeText string `json:"scope_text"`
}

// MatchResult scores one budget line item against a target. Results are a
// query-time projection: recomputed on every match request, never persisted.
type MatchResult struct {
	Item       *BudgetLineItem `json:"item"`
	Confidence float64         `json:"confidence"`
	Reason     string          `json:"reason"`
}
