package model

// ResultSource indicates which path categorized a transaction.
type ResultSource string

// Result source constants.
const (
	SourceRule      ResultSource = "rule"
	SourceInference ResultSource = "inference"
	SourceFallback  ResultSource = "fallback"
)

// Fixed confidence constants. Rule hits are deterministic rather than
// probabilistic, so their confidence is a constant, as is the low
// confidence attached to fallback results.
const (
	RuleConfidence     = 0.95
	FallbackConfidence = 0.30
)

// CategorizationResult relates one transaction to one category label.
// Exactly one result exists per transaction in a completed run.
type CategorizationResult struct {
	TransactionID string
	Category      CategoryLabel
	Source        ResultSource
	Rationale     string
	Confidence    float64
}

// RunStats summarizes a categorization run for cost and accuracy reporting.
type RunStats struct {
	Total         int
	ByRule        int
	ByInference   int
	ByFallback    int
	BatchesIssued int
	BatchesFailed int
}

// Degraded reports whether any transaction ended up on the fallback path or
// any inference batch failed outright.
func (s RunStats) Degraded() bool {
	return s.ByFallback > 0 || s.BatchesFailed > 0
}
