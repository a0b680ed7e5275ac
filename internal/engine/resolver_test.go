package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/model"
)

func TestResolve(t *testing.T) {
	txns := []model.Transaction{
		{ID: "txn-0000", Name: "STARBUCKS"},
		{ID: "txn-0001", Name: "SQ *MYSTERY SHOP 99"},
		{ID: "txn-0002", Name: "UNKNOWN VENDOR"},
	}

	resolved := []model.CategorizationResult{
		{TransactionID: "txn-0000", Category: model.CategoryFoodDining, Confidence: model.RuleConfidence, Source: model.SourceRule},
	}

	inferred := map[string]model.CategorizationResult{
		"txn-0001": {TransactionID: "txn-0001", Category: model.CategoryFoodDining, Confidence: 0.8, Source: model.SourceInference},
	}

	results := Resolve(txns, resolved, inferred)
	require.Len(t, results, 3)

	// Input order, one result per transaction.
	assert.Equal(t, "txn-0000", results[0].TransactionID)
	assert.Equal(t, "txn-0001", results[1].TransactionID)
	assert.Equal(t, "txn-0002", results[2].TransactionID)

	// Deterministic result used unchanged.
	assert.Equal(t, model.SourceRule, results[0].Source)
	assert.InDelta(t, model.RuleConfidence, results[0].Confidence, 0.0001)

	// Inference result honored.
	assert.Equal(t, model.SourceInference, results[1].Source)
	assert.InDelta(t, 0.8, results[1].Confidence, 0.0001)

	// Everything else falls back to the sentinel.
	assert.Equal(t, model.CategoryUncategorized, results[2].Category)
	assert.Equal(t, model.SourceFallback, results[2].Source)
	assert.InDelta(t, model.FallbackConfidence, results[2].Confidence, 0.0001)
}

func TestResolveTotalOutage(t *testing.T) {
	txns := []model.Transaction{
		{ID: "a", Name: "ONE"},
		{ID: "b", Name: "TWO"},
	}

	results := Resolve(txns, nil, nil)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, model.CategoryUncategorized, r.Category)
		assert.Equal(t, model.SourceFallback, r.Source)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	results := Resolve(nil, nil, nil)
	assert.Empty(t, results)
}
