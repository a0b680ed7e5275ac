package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scenarioTransactions() []model.Transaction {
	return []model.Transaction{
		{ID: "txn-0000", Name: "STARBUCKS #4521 SEATTLE WA", Amount: -6.45},
		{ID: "txn-0001", Name: "SQ *MYSTERY SHOP 99", Amount: -23.10},
		{ID: "txn-0002", Name: "AMAZON.COM*XY123", Amount: -54.99},
	}
}

func TestCategorizeHybridScenario(t *testing.T) {
	mock := &MockInferencer{
		Results: map[string]model.CategorizationResult{
			"txn-0001": {Category: model.CategoryFoodDining, Confidence: 0.8, Source: model.SourceInference},
		},
	}

	eng, err := New(testClassifier(), mock, testLogger())
	require.NoError(t, err)

	results, stats, err := eng.Categorize(context.Background(), scenarioTransactions())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, model.CategoryFoodDining, results[0].Category)
	assert.Equal(t, model.SourceRule, results[0].Source)
	assert.Equal(t, model.CategoryFoodDining, results[1].Category)
	assert.Equal(t, model.SourceInference, results[1].Source)
	assert.Equal(t, model.CategoryShopping, results[2].Category)
	assert.Equal(t, model.SourceRule, results[2].Source)

	for _, r := range results {
		assert.NotEqual(t, model.CategoryUncategorized, r.Category)
	}

	assert.Equal(t, model.RunStats{
		Total:         3,
		ByRule:        2,
		ByInference:   1,
		BatchesIssued: 1,
	}, stats)
	assert.False(t, stats.Degraded())
	assert.Equal(t, 1, mock.CallCount())
}

func TestCategorizeFallbackOnOutage(t *testing.T) {
	mock := &MockInferencer{Err: errors.New("service unreachable")}

	eng, err := New(testClassifier(), mock, testLogger())
	require.NoError(t, err)

	results, stats, err := eng.Categorize(context.Background(), scenarioTransactions())
	require.NoError(t, err, "inference outage must not surface as a hard failure")
	require.Len(t, results, 3)

	// Deterministic results unaffected.
	assert.Equal(t, model.SourceRule, results[0].Source)
	assert.Equal(t, model.SourceRule, results[2].Source)

	// The unresolved transaction falls back.
	assert.Equal(t, model.CategoryUncategorized, results[1].Category)
	assert.Equal(t, model.SourceFallback, results[1].Source)
	assert.InDelta(t, model.FallbackConfidence, results[1].Confidence, 0.0001)

	assert.Equal(t, 1, stats.BatchesIssued)
	assert.Equal(t, 1, stats.BatchesFailed)
	assert.True(t, stats.Degraded())
}

func TestCategorizeIdempotent(t *testing.T) {
	mock := &MockInferencer{
		Results: map[string]model.CategorizationResult{
			"txn-0001": {Category: model.CategoryFoodDining, Confidence: 0.8, Source: model.SourceInference},
		},
	}

	eng, err := New(testClassifier(), mock, testLogger())
	require.NoError(t, err)

	first, firstStats, err := eng.Categorize(context.Background(), scenarioTransactions())
	require.NoError(t, err)
	second, secondStats, err := eng.Categorize(context.Background(), scenarioTransactions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstStats, secondStats)
}

func TestCategorizeEmptyInput(t *testing.T) {
	eng, err := New(testClassifier(), &MockInferencer{}, testLogger())
	require.NoError(t, err)

	results, stats, err := eng.Categorize(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, model.RunStats{}, stats)
}

func TestCategorizeSplitsOversizedBatches(t *testing.T) {
	var txns []model.Transaction
	expected := make(map[string]model.CategorizationResult)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("txn-%04d", i)
		txns = append(txns, model.Transaction{ID: id, Name: fmt.Sprintf("UNKNOWN MERCHANT %d", i)})
		expected[id] = model.CategorizationResult{Category: model.CategoryOther, Confidence: 0.6, Source: model.SourceInference}
	}

	mock := &MockInferencer{Results: expected}
	eng, err := NewWithConfig(testClassifier(), mock, testLogger(), Config{BatchSize: 2})
	require.NoError(t, err)

	results, stats, err := eng.Categorize(context.Background(), txns)
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.Equal(t, []int{2, 2, 1}, mock.BatchSizes)
	assert.Equal(t, 3, stats.BatchesIssued)
	assert.Equal(t, 5, stats.ByInference)
}

func TestCategorizePartialBatchFailure(t *testing.T) {
	// The mock resolves only some transactions; the rest are inference
	// misses and must fall back individually, not fail the batch.
	txns := []model.Transaction{
		{ID: "txn-0000", Name: "UNKNOWN ONE"},
		{ID: "txn-0001", Name: "UNKNOWN TWO"},
	}
	mock := &MockInferencer{
		Results: map[string]model.CategorizationResult{
			"txn-0000": {Category: model.CategoryOther, Confidence: 0.55, Source: model.SourceInference},
		},
	}

	eng, err := New(testClassifier(), mock, testLogger())
	require.NoError(t, err)

	results, stats, err := eng.Categorize(context.Background(), txns)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, model.SourceInference, results[0].Source)
	assert.Equal(t, model.SourceFallback, results[1].Source)
	assert.Equal(t, 0, stats.BatchesFailed)
	assert.True(t, stats.Degraded(), "a fallback result marks the run degraded")
}

func TestCategorizeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &MockInferencer{
		Results: map[string]model.CategorizationResult{
			"txn-0001": {Category: model.CategoryFoodDining, Confidence: 0.8, Source: model.SourceInference},
		},
	}

	eng, err := New(testClassifier(), mock, testLogger())
	require.NoError(t, err)

	results, stats, err := eng.Categorize(ctx, scenarioTransactions())
	require.NoError(t, err, "cancellation still yields a complete result set")
	require.Len(t, results, 3)

	assert.Equal(t, model.SourceRule, results[0].Source)
	assert.Equal(t, model.SourceFallback, results[1].Source)
	assert.Equal(t, model.SourceRule, results[2].Source)
	assert.True(t, stats.Degraded())
	assert.Equal(t, 0, mock.CallCount(), "no batch is issued after cancellation")
}

func TestCategorizeNilInferencer(t *testing.T) {
	eng, err := New(testClassifier(), nil, testLogger())
	require.NoError(t, err)

	results, stats, err := eng.Categorize(context.Background(), scenarioTransactions())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, model.SourceFallback, results[1].Source)
	assert.Equal(t, 0, stats.BatchesIssued)
}

func TestNewRequiresClassifier(t *testing.T) {
	_, err := New(nil, &MockInferencer{}, testLogger())
	assert.Error(t, err)
}
