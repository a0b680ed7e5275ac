package rules

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassifier(t *testing.T) {
	index := NewIndex([]Rule{
		{Fragment: "starbucks", Category: model.CategoryFoodDining},
		{Fragment: "amazon", Category: model.CategoryShopping},
	})
	classifier := NewClassifier(index, testLogger())

	t.Run("rule hit", func(t *testing.T) {
		txn := model.Transaction{
			ID:     "txn-0000",
			Date:   time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			Name:   "STARBUCKS #4521 SEATTLE WA",
			Amount: -6.45,
		}

		result, ok := classifier.Classify(txn)
		require.True(t, ok)
		assert.Equal(t, "txn-0000", result.TransactionID)
		assert.Equal(t, model.CategoryFoodDining, result.Category)
		assert.Equal(t, model.SourceRule, result.Source)
		assert.InDelta(t, model.RuleConfidence, result.Confidence, 0.0001)
		assert.Contains(t, result.Rationale, "starbucks")
	})

	t.Run("miss is not an error", func(t *testing.T) {
		txn := model.Transaction{ID: "txn-0001", Name: "SQ *MYSTERY SHOP 99"}

		_, ok := classifier.Classify(txn)
		assert.False(t, ok)
	})

	t.Run("total on malformed descriptions", func(t *testing.T) {
		// Any garbage routes onward as a miss rather than panicking.
		for _, name := range []string{"", "   ", "####", "\x00\x01", "9999999999"} {
			_, ok := classifier.Classify(model.Transaction{ID: "x", Name: name})
			assert.False(t, ok, "description %q", name)
		}
	})
}
