package rules

import (
	"fmt"
	"log/slog"

	"github.com/spendlens/spendlens/internal/model"
)

// Classifier applies the merchant rule index to transactions. It is total:
// any description, however malformed, is either a hit or a miss, never an
// error.
type Classifier struct {
	index  *Index
	logger *slog.Logger
}

// NewClassifier creates a deterministic classifier over the given index.
func NewClassifier(index *Index, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{index: index, logger: logger}
}

// Classify looks the transaction description up in the rule index. A miss
// is an expected outcome routed onward to inference; ok reports whether a
// rule matched.
func (c *Classifier) Classify(txn model.Transaction) (model.CategorizationResult, bool) {
	category, fragment, ok := c.index.Lookup(txn.Name)
	if !ok {
		return model.CategorizationResult{}, false
	}

	c.logger.Debug("rule hit",
		"transaction_id", txn.ID,
		"fragment", fragment,
		"category", category)

	return model.CategorizationResult{
		TransactionID: txn.ID,
		Category:      category,
		Confidence:    model.RuleConfidence,
		Source:        model.SourceRule,
		Rationale:     fmt.Sprintf("matched merchant fragment %q", fragment),
	}, true
}
