package engine

import (
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/rules"
)

// Route applies the deterministic classifier to every transaction,
// partitioning the input into resolved results and an unresolved remainder.
// Both partitions preserve the original order, are disjoint, and together
// cover the input exactly. Route never invokes inference.
func Route(classifier *rules.Classifier, txns []model.Transaction) (resolved []model.CategorizationResult, unresolved []model.Transaction) {
	resolved = make([]model.CategorizationResult, 0, len(txns))
	unresolved = make([]model.Transaction, 0)

	for _, txn := range txns {
		if result, ok := classifier.Classify(txn); ok {
			resolved = append(resolved, result)
		} else {
			unresolved = append(unresolved, txn)
		}
	}

	return resolved, unresolved
}
