package engine

import (
	"github.com/spendlens/spendlens/internal/model"
)

// Resolve merges deterministic and inferred results into exactly one result
// per input transaction, in input order. Deterministic results are used
// unchanged; unresolved transactions take their inference result when one
// exists; everything else receives the Uncategorized sentinel with fallback
// source and low confidence. This is what guarantees total coverage even
// under complete inference outage.
func Resolve(txns []model.Transaction, resolved []model.CategorizationResult, inferred map[string]model.CategorizationResult) []model.CategorizationResult {
	byRule := make(map[string]model.CategorizationResult, len(resolved))
	for _, r := range resolved {
		byRule[r.TransactionID] = r
	}

	out := make([]model.CategorizationResult, 0, len(txns))
	for _, txn := range txns {
		if r, ok := byRule[txn.ID]; ok {
			out = append(out, r)
			continue
		}
		if r, ok := inferred[txn.ID]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, model.CategorizationResult{
			TransactionID: txn.ID,
			Category:      model.CategoryUncategorized,
			Confidence:    model.FallbackConfidence,
			Source:        model.SourceFallback,
			Rationale:     "no rule matched and inference did not resolve this transaction",
		})
	}

	return out
}
