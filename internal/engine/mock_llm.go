package engine

import (
	"context"
	"sync"

	"github.com/spendlens/spendlens/internal/model"
)

// MockInferencer is a test double for the inference boundary. Results are
// keyed by transaction ID; transactions without an entry are treated as
// inference misses.
type MockInferencer struct {
	Results    map[string]model.CategorizationResult
	Err        error
	BatchSizes []int
	Calls      int
	mu         sync.Mutex
}

// CategorizeBatch returns the configured results for the requested
// transactions, or the configured error.
func (m *MockInferencer) CategorizeBatch(ctx context.Context, txns []model.Transaction, _ []model.CategoryLabel) (map[string]model.CategorizationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.BatchSizes = append(m.BatchSizes, len(txns))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	out := make(map[string]model.CategorizationResult, len(txns))
	for _, txn := range txns {
		if r, ok := m.Results[txn.ID]; ok {
			r.TransactionID = txn.ID
			out[txn.ID] = r
		}
	}
	return out, nil
}

// CallCount returns the number of batches issued so far.
func (m *MockInferencer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
