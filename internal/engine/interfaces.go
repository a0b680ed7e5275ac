package engine

import (
	"context"

	"github.com/spendlens/spendlens/internal/model"
)

// Inferencer is the engine's view of the batch inference categorizer. The
// returned map may omit transactions the service skipped or answered
// invalidly; a non-nil error marks the whole batch as failed.
type Inferencer interface {
	CategorizeBatch(ctx context.Context, txns []model.Transaction, categories []model.CategoryLabel) (map[string]model.CategorizationResult, error)
}
