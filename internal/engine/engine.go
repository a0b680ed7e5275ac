// Package engine implements the hybrid categorization engine: deterministic
// rules first, batched inference for the remainder, and a fallback resolver
// that guarantees every transaction ends up categorized.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/rules"
)

// Engine orchestrates one single-pass categorization run per statement.
// Independent engines may run concurrently over a shared read-only rule
// index; no mutable state is shared across runs.
type Engine struct {
	classifier *rules.Classifier
	inferencer Inferencer
	logger     *slog.Logger
	categories []model.CategoryLabel
	batchSize  int
}

// Config holds configuration options for the engine.
type Config struct {
	BatchSize int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BatchSize: 50,
	}
}

// New creates an engine with the given dependencies. inferencer may be nil,
// in which case every rule miss falls back immediately.
func New(classifier *rules.Classifier, inferencer Inferencer, logger *slog.Logger) (*Engine, error) {
	return NewWithConfig(classifier, inferencer, logger, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(classifier *rules.Classifier, inferencer Inferencer, logger *slog.Logger, config Config) (*Engine, error) {
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}

	return &Engine{
		classifier: classifier,
		inferencer: inferencer,
		logger:     logger,
		categories: model.InferenceCategories(),
		batchSize:  config.BatchSize,
	}, nil
}

// Categorize runs the full pipeline over one statement's transaction list
// and returns exactly one result per transaction, in input order, together
// with run statistics. Inference failures never surface as errors; the
// affected transactions fall back and the run is reported as degraded
// through the stats.
func (e *Engine) Categorize(ctx context.Context, txns []model.Transaction) ([]model.CategorizationResult, model.RunStats, error) {
	stats := model.RunStats{Total: len(txns)}

	if len(txns) == 0 {
		return []model.CategorizationResult{}, stats, nil
	}

	resolved, unresolved := Route(e.classifier, txns)
	e.logger.Info("deterministic pass complete",
		"total", len(txns),
		"resolved", len(resolved),
		"unresolved", len(unresolved))

	inferred := e.inferUnresolved(ctx, unresolved, &stats)

	results := Resolve(txns, resolved, inferred)

	for _, r := range results {
		switch r.Source {
		case model.SourceRule:
			stats.ByRule++
		case model.SourceInference:
			stats.ByInference++
		case model.SourceFallback:
			stats.ByFallback++
		}
	}

	if stats.Degraded() {
		e.logger.Warn("categorization complete (degraded)",
			"by_rule", stats.ByRule,
			"by_inference", stats.ByInference,
			"by_fallback", stats.ByFallback,
			"batches_failed", stats.BatchesFailed)
	} else {
		e.logger.Info("categorization complete",
			"by_rule", stats.ByRule,
			"by_inference", stats.ByInference,
			"batches_issued", stats.BatchesIssued)
	}

	return results, stats, nil
}

// inferUnresolved drives the batch inference categorizer over the
// unresolved subset, splitting it into bounded sequential batches. Each
// batch fails independently: an error or cancellation marks that batch for
// fallback without touching results already gathered.
func (e *Engine) inferUnresolved(ctx context.Context, unresolved []model.Transaction, stats *model.RunStats) map[string]model.CategorizationResult {
	inferred := make(map[string]model.CategorizationResult, len(unresolved))

	if len(unresolved) == 0 {
		return inferred
	}
	if e.inferencer == nil {
		e.logger.Warn("no inferencer configured, unresolved transactions will fall back",
			"count", len(unresolved))
		return inferred
	}

	for start := 0; start < len(unresolved); start += e.batchSize {
		if ctx.Err() != nil {
			e.logger.Warn("run canceled, remaining transactions fall back",
				"remaining", len(unresolved)-start)
			stats.BatchesFailed++
			break
		}

		end := min(start+e.batchSize, len(unresolved))
		batch := unresolved[start:end]
		stats.BatchesIssued++

		results, err := e.inferencer.CategorizeBatch(ctx, batch, e.categories)
		if err != nil {
			stats.BatchesFailed++
			e.logger.Warn("inference batch failed, transactions fall back",
				"batch_size", len(batch),
				"error", err)
			continue
		}

		for id, r := range results {
			inferred[id] = r
		}
	}

	return inferred
}
