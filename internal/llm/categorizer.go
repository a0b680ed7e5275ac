package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/model"
	"github.com/spendlens/spendlens/internal/rules"
)

// Categorizer implements the engine's inference boundary on top of a
// provider Client, adding rate limiting, bounded retry, and caching of
// results by transaction content hash.
type Categorizer struct {
	client      Client
	cache       *resultCache
	rateLimiter *rateLimiter
	logger      *slog.Logger
	retryOpts   common.RetryOptions
}

// NewCategorizer creates a categorizer for the configured provider.
func NewCategorizer(cfg Config, logger *slog.Logger) (*Categorizer, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return NewCategorizerWithClient(client, cfg, logger), nil
}

// NewCategorizerWithClient wraps an existing provider client. Used by tests
// and anywhere a custom transport is needed.
func NewCategorizerWithClient(client Client, cfg Config, logger *slog.Logger) *Categorizer {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := common.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	// At most one retry of a failed batch, to bound latency and cost.
	if retryOpts.MaxAttempts <= 0 || retryOpts.MaxAttempts > 2 {
		retryOpts.MaxAttempts = 2
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &Categorizer{
		client:      client,
		cache:       newResultCache(cfg.CacheTTL),
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		retryOpts:   retryOpts,
	}
}

// CategorizeBatch issues one inference request for the given transactions
// and returns validated results keyed by transaction ID. Transactions the
// service skipped or answered invalidly are simply absent from the map;
// only transport-level or parse-level problems return an error, and the
// caller treats that as a whole-batch fallback.
func (c *Categorizer) CategorizeBatch(ctx context.Context, txns []model.Transaction, categories []model.CategoryLabel) (map[string]model.CategorizationResult, error) {
	results := make(map[string]model.CategorizationResult, len(txns))

	// Serve what we can from cache; only the remainder goes on the wire.
	var pending []model.Transaction
	for _, txn := range txns {
		if cached, found := c.cache.get(txn.Hash); found {
			cached.TransactionID = txn.ID
			results[txn.ID] = cached
			continue
		}
		pending = append(pending, txn)
	}

	if len(pending) == 0 {
		c.logger.Debug("batch served entirely from cache", "count", len(txns))
		return results, nil
	}

	req := buildBatchRequest(pending, categories)

	if err := c.rateLimiter.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	var resp BatchResponse
	err := common.WithRetry(ctx, func() error {
		c.logger.Debug("issuing inference batch", "size", len(pending))

		batchResp, err := c.client.CategorizeBatch(ctx, req)
		if err != nil {
			c.logger.Warn("inference batch attempt failed",
				"size", len(pending),
				"error", err)
			return &common.RetryableError{Err: err, Retryable: true}
		}

		resp = batchResp
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("batch inference failed: %w", err)
	}

	byID := make(map[string]model.Transaction, len(pending))
	for _, txn := range pending {
		byID[txn.ID] = txn
	}

	for _, validation := range ValidateEntries(req, resp) {
		if !validation.Valid {
			c.logger.Warn("discarding inference entry", "reason", validation.Reason)
			continue
		}
		results[validation.Result.TransactionID] = validation.Result
		if txn, ok := byID[validation.Result.TransactionID]; ok && txn.Hash != "" {
			c.cache.set(txn.Hash, validation.Result)
		}
	}

	c.logger.Info("inference batch complete",
		"requested", len(pending),
		"resolved", len(results),
		"cached", len(txns)-len(pending))

	return results, nil
}

// buildBatchRequest enumerates each transaction's identity and normalized
// description together with the closed category set.
func buildBatchRequest(txns []model.Transaction, categories []model.CategoryLabel) BatchRequest {
	entries := make([]BatchEntry, len(txns))
	for i, txn := range txns {
		entries[i] = BatchEntry{
			ID:          txn.ID,
			Description: rules.Normalize(txn.Name),
			Amount:      txn.Amount,
		}
		if !txn.Date.IsZero() {
			entries[i].Date = txn.Date.Format("2006-01-02")
		}
	}
	return BatchRequest{Entries: entries, Categories: categories}
}

// Close stops background goroutines and cleans up resources.
func (c *Categorizer) Close() error {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.rateLimiter != nil {
		c.rateLimiter.Close()
	}
	return nil
}
