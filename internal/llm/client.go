package llm

import (
	"context"
	"time"

	"github.com/spendlens/spendlens/internal/model"
)

// BatchEntry is one transaction in an inference request.
type BatchEntry struct {
	ID          string  `json:"transaction_id"`
	Description string  `json:"description"`
	Date        string  `json:"date,omitempty"`
	Amount      float64 `json:"amount"`
}

// BatchRequest enumerates the transactions to categorize, in order, plus
// the closed category set the response may draw labels from.
type BatchRequest struct {
	Entries    []BatchEntry
	Categories []model.CategoryLabel
}

// BatchResult is one raw categorization entry from the inference service,
// prior to validation.
type BatchResult struct {
	TransactionID string  `json:"transaction_id"`
	Category      string  `json:"category"`
	Reasoning     string  `json:"reasoning,omitempty"`
	Confidence    float64 `json:"confidence"`
}

// BatchResponse is the parsed, not yet validated inference response.
type BatchResponse struct {
	Categorizations []BatchResult `json:"categorizations"`
}

// Client defines the interface for inference providers.
type Client interface {
	CategorizeBatch(ctx context.Context, req BatchRequest) (BatchResponse, error)
}

// Config holds configuration for the inference boundary.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	CacheTTL   time.Duration
	RateLimit  int
	MaxTokens  int
}
