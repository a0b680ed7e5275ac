package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/spendlens/spendlens/internal/common"
)

// anthropicClient implements the Client interface on the Anthropic API.
type anthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// newAnthropicClient creates a new Anthropic API client.
func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "claude-3-5-haiku-latest"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &anthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: int64(maxTokens),
		timeout:   timeout,
	}, nil
}

// CategorizeBatch sends one categorization request covering every entry in
// the batch and parses the structured reply. The request runs under a
// bounded timeout.
func (c *anthropicClient) CategorizeBatch(ctx context.Context, req BatchRequest) (BatchResponse, error) {
	prompt, err := buildBatchPrompt(req)
	if err != nil {
		return BatchResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return BatchResponse{}, transportError(err)
	}

	if len(message.Content) == 0 {
		return BatchResponse{}, fmt.Errorf("%w: empty response from anthropic", common.ErrMalformedResponse)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return ParseBatchResponse(text)
}

// transportError maps a failed API call onto the shared sentinels so callers
// can tell a throttled request from an unreachable service.
func transportError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: anthropic request throttled: %v", common.ErrRateLimit, err)
	}
	return fmt.Errorf("%w: anthropic request failed: %v", common.ErrInferenceUnavailable, err)
}

// buildBatchPrompt renders the batch request as a single prompt: the closed
// category set, the response contract, and the transactions as JSON.
func buildBatchPrompt(req BatchRequest) (string, error) {
	categoryList := ""
	for _, cat := range req.Categories {
		categoryList += fmt.Sprintf("- %s: %s\n", cat, cat.Description())
	}

	data, err := json.MarshalIndent(req.Entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch entries: %w", err)
	}

	return fmt.Sprintf(`You are a financial transaction categorizer.

Categorize every transaction below into one of these categories ONLY:
%s
Rules:
1. Choose the MOST APPROPRIATE category from the list above
2. If unclear, use the "Other" category
3. Provide a confidence score 0-1 (1 = very confident, 0.5 = uncertain)
4. Give brief reasoning for your choice
5. Return exactly one entry per transaction_id in the input

Return ONLY valid JSON with this exact structure:
{"categorizations": [{"transaction_id": "txn-0001", "category": "Food & Dining", "confidence": 0.85, "reasoning": "Coffee shop purchase"}]}

Transactions:
%s`, categoryList, string(data)), nil
}
