package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/common"
	"github.com/spendlens/spendlens/internal/model"
)

func TestNewAnthropicClientRequiresAPIKey(t *testing.T) {
	_, err := newAnthropicClient(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestTransportErrorMapsToUnavailable(t *testing.T) {
	err := transportError(errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, common.ErrInferenceUnavailable)
	assert.NotErrorIs(t, err, common.ErrRateLimit)
}

func TestBuildBatchPrompt(t *testing.T) {
	req := BatchRequest{
		Entries: []BatchEntry{
			{ID: "txn-0001", Description: "sq shop 99", Amount: -23.10},
		},
		Categories: model.InferenceCategories(),
	}

	prompt, err := buildBatchPrompt(req)
	require.NoError(t, err)

	assert.Contains(t, prompt, "txn-0001")
	assert.Contains(t, prompt, "sq shop 99")
	for _, cat := range req.Categories {
		assert.Contains(t, prompt, string(cat))
	}
	assert.False(t, strings.Contains(prompt, string(model.CategoryUncategorized)),
		"the sentinel is never offered to the service")
}
