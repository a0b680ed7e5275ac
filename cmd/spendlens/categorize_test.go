package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeFlagsBindInferenceConfig(t *testing.T) {
	cmd := categorizeCmd()

	require.NoError(t, cmd.Flags().Set("provider", "anthropic"))
	require.NoError(t, cmd.Flags().Set("model", "claude-3-5-haiku-latest"))
	require.NoError(t, cmd.Flags().Set("timeout", "45s"))
	require.NoError(t, cmd.Flags().Set("max-retries", "1"))
	require.NoError(t, cmd.Flags().Set("rate-limit", "30"))
	require.NoError(t, cmd.Flags().Set("cache-ttl", "5m"))
	require.NoError(t, cmd.Flags().Set("max-tokens", "2048"))
	require.NoError(t, cmd.Flags().Set("batch-size", "25"))

	assert.Equal(t, "anthropic", viper.GetString("inference.provider"))
	assert.Equal(t, "claude-3-5-haiku-latest", viper.GetString("inference.model"))
	assert.Equal(t, 45*time.Second, viper.GetDuration("inference.timeout"))
	assert.Equal(t, 1, viper.GetInt("inference.max_retries"))
	assert.Equal(t, 30, viper.GetInt("inference.rate_limit"))
	assert.Equal(t, 5*time.Minute, viper.GetDuration("inference.cache_ttl"))
	assert.Equal(t, 2048, viper.GetInt("inference.max_tokens"))
	assert.Equal(t, 25, viper.GetInt("engine.batch_size"))
}

func TestCategorizeFlagDefaults(t *testing.T) {
	cmd := categorizeCmd()

	assert.Equal(t, "50", cmd.Flags().Lookup("batch-size").DefValue)
	assert.Equal(t, "2", cmd.Flags().Lookup("max-retries").DefValue)
	assert.Equal(t, "60", cmd.Flags().Lookup("rate-limit").DefValue)
	assert.Equal(t, "1m0s", cmd.Flags().Lookup("timeout").DefValue)
	assert.Equal(t, "15m0s", cmd.Flags().Lookup("cache-ttl").DefValue)
}
