package llm

import (
	"fmt"
	"strings"

	"github.com/spendlens/spendlens/internal/common"
)

// NewClient creates a raw inference client based on the provided
// configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported inference provider: %s", common.ErrInvalidConfig, cfg.Provider)
	}
}
