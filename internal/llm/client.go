// Package llm implements the categorization oracle clients. Each provider
// receives the static rule document plus one expense's context payload and
// must answer with a JSON object {category, confidence, reason}; the answer
// is validated against the closed category set before it leaves this package.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/splitsage/splitsage/internal/model"
)

// Client defines the interface for categorization oracle providers.
type Client interface {
	Categorize(ctx context.Context, expense model.Expense) (model.Decision, error)
}

// Config holds configuration for the oracle client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates an oracle client for the configured provider. A missing
// API key is fatal here; nothing should proceed without one.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", cfg.Provider)
	}
}
