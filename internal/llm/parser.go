package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/splitsage/splitsage/internal/model"
)

// parseDecision parses an oracle response body into a validated decision.
// This is the only place a raw category string crosses into the model: an
// answer outside the fixed vocabulary is overridden to Other with a
// diagnostic reason rather than propagated.
func parseDecision(content string) (model.Decision, error) {
	var raw struct {
		Category   string  `json:"category"`
		Reason     string  `json:"reason"`
		Confidence float64 `json:"confidence"`
	}

	content = cleanMarkdownWrapper(content)

	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return model.Decision{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if raw.Category == "" {
		return model.Decision{}, fmt.Errorf("no category found in response")
	}

	category, ok := model.ParseCategory(raw.Category)
	if !ok {
		return model.Decision{
			Category:   model.CategoryOther,
			Confidence: 0.5,
			Reason:     fmt.Sprintf("Invalid category %q returned by oracle", raw.Category),
		}, nil
	}

	return model.Decision{
		Category:   category,
		Confidence: clampConfidence(raw.Confidence),
		Reason:     raw.Reason,
	}, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// cleanMarkdownWrapper strips a ```json code fence some models insist on
// wrapping their response in.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx != -1 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}
