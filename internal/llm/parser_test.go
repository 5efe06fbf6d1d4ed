package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitsage/splitsage/internal/model"
)

func TestParseDecision(t *testing.T) {
	decision, err := parseDecision(`{"category": "Groceries", "confidence": 0.95, "reason": "Grocery store chain"}`)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryGroceries, decision.Category)
	assert.InDelta(t, 0.95, decision.Confidence, 1e-9)
	assert.Equal(t, "Grocery store chain", decision.Reason)
	assert.False(t, decision.FromCache)
}

func TestParseDecisionMarkdownFence(t *testing.T) {
	content := "```json\n{\"category\": \"Transport\", \"confidence\": 0.9, \"reason\": \"Rideshare\"}\n```"

	decision, err := parseDecision(content)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryTransport, decision.Category)
}

func TestParseDecisionInvalidCategory(t *testing.T) {
	decision, err := parseDecision(`{"category": "Casino", "confidence": 0.99, "reason": "Gambling"}`)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, decision.Category)
	assert.InDelta(t, 0.5, decision.Confidence, 1e-9)
	assert.Contains(t, decision.Reason, "Casino")
}

func TestParseDecisionMalformed(t *testing.T) {
	_, err := parseDecision(`not json at all`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestParseDecisionMissingCategory(t *testing.T) {
	_, err := parseDecision(`{"confidence": 0.8, "reason": "no category field"}`)
	require.Error(t, err)
}

func TestParseDecisionClampsConfidence(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    float64
	}{
		{"above one", `{"category": "Rent", "confidence": 1.4, "reason": "r"}`, 1.0},
		{"below zero", `{"category": "Rent", "confidence": -0.2, "reason": "r"}`, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := parseDecision(tt.content)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, decision.Confidence, 1e-9)
		})
	}
}

func TestSystemPromptListsAllCategories(t *testing.T) {
	prompt := systemPrompt()
	for _, cat := range model.AllCategories() {
		assert.Contains(t, prompt, string(cat))
	}
}

func TestBuildUserMessageDefaults(t *testing.T) {
	msg := buildUserMessage(model.Expense{
		Description: "Chipotle",
		Amount:      12.5,
		Currency:    "USD",
	})

	assert.Contains(t, msg, "Description: Chipotle")
	assert.Contains(t, msg, "Amount: 12.50 USD")
	assert.Contains(t, msg, "Group: none")
	assert.Contains(t, msg, "Notes: none")
}
