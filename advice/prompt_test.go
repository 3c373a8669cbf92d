package advice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposePromptWithoutContext(t *testing.T) {
	got := ComposePrompt("AAPL", "Optimistic", 0.825, []string{"earnings", "beat"}, "")

	assert.True(t, strings.HasPrefix(got, "Sentiment today for AAPL: Optimistic (score 0.82)"))
	assert.Contains(t, got, "Top keywords: earnings, beat")
	assert.Contains(t, got, "Write exactly 3 concise, numbered English suggestions")
	assert.Contains(t, got, "Not financial advice.")
	assert.NotContains(t, got, "Context:")
}

func TestComposePromptWithContext(t *testing.T) {
	got := ComposePrompt("TSLA", "Pessimistic", 0.4, nil, "TSLA deliveries missed estimates.")

	assert.True(t, strings.HasPrefix(got, "Context:\nTSLA deliveries missed estimates."))
	assert.Contains(t, got, "Sentiment today for TSLA: Pessimistic (score 0.40)")
	assert.Contains(t, got, "Top keywords: n/a")
}

func TestComposePromptNoContextMarkerSkipsBlock(t *testing.T) {
	got := ComposePrompt("MSFT", "Neutral", 0.5, []string{"cloud"}, NoContext)

	assert.NotContains(t, got, "Context:")
	assert.NotContains(t, got, NoContext)
}

func TestComposePromptDeterministic(t *testing.T) {
	a := ComposePrompt("NVDA", "Optimistic", 0.91, []string{"ai", "chips"}, "ctx")
	b := ComposePrompt("NVDA", "Optimistic", 0.91, []string{"ai", "chips"}, "ctx")

	assert.Equal(t, a, b)
}

func TestComposePromptScoreTwoDecimals(t *testing.T) {
	got := ComposePrompt("AMZN", "Neutral", 1.0/3.0, nil, "")

	assert.Contains(t, got, "(score 0.33)")
}
