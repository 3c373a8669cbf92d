package advice

import (
	"fmt"
	"strings"
)

// SystemPrompt frames every generation call.
const SystemPrompt = "You are a prudent, concise assistant for retail investors."

// NoContext is the marker the retriever returns when a symbol's
// collection yields nothing; the composer treats it as "no context block".
const NoContext = "(no context)"

// ComposePrompt renders the single instruction string sent to the
// generator. Pure; the same inputs always produce the same prompt.
func ComposePrompt(symbol, level string, score float64, keywords []string, context string) string {
	keys := "n/a"
	if len(keywords) > 0 {
		keys = strings.Join(keywords, ", ")
	}

	var b strings.Builder
	if context != "" && context != NoContext {
		fmt.Fprintf(&b, "\nContext:\n%s\n", context)
	}
	fmt.Fprintf(&b, "\nSentiment today for %s: %s (score %.2f)\n", symbol, level, score)
	fmt.Fprintf(&b, "Top keywords: %s\n\n", keys)
	b.WriteString("Write exactly 3 concise, numbered English suggestions for a cautious retail investor.\n")
	b.WriteString("Each item one sentence (<= 20 words). Not financial advice.")

	return strings.TrimSpace(b.String())
}
