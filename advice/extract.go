package advice

import (
	"strings"
)

// FallbackSuggestion pads the result whenever the generator produced
// fewer than three usable lines.
const FallbackSuggestion = "Consider gradual, risk-aware adjustments rather than abrupt trades."

// suggestionCount is fixed: callers always receive exactly three items.
const suggestionCount = 3

// ExtractSuggestions turns a free-form completion into exactly three
// clean suggestion strings. The scanning rules match the behavior the
// mobile client was built against, so they must not be simplified:
//
//  1. split on newlines, trim spaces, hyphens, bullets and tabs
//  2. prefer lines that look numbered ("1.", "2.", "3." or any line
//     starting with a digit), fall back to all non-empty lines
//  3. strip the numbering prefix from the first three candidates
//  4. pad with FallbackSuggestion up to three
//
// Total: never errors, never returns fewer or more than three items.
func ExtractSuggestions(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.Trim(ln, " -•\t")
		if ln == "" {
			continue
		}
		lines = append(lines, ln)
	}

	var bullets []string
	for _, ln := range lines {
		if isNumbered(ln) {
			bullets = append(bullets, ln)
		}
	}
	if len(bullets) == 0 {
		bullets = lines
	}

	out := make([]string, 0, suggestionCount)
	for _, ln := range bullets {
		if len(out) == suggestionCount {
			break
		}
		s := stripNumbering(ln)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	for len(out) < suggestionCount {
		out = append(out, FallbackSuggestion)
	}
	return out[:suggestionCount]
}

func isNumbered(ln string) bool {
	if strings.HasPrefix(ln, "1.") || strings.HasPrefix(ln, "2.") || strings.HasPrefix(ln, "3.") {
		return true
	}
	return len(ln) > 1 && isDigit(ln[0])
}

// stripNumbering removes a leading "1." / "1)" style prefix, or a bare
// leading digit followed by stray ". " or ")" characters.
func stripNumbering(ln string) string {
	if len(ln) >= 2 && isDigit(ln[0]) && (ln[1] == '.' || ln[1] == ')') {
		return strings.Trim(ln[2:], " .)")
	}
	if len(ln) >= 1 && isDigit(ln[0]) {
		return strings.Trim(ln[1:], " .)")
	}
	return ln
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
