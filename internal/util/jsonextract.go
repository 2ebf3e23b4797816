package util

import "strings"

// ExtractJSON recovers a JSON object or array from a raw model response.
// LLMs routinely wrap their JSON output in markdown backticks or add
// conversational text before and after the payload; this slices out the
// substring between the first '{' or '[' and the last '}' or ']'.
//
// It never fails: blank input or input without any brace/bracket pair yields
// the literal empty object "{}". Bracket balance is not validated, so input
// containing several independent JSON blocks returns one span covering all of
// them; callers treat the result as untrusted and still parse it.
func ExtractJSON(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "{}"
	}

	firstBrace := strings.Index(raw, "{")
	firstBracket := strings.Index(raw, "[")

	var start int
	switch {
	case firstBrace == -1:
		start = firstBracket
	case firstBracket == -1:
		start = firstBrace
	default:
		start = min(firstBrace, firstBracket)
	}
	if start == -1 {
		return "{}"
	}

	lastBrace := strings.LastIndex(raw, "}")
	lastBracket := strings.LastIndex(raw, "]")

	end := max(lastBrace, lastBracket)
	if end == -1 || end < start {
		return "{}"
	}

	return raw[start : end+1]
}
