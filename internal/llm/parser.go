package llm

import "strings"

// ExtractJSON returns the text between the first '{' and the last '}', or ""
// when there is no such span. It does not check the result is valid JSON.
func ExtractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return text[start : end+1]
}
