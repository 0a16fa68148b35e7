package extraction

import (
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// sanitizeJSONResponse strips markdown fences or surrounding prose from a model reply.
func sanitizeJSONResponse(text string) string {
	if m := codeFence.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}

	start := strings.IndexAny(text, "[{")
	if start == -1 {
		return text
	}
	end := strings.LastIndexAny(text, "]}")
	if end == -1 || end < start {
		return text
	}
	return strings.TrimSpace(text[start : end+1])
}

// cleanTitle removes the asterisks models like to add for emphasis.
func cleanTitle(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, "*", ""))
}
