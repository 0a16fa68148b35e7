package correlation

import "strings"

// LexicalSimilarity compares two normalized strings by word containment.
//
// A word of a is common when some word of b contains it or is contained by it,
// so short words like "a" or "de" match generously. The thresholds of both
// presets are calibrated against this behaviour.
func LexicalSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	wa := strings.Fields(a)
	wb := strings.Fields(b)
	longest := max(len(wa), len(wb))
	if longest == 0 {
		return 0
	}

	common := 0
	for _, w := range wa {
		for _, o := range wb {
			if strings.Contains(o, w) || strings.Contains(w, o) {
				common++
				break
			}
		}
	}

	return float64(common) / float64(longest)
}
