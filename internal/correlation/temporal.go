package correlation

import "math"

// TemporalSimilarity returns the score of the first tier whose MaxMinutes
// covers deltaMinutes, or 0 past the last tier.
func TemporalSimilarity(deltaMinutes float64, tiers []Tier) float64 {
	if math.IsNaN(deltaMinutes) {
		return 0
	}
	delta := math.Abs(deltaMinutes)
	for _, t := range tiers {
		if delta <= t.MaxMinutes {
			return t.Score
		}
	}
	return 0
}
