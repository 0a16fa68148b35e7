package correlation

import (
	"math"
	"strings"

	"mail-calendar-automation/internal/model"
)

// scoreScale rounds scores to nine decimals so that weighted sums landing
// on a threshold compare equal to it.
const scoreScale = 1e9

// Score rates how likely c is the same occurrence as d.
//
// Title and time always count. Location counts only when both sides agree on
// having one: both present are compared lexically, both absent earn the full
// weight, and a one-sided location is left out of the denominator.
func (s Scorer) Score(d model.EventDescriptor, c model.CalendarEvent) float64 {
	var sum, applied float64

	sum += LexicalSimilarity(s.Normalizer.Normalize(d.Title), s.Normalizer.Normalize(c.Title)) * s.Weights.Title
	applied += s.Weights.Title

	dl := strings.TrimSpace(d.Location)
	cl := strings.TrimSpace(c.Location)
	switch {
	case dl != "" && cl != "":
		sum += LexicalSimilarity(s.Normalizer.Normalize(dl), s.Normalizer.Normalize(cl)) * s.Weights.Location
		applied += s.Weights.Location
	case dl == "" && cl == "":
		sum += s.Weights.Location
		applied += s.Weights.Location
	}

	delta := math.Abs(d.Start.Sub(c.Start).Minutes())
	sum += TemporalSimilarity(delta, s.Tiers) * s.Weights.Time
	applied += s.Weights.Time

	if applied <= 0 {
		return 0
	}
	score := math.Round(sum/applied*scoreScale) / scoreScale
	return math.Max(0, math.Min(1, score))
}
