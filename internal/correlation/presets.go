package correlation

import (
	"fmt"
	"math"
	"time"
)

const (
	DuplicateThreshold    = 0.7
	CancellationThreshold = 0.8

	DuplicateHalfWidth    = 2 * time.Hour
	CancellationHalfWidth = 12 * time.Hour
)

// DuplicatePolicy is used before creating an event. The first candidate
// scoring above the threshold wins.
func DuplicatePolicy() Policy {
	return Policy{
		Name: "duplicate",
		Scorer: Scorer{
			Weights: Weights{Title: 0.4, Location: 0.2, Time: 0.4},
			Tiers: []Tier{
				{MaxMinutes: 30, Score: 1.0},
				{MaxMinutes: 60, Score: 0.8},
				{MaxMinutes: 120, Score: 0.5},
			},
		},
		Threshold:  DuplicateThreshold,
		Selection:  SelectFirst,
		HalfWidth:  DuplicateHalfWidth,
		SpanEnd:    true,
		RequireEnd: true,
	}
}

// CancellationPolicy is used before deleting an event. Only the best match
// above a stricter threshold is removed.
func CancellationPolicy() Policy {
	return Policy{
		Name: "cancellation",
		Scorer: Scorer{
			Weights: Weights{Title: 0.5, Location: 0.2, Time: 0.3},
			Tiers: []Tier{
				{MaxMinutes: 15, Score: 1.0},
				{MaxMinutes: 60, Score: 0.8},
				{MaxMinutes: 180, Score: 0.5},
			},
		},
		Threshold: CancellationThreshold,
		Selection: SelectBest,
		HalfWidth: CancellationHalfWidth,
	}
}

// Validate checks that p can drive the correlator.
func (p Policy) Validate() error {
	w := p.Weights
	if w.Title < 0 || w.Location < 0 || w.Time < 0 {
		return fmt.Errorf("%w: %s: negative weight", ErrInvalidPolicy, p.Name)
	}
	if sum := w.Title + w.Location + w.Time; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: %s: weights sum to %.3f", ErrInvalidPolicy, p.Name, sum)
	}
	for i, t := range p.Tiers {
		if t.Score < 0 || t.Score > 1 {
			return fmt.Errorf("%w: %s: tier %d score out of range", ErrInvalidPolicy, p.Name, i)
		}
		if i > 0 && t.MaxMinutes <= p.Tiers[i-1].MaxMinutes {
			return fmt.Errorf("%w: %s: tiers not ascending", ErrInvalidPolicy, p.Name)
		}
	}
	if p.Threshold < 0 || p.Threshold >= 1 {
		return fmt.Errorf("%w: %s: threshold %.2f out of range", ErrInvalidPolicy, p.Name, p.Threshold)
	}
	if p.HalfWidth <= 0 {
		return fmt.Errorf("%w: %s: half width must be positive", ErrInvalidPolicy, p.Name)
	}
	if p.Selection != SelectFirst && p.Selection != SelectBest {
		return fmt.Errorf("%w: %s: unknown selection", ErrInvalidPolicy, p.Name)
	}
	return nil
}
