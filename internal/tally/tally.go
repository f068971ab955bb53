// Package tally scores an event's date options against the guests'
// date selections.
package tally

import "rsvp-service/internal/models"

// Count computes per-option vote counts and relative percentages. The
// percentage is votes / max votes across all options * 100, so the
// top-voted option(s) always read 100. Selections referencing options
// outside the given set are ignored. Output order follows the input
// option order.
func Count(options []models.DateOption, selections []models.DateSelection) []models.DateOptionTally {
	result := make([]models.DateOptionTally, 0, len(options))
	if len(options) == 0 {
		return result
	}

	votes := make(map[int]int, len(options))
	for _, opt := range options {
		votes[opt.ID] = 0
	}
	for _, sel := range selections {
		if _, ok := votes[sel.DateOptionID]; ok {
			votes[sel.DateOptionID]++
		}
	}

	max := 0
	for _, n := range votes {
		if n > max {
			max = n
		}
	}
	// Divisor floor keeps the all-zero case at 0% instead of dividing by zero.
	divisor := max
	if divisor == 0 {
		divisor = 1
	}

	for _, opt := range options {
		n := votes[opt.ID]
		result = append(result, models.DateOptionTally{
			DateOption: opt,
			Votes:      n,
			Percentage: float64(n) / float64(divisor) * 100,
		})
	}
	return result
}
