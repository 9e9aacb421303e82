package domain

import "slices"

// SortedByOccurrence returns a new slice with the batch ordered ascending by
// occurrence time. The sort is stable: events with equal timestamps keep
// their relative feed order. A nil or empty batch yields an empty slice.
func SortedByOccurrence(batch []Event) []Event {
	ordered := make([]Event, len(batch))
	copy(ordered, batch)
	slices.SortStableFunc(ordered, func(a, b Event) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
	return ordered
}
