package domain

import "time"

// feedDateFormat is the date-only format the feed accepts for starttime and
// endtime query parameters.
const feedDateFormat = "2006-01-02"

// QueryWindow is the sliding date range a poll cycle queries the feed with.
// Start never exceeds End.
type QueryWindow struct {
	Start time.Time
	End   time.Time
}

// CurrentWindow computes the window for a cycle starting now: End is today
// plus leadDays (the feed lists events up to its own clock, which may run
// ahead of ours across time zones), Start is End minus spanDays.
func CurrentWindow(leadDays, spanDays int) QueryWindow {
	end := clock.Now().UTC().AddDate(0, 0, leadDays)
	return QueryWindow{
		Start: end.AddDate(0, 0, -spanDays),
		End:   end,
	}
}

// StartDate returns the window start formatted for the feed (yyyy-MM-dd).
func (w QueryWindow) StartDate() string { return w.Start.Format(feedDateFormat) }

// EndDate returns the window end formatted for the feed (yyyy-MM-dd).
func (w QueryWindow) EndDate() string { return w.End.Format(feedDateFormat) }
