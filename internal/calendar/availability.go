package calendar

import (
	"time"
)

// DayAvailability is the scheduling status of one calendar day.
type DayAvailability struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Label     string `json:"label"`
	Available bool   `json:"available"`
	IsTurn    bool   `json:"is_turn"`
}

// DefaultTurnGap is the minimum gap between a checkout and the next
// check-in for a turnover day to remain shootable. Zero gap (same-day
// all-day turnover) has never been shootable; how much partial-day gap is
// enough is a business call, so the threshold is a parameter rather than a
// hardcoded same-day check.
const DefaultTurnGap = 8 * time.Hour

const dayFormat = "2006-01-02"

// Resolver projects busy intervals onto day-level availability.
type Resolver struct {
	// TurnGap is the minimum checkout-to-checkin gap on a turnover day;
	// below it the day is blocked. Zero value means DefaultTurnGap.
	TurnGap time.Duration
}

// NewResolver creates a resolver with the default turn gap.
func NewResolver() *Resolver {
	return &Resolver{TurnGap: DefaultTurnGap}
}

func (r *Resolver) turnGap() time.Duration {
	if r.TurnGap > 0 {
		return r.TurnGap
	}
	return DefaultTurnGap
}

// DailyAvailability returns one entry per calendar day in
// [max(from, today), to], inclusive. Days before today are never reported:
// past availability is meaningless for scheduling.
//
// A day d is covered when any interval satisfies start <= d < end (start
// compared at date granularity, end exclusive). A day is a turn day when
// an interval starts on it. A turn day that is also another interval's
// checkout day, with less than TurnGap between checkout and check-in, is
// forced unavailable: no window for a shoot between the outgoing and
// incoming guests.
//
// The scan is O(days x intervals). A property has a handful of bookings
// and windows are at most a year, so nothing cleverer is warranted.
func (r *Resolver) DailyAvailability(intervals []BusyInterval, from, to, today time.Time) []DayAvailability {
	from = truncateDay(from)
	to = truncateDay(to)
	today = truncateDay(today)

	if from.Before(today) {
		from = today
	}

	var days []DayAvailability
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		covered := false
		isTurn := false
		var checkoutAt time.Time
		var checkinAt time.Time

		for _, iv := range intervals {
			startDay := truncateDay(iv.Start)
			if !startDay.After(d) && d.Before(iv.End) {
				covered = true
			}
			if startDay.Equal(d) {
				isTurn = true
				if checkinAt.IsZero() || iv.Start.Before(checkinAt) {
					checkinAt = iv.Start
				}
			}
			if sameDay(iv.End, d) && iv.End.After(checkoutAt) {
				checkoutAt = iv.End
			}
		}

		available := !covered
		// Back-to-back turnover rule.
		if isTurn && !checkoutAt.IsZero() && !checkinAt.IsZero() &&
			checkinAt.Sub(checkoutAt) < r.turnGap() {
			available = false
		}

		days = append(days, DayAvailability{
			Date:      d.Format(dayFormat),
			Label:     d.Format("Mon, Jan 2"),
			Available: available,
			IsTurn:    isTurn,
		})
	}

	return days
}

// truncateDay drops the time-of-day component.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sameDay compares two instants by calendar date only.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
