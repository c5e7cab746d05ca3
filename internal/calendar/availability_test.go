package calendar

import (
	"testing"
	"time"
)

func TestDailyAvailabilitySingleInterval(t *testing.T) {
	intervals := []BusyInterval{
		{Start: day(2025, 6, 10), End: day(2025, 6, 15)},
	}
	today := day(2025, 6, 1)

	days := NewResolver().DailyAvailability(intervals, day(2025, 6, 9), day(2025, 6, 16), today)
	if len(days) != 8 {
		t.Fatalf("day count = %d, want 8", len(days))
	}

	byDate := make(map[string]DayAvailability)
	for _, d := range days {
		byDate[d.Date] = d
	}

	if !byDate["2025-06-09"].Available {
		t.Fatal("2025-06-09 should be available")
	}
	for _, date := range []string{"2025-06-10", "2025-06-11", "2025-06-12", "2025-06-13", "2025-06-14"} {
		if byDate[date].Available {
			t.Fatalf("%s should be unavailable", date)
		}
	}
	if !byDate["2025-06-10"].IsTurn {
		t.Fatal("2025-06-10 should be a turn day")
	}
	// Checkout day: the stay ends at 00:00, the day is free.
	if !byDate["2025-06-15"].Available {
		t.Fatal("2025-06-15 should be available (end is exclusive)")
	}
	if byDate["2025-06-15"].IsTurn {
		t.Fatal("2025-06-15 should not be a turn day")
	}
}

func TestDailyAvailabilityBackToBack(t *testing.T) {
	intervals := []BusyInterval{
		{Start: day(2025, 6, 10), End: day(2025, 6, 15)},
		{Start: day(2025, 6, 15), End: day(2025, 6, 20)},
	}
	today := day(2025, 6, 1)

	days := NewResolver().DailyAvailability(intervals, day(2025, 6, 15), day(2025, 6, 15), today)
	if len(days) != 1 {
		t.Fatalf("day count = %d, want 1", len(days))
	}
	// Same-day turnover with zero gap: no window for a shoot.
	if days[0].Available {
		t.Fatal("back-to-back turnover day should be unavailable")
	}
	if !days[0].IsTurn {
		t.Fatal("back-to-back turnover day should be a turn day")
	}
}

func TestDailyAvailabilityZeroValueResolver(t *testing.T) {
	// Zero-value TurnGap falls back to the default; same-day all-day
	// turnover stays blocked.
	intervals := []BusyInterval{
		{Start: day(2025, 6, 10), End: day(2025, 6, 15)},
		{Start: day(2025, 6, 15), End: day(2025, 6, 20)},
	}
	today := day(2025, 6, 1)

	r := &Resolver{}
	days := r.DailyAvailability(intervals, day(2025, 6, 15), day(2025, 6, 15), today)
	if days[0].Available || !days[0].IsTurn {
		t.Fatalf("zero-gap turnover: available=%t isTurn=%t, want blocked turn day",
			days[0].Available, days[0].IsTurn)
	}
	if DefaultTurnGap != 8*time.Hour {
		t.Fatalf("DefaultTurnGap = %v, want 8h", DefaultTurnGap)
	}
}

func TestDailyAvailabilityExcludesPastDays(t *testing.T) {
	today := day(2025, 6, 10)

	days := NewResolver().DailyAvailability(nil, day(2025, 6, 5), day(2025, 6, 12), today)
	if len(days) != 3 {
		t.Fatalf("day count = %d, want 3 (past days excluded)", len(days))
	}
	if days[0].Date != "2025-06-10" {
		t.Fatalf("first day = %s, want 2025-06-10", days[0].Date)
	}
}

func TestDailyAvailabilityEmptyIntervals(t *testing.T) {
	today := day(2025, 6, 1)

	days := NewResolver().DailyAvailability(nil, day(2025, 6, 10), day(2025, 6, 12), today)
	if len(days) != 3 {
		t.Fatalf("day count = %d, want 3", len(days))
	}
	for _, d := range days {
		if !d.Available || d.IsTurn {
			t.Fatalf("day %s: available=%t isTurn=%t, want open day", d.Date, d.Available, d.IsTurn)
		}
	}
}

func TestDailyAvailabilityLabels(t *testing.T) {
	today := day(2025, 6, 1)

	days := NewResolver().DailyAvailability(nil, day(2025, 6, 10), day(2025, 6, 10), today)
	if days[0].Label != "Tue, Jun 10" {
		t.Fatalf("label = %q, want %q", days[0].Label, "Tue, Jun 10")
	}
}
