package scheduling_test

import (
	"testing"
	"time"

	"github.com/media-tracker/backend/internal/calendar"
	"github.com/media-tracker/backend/internal/scheduling"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDetectOverlap(t *testing.T) {
	intervals := []calendar.BusyInterval{
		{UID: "a", Start: day(2025, 7, 3), End: day(2025, 7, 5)},
		{UID: "b", Start: day(2025, 7, 10), End: day(2025, 7, 12)},
	}

	result := scheduling.DetectOverlap(intervals, day(2025, 7, 4), day(2025, 7, 6))
	if !result.Overlapped {
		t.Fatal("overlapping range not detected")
	}
	if len(result.Overlapping) != 1 || result.Overlapping[0].UID != "a" {
		t.Fatalf("overlapping = %v, want interval a", result.Overlapping)
	}

	result = scheduling.DetectOverlap(intervals, day(2025, 7, 6), day(2025, 7, 9))
	if result.Overlapped {
		t.Fatal("gap range reported as overlap")
	}
}

func TestDetectOverlapTouchingBoundaries(t *testing.T) {
	intervals := []calendar.BusyInterval{
		{Start: day(2025, 7, 3), End: day(2025, 7, 5)},
	}

	// Shoot ending the day a stay begins: half-open, no conflict.
	result := scheduling.DetectOverlap(intervals, day(2025, 7, 1), day(2025, 7, 3))
	if result.Overlapped {
		t.Fatal("touching end boundary reported as overlap")
	}

	// Shoot starting the day a stay ends: no conflict either.
	result = scheduling.DetectOverlap(intervals, day(2025, 7, 5), day(2025, 7, 7))
	if result.Overlapped {
		t.Fatal("touching start boundary reported as overlap")
	}
}

func TestDetectOverlapOrderIndependent(t *testing.T) {
	a := calendar.BusyInterval{UID: "a", Start: day(2025, 7, 1), End: day(2025, 7, 4)}
	b := calendar.BusyInterval{UID: "b", Start: day(2025, 7, 3), End: day(2025, 7, 8)}
	c := calendar.BusyInterval{UID: "c", Start: day(2025, 8, 1), End: day(2025, 8, 5)}

	orderings := [][]calendar.BusyInterval{
		{a, b, c},
		{c, b, a},
		{b, a, c},
	}

	for _, intervals := range orderings {
		result := scheduling.DetectOverlap(intervals, day(2025, 7, 2), day(2025, 7, 5))
		if !result.Overlapped {
			t.Fatal("overlap missed")
		}
		if len(result.Overlapping) != 2 {
			t.Fatalf("overlap count = %d, want 2", len(result.Overlapping))
		}
		// Sorted output regardless of input order.
		if result.Overlapping[0].UID != "a" || result.Overlapping[1].UID != "b" {
			t.Fatalf("overlap order = %s, %s; want a, b",
				result.Overlapping[0].UID, result.Overlapping[1].UID)
		}
	}
}

func TestBlockFingerprintOrderIndependent(t *testing.T) {
	a := calendar.BusyInterval{Start: day(2025, 7, 1), End: day(2025, 7, 4)}
	b := calendar.BusyInterval{Start: day(2025, 7, 3), End: day(2025, 7, 8)}

	fp1 := scheduling.BlockFingerprint("task-1", day(2025, 7, 2), day(2025, 7, 5), []calendar.BusyInterval{a, b})
	fp2 := scheduling.BlockFingerprint("task-1", day(2025, 7, 2), day(2025, 7, 5), []calendar.BusyInterval{b, a})
	if fp1 != fp2 {
		t.Fatalf("fingerprint depends on input order: %s != %s", fp1, fp2)
	}
	if len(fp1) != 64 {
		t.Fatalf("fingerprint length = %d, want 64 hex chars", len(fp1))
	}
}

func TestBlockFingerprintDistinguishesInputs(t *testing.T) {
	a := calendar.BusyInterval{Start: day(2025, 7, 1), End: day(2025, 7, 4)}
	b := calendar.BusyInterval{Start: day(2025, 7, 3), End: day(2025, 7, 8)}

	base := scheduling.BlockFingerprint("task-1", day(2025, 7, 2), day(2025, 7, 5), []calendar.BusyInterval{a})

	cases := map[string]string{
		"different task":     scheduling.BlockFingerprint("task-2", day(2025, 7, 2), day(2025, 7, 5), []calendar.BusyInterval{a}),
		"different range":    scheduling.BlockFingerprint("task-1", day(2025, 7, 2), day(2025, 7, 6), []calendar.BusyInterval{a}),
		"different overlaps": scheduling.BlockFingerprint("task-1", day(2025, 7, 2), day(2025, 7, 5), []calendar.BusyInterval{a, b}),
		"empty overlaps":     scheduling.BlockFingerprint("task-1", day(2025, 7, 2), day(2025, 7, 5), nil),
	}

	for name, fp := range cases {
		if fp == base {
			t.Fatalf("%s produced the same fingerprint", name)
		}
	}
}

func TestDetectOverlapFailOpen(t *testing.T) {
	// No feed text means no intervals; the check reports no conflict and
	// the booking proceeds.
	result := scheduling.DetectOverlap(nil, day(2025, 7, 1), day(2025, 7, 10))
	if result.Overlapped {
		t.Fatal("empty interval set reported a conflict")
	}
	if len(result.Overlapping) != 0 {
		t.Fatalf("overlapping = %v, want none", result.Overlapping)
	}
}
