// Package scheduling detects booking conflicts between a proposed shoot
// window and a property's busy intervals, and fingerprints conflicts for
// the audit log.
package scheduling

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/media-tracker/backend/internal/calendar"
)

const dayFormat = "2006-01-02"

// Overlap is the outcome of a conflict check.
type Overlap struct {
	Overlapped  bool                    `json:"overlapped"`
	Overlapping []calendar.BusyInterval `json:"overlapping_intervals,omitempty"`
}

// DetectOverlap reports which busy intervals overlap the proposed shoot
// window [proposedStart, proposedEnd). Touching boundaries do not overlap:
// a shoot ending the day a stay begins is fine.
//
// The result list is sorted by start then end, so identical input sets
// produce identical output regardless of feed ordering.
//
// Callers that could not obtain feed text pass zero intervals and get "no
// conflict": the check is advisory and fails open by design. The stored
// fingerprint records what was known at booking time, so a silent fail-open
// is auditable later.
func DetectOverlap(intervals []calendar.BusyInterval, proposedStart, proposedEnd time.Time) Overlap {
	var overlapping []calendar.BusyInterval
	for _, iv := range intervals {
		if iv.Start.Before(proposedEnd) && proposedStart.Before(iv.End) {
			overlapping = append(overlapping, iv)
		}
	}

	sort.Slice(overlapping, func(i, j int) bool {
		if !overlapping[i].Start.Equal(overlapping[j].Start) {
			return overlapping[i].Start.Before(overlapping[j].Start)
		}
		return overlapping[i].End.Before(overlapping[j].End)
	})

	return Overlap{
		Overlapped:  len(overlapping) > 0,
		Overlapping: overlapping,
	}
}

// BlockFingerprint produces a deterministic hash of a booking's conflict
// state: the task, the proposed window, and every overlapping interval.
// The overlap list is sorted lexicographically before hashing, so the same
// real-world conflict always hashes identically whatever order the feed
// returned the intervals in. Stored once at booking time; later audits can
// tell whether a booking was made over a known conflict without re-deriving
// it from mutable calendar state.
func BlockFingerprint(taskID string, proposedStart, proposedEnd time.Time, overlapping []calendar.BusyInterval) string {
	pairs := make([]string, 0, len(overlapping))
	for _, iv := range overlapping {
		pairs = append(pairs, iv.Start.Format(dayFormat)+".."+iv.End.Format(dayFormat))
	}
	sort.Strings(pairs)

	parts := []string{
		taskID,
		proposedStart.Format(dayFormat),
		proposedEnd.Format(dayFormat),
	}
	parts = append(parts, pairs...)

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
