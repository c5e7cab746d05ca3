// Package models contains the domain models for the application.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Media type constants. Unknown values fall back to the default stage list
// rather than erroring; see the workflow package.
const (
	MediaTypePhotos = "photos"
	MediaTypeVideo  = "video"
	MediaType3DTour = "3d_tours"
)

// Task represents a single media-production deliverable for a property.
type Task struct {
	ID                   string    `json:"id"`
	PropertyID           string    `json:"property_id"`
	Title                string    `json:"title"`
	MediaType            string    `json:"media_type"`
	Stage                string    `json:"stage"`
	ShootDate            ShootDate `json:"scheduled_shoot_date"`
	AssignedPhotographer *string   `json:"assigned_photographer,omitempty"`
	AssignedEditors      []string  `json:"assigned_editors"`
	ConflictFingerprint  *string   `json:"conflict_fingerprint,omitempty"`
	BookedOverConflict   bool      `json:"booked_over_conflict"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TaskLogEntry is one record in a task's append-only activity log.
// Entries are only ever inserted, never updated or deleted.
type TaskLogEntry struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Task log action constants
const (
	LogActionCreated      = "created"
	LogActionStageChanged = "stage_changed"
	LogActionScheduled    = "shoot_scheduled"
	LogActionUnscheduled  = "shoot_unscheduled"
)

// ShootDateKind discriminates the scheduled-shoot-date union.
type ShootDateKind int

const (
	ShootDateNone ShootDateKind = iota
	ShootDateSingle
	ShootDateRange
)

// DayFormat is the calendar-day wire format used everywhere a date crosses
// an external boundary.
const DayFormat = "2006-01-02"

// ShootDate is the normalized form of the scheduled shoot date, which
// arrives from clients as absent, a single "YYYY-MM-DD" string, or a
// {start, end} pair (inclusive range).
type ShootDate struct {
	Kind  ShootDateKind
	Start string // YYYY-MM-DD, set for Single and Range
	End   string // YYYY-MM-DD, set for Range only
}

// shootDateRange is the object form on the wire.
type shootDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UnmarshalJSON normalizes the three external shapes into the sum type.
// This is the single place the untyped field is interpreted.
func (d *ShootDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = ShootDate{}
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if _, perr := time.Parse(DayFormat, single); perr != nil {
			return fmt.Errorf("invalid shoot date %q", single)
		}
		*d = ShootDate{Kind: ShootDateSingle, Start: single}
		return nil
	}

	var rng shootDateRange
	if err := json.Unmarshal(data, &rng); err != nil {
		return fmt.Errorf("invalid shoot date: %w", err)
	}
	if _, err := time.Parse(DayFormat, rng.Start); err != nil {
		return fmt.Errorf("invalid shoot date start %q", rng.Start)
	}
	if _, err := time.Parse(DayFormat, rng.End); err != nil {
		return fmt.Errorf("invalid shoot date end %q", rng.End)
	}
	if rng.End < rng.Start {
		return fmt.Errorf("shoot date end %q before start %q", rng.End, rng.Start)
	}
	*d = ShootDate{Kind: ShootDateRange, Start: rng.Start, End: rng.End}
	return nil
}

// MarshalJSON emits the external shape matching the kind.
func (d ShootDate) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case ShootDateSingle:
		return json.Marshal(d.Start)
	case ShootDateRange:
		return json.Marshal(shootDateRange{Start: d.Start, End: d.End})
	default:
		return []byte("null"), nil
	}
}

// IsZero reports whether no shoot date is set.
func (d ShootDate) IsZero() bool {
	return d.Kind == ShootDateNone
}

// Bounds returns the shoot window as day-granularity times. For a single
// day the window is that one day. ok is false when no date is set.
func (d ShootDate) Bounds() (start, end time.Time, ok bool) {
	switch d.Kind {
	case ShootDateSingle:
		start, _ = time.Parse(DayFormat, d.Start)
		return start, start, true
	case ShootDateRange:
		start, _ = time.Parse(DayFormat, d.Start)
		end, _ = time.Parse(DayFormat, d.End)
		return start, end, true
	default:
		return time.Time{}, time.Time{}, false
	}
}
