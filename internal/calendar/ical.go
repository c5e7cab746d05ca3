// Package calendar provides iCal feed parsing, availability projection and
// feed refresh for property booking calendars.
package calendar

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// BusyInterval is one half-open busy window [Start, End) parsed from a
// booking feed. End is exclusive: a stay checking out on day D does not
// occupy day D.
type BusyInterval struct {
	UID     string    `json:"uid,omitempty"`
	Summary string    `json:"summary,omitempty"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Parser parses iCal/ICS booking feeds into busy intervals.
//
// The parser is deliberately tolerant: event blocks missing either date are
// dropped, unrecognized lines are ignored, and garbage input yields an
// empty result rather than an error. Availability checks are advisory and
// must never fail on a broken feed.
type Parser struct{}

// NewParser creates a new iCal parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads iCal data and returns the well-formed busy intervals it
// contains, in feed order.
func (p *Parser) Parse(r io.Reader) []BusyInterval {
	var intervals []BusyInterval
	var current *BusyInterval
	var currentField string
	var multilineValue strings.Builder

	flush := func() {
		if currentField != "" && current != nil {
			p.setField(current, currentField, multilineValue.String())
		}
		currentField = ""
		multilineValue.Reset()
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		// Folded lines (leading space or tab) continue the previous value.
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if currentField != "" {
				multilineValue.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, " "), "\t"))
			}
			continue
		}

		flush()

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue
		}

		field := line[:colonIdx]
		value := line[colonIdx+1:]

		// Strip property parameters (e.g. DTSTART;VALUE=DATE:20250610).
		if semicolonIdx := strings.Index(field, ";"); semicolonIdx != -1 {
			field = field[:semicolonIdx]
		}

		switch field {
		case "BEGIN":
			if value == "VEVENT" {
				current = &BusyInterval{}
			}
		case "END":
			if value == "VEVENT" && current != nil {
				// Partial events are skipped, never emitted.
				if !current.Start.IsZero() && !current.End.IsZero() {
					intervals = append(intervals, *current)
				}
				current = nil
			}
		case "UID", "SUMMARY", "DTSTART", "DTEND":
			if current != nil {
				currentField = field
				multilineValue.WriteString(value)
			}
		}
	}
	flush()

	// A truncated read still yields the intervals parsed so far.
	return intervals
}

// setField sets a field on a BusyInterval, unescaping common iCal escapes.
func (p *Parser) setField(iv *BusyInterval, field, value string) {
	value = strings.ReplaceAll(value, "\\n", "\n")
	value = strings.ReplaceAll(value, "\\,", ",")
	value = strings.ReplaceAll(value, "\\;", ";")
	value = strings.ReplaceAll(value, "\\\\", "\\")

	switch field {
	case "UID":
		iv.UID = value
	case "SUMMARY":
		iv.Summary = value
	case "DTSTART":
		iv.Start = p.parseDateTime(value)
	case "DTEND":
		iv.End = p.parseDateTime(value)
	}
}

// parseDateTime parses an iCal date/time value. Booking feeds use all-day
// dates almost exclusively, but timestamped forms show up too.
func (p *Parser) parseDateTime(value string) time.Time {
	formats := []string{
		"20060102T150405Z",     // UTC datetime
		"20060102T150405",      // Local datetime
		"20060102",             // Date only
		"2006-01-02T15:04:05Z", // ISO 8601 with dashes
		"2006-01-02",           // ISO 8601 date
	}

	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t
		}
	}

	return time.Time{}
}

// FilterFutureIntervals returns only intervals that haven't ended yet.
func FilterFutureIntervals(intervals []BusyInterval, now time.Time) []BusyInterval {
	var future []BusyInterval
	for _, iv := range intervals {
		if iv.End.After(now) {
			future = append(future, iv)
		}
	}
	return future
}
