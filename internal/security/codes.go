// Package security evaluates access-code validity windows.
//
// Code windows are calendar days in the office timezone, never UTC and
// never the caller's local zone: a gate code must flip on the same wall
// clock whether staff are at the office or traveling.
package security

import (
	"time"

	"github.com/media-tracker/backend/internal/storage/models"
)

// ZoneName is the fixed timezone all code windows are evaluated in.
const ZoneName = "America/Chicago"

const dayFormat = "2006-01-02"

var officeZone = loadOfficeZone()

// loadOfficeZone resolves the office timezone, falling back to a fixed CST
// offset on hosts without a tzdata database. The fallback loses DST
// awareness but keeps code evaluation running.
func loadOfficeZone() *time.Location {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		return time.FixedZone("CST", -6*60*60)
	}
	return loc
}

// TodayIn converts an instant to its YYYY-MM-DD calendar day in the office
// timezone, independent of the host's zone.
func TodayIn(now time.Time) string {
	return now.In(officeZone).Format(dayFormat)
}

// IsActiveOn reports whether a code is active on the given reference day
// (YYYY-MM-DD). Start is inclusive, end exclusive. A missing or malformed
// date is unbounded on that side: an unparseable start means "always
// started", an unparseable end means "never ends". Bad data widens a
// window rather than erroring, so a typo never locks staff out of a code
// list.
func IsActiveOn(code models.SecurityCode, referenceDay string) bool {
	if start, ok := validDay(code.StartDate); ok && referenceDay < start {
		return false
	}
	if end, ok := validDay(code.EndDate); ok && referenceDay >= end {
		return false
	}
	return true
}

// validDay returns the day string if it is present and well-formed.
// YYYY-MM-DD strings order lexicographically, so string comparison above is
// date comparison.
func validDay(day *string) (string, bool) {
	if day == nil || *day == "" {
		return "", false
	}
	if _, err := time.Parse(dayFormat, *day); err != nil {
		return "", false
	}
	return *day, true
}

// FilterActive returns the codes active on the reference day, preserving
// input order. No deduplication: overlapping windows for the same code
// type are all kept (handoff periods run two valid codes at once).
func FilterActive(codes []models.SecurityCode, referenceDay string) []models.SecurityCode {
	var active []models.SecurityCode
	for _, code := range codes {
		if IsActiveOn(code, referenceDay) {
			active = append(active, code)
		}
	}
	return active
}

// GroupByType groups codes by code type, preserving order within each
// group and keeping duplicates.
func GroupByType(codes []models.SecurityCode) map[string][]models.SecurityCode {
	grouped := make(map[string][]models.SecurityCode)
	for _, code := range codes {
		grouped[code.CodeType] = append(grouped[code.CodeType], code)
	}
	return grouped
}
