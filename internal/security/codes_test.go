package security_test

import (
	"testing"
	"time"

	"github.com/media-tracker/backend/internal/security"
	"github.com/media-tracker/backend/internal/storage/models"
)

func str(s string) *string { return &s }

func TestIsActiveOnBoundaries(t *testing.T) {
	code := models.SecurityCode{
		CodeType:  models.CodeTypeDoor,
		Code:      "4821",
		StartDate: str("2025-01-01"),
		EndDate:   str("2025-01-10"),
	}

	cases := []struct {
		day  string
		want bool
	}{
		{"2024-12-31", false}, // day before start
		{"2025-01-01", true},  // start day, inclusive
		{"2025-01-09", true},  // last day inside the window
		{"2025-01-10", false}, // end day, exclusive
		{"2025-02-01", false},
	}

	for _, tc := range cases {
		if got := security.IsActiveOn(code, tc.day); got != tc.want {
			t.Fatalf("IsActiveOn(%s) = %t, want %t", tc.day, got, tc.want)
		}
	}
}

func TestIsActiveOnUnboundedSides(t *testing.T) {
	noWindow := models.SecurityCode{Code: "1111"}
	if !security.IsActiveOn(noWindow, "1999-01-01") || !security.IsActiveOn(noWindow, "2099-01-01") {
		t.Fatal("code with no window should always be active")
	}

	openEnded := models.SecurityCode{Code: "2222", StartDate: str("2025-06-01")}
	if security.IsActiveOn(openEnded, "2025-05-31") {
		t.Fatal("open-ended code active before its start")
	}
	if !security.IsActiveOn(openEnded, "2099-01-01") {
		t.Fatal("open-ended code should never expire")
	}
}

func TestIsActiveOnMalformedDates(t *testing.T) {
	// A malformed date is unbounded on that side rather than an error.
	code := models.SecurityCode{
		Code:      "3333",
		StartDate: str("01/06/2025"),
		EndDate:   str("2025-06-30"),
	}
	if !security.IsActiveOn(code, "1999-01-01") {
		t.Fatal("malformed start should mean always started")
	}
	if security.IsActiveOn(code, "2025-06-30") {
		t.Fatal("well-formed end still binds")
	}

	emptyEnd := models.SecurityCode{Code: "4444", EndDate: str("")}
	if !security.IsActiveOn(emptyEnd, "2099-01-01") {
		t.Fatal("empty end should mean never ends")
	}
}

func TestFilterActivePreservesOrderAndDuplicates(t *testing.T) {
	codes := []models.SecurityCode{
		{ID: "old", CodeType: models.CodeTypeGate, Code: "1000", EndDate: str("2025-06-15")},
		{ID: "new", CodeType: models.CodeTypeGate, Code: "2000", StartDate: str("2025-06-10")},
		{ID: "expired", CodeType: models.CodeTypeDoor, Code: "3000", EndDate: str("2025-01-01")},
		{ID: "wifi", CodeType: models.CodeTypeWifi, Code: "guest-net"},
	}

	// During a handoff both gate codes are live; neither is dropped.
	active := security.FilterActive(codes, "2025-06-12")
	if len(active) != 3 {
		t.Fatalf("active count = %d, want 3", len(active))
	}
	if active[0].ID != "old" || active[1].ID != "new" || active[2].ID != "wifi" {
		t.Fatalf("active order = %s, %s, %s", active[0].ID, active[1].ID, active[2].ID)
	}
}

func TestGroupByType(t *testing.T) {
	codes := []models.SecurityCode{
		{ID: "g1", CodeType: models.CodeTypeGate, Code: "1000"},
		{ID: "d1", CodeType: models.CodeTypeDoor, Code: "2000"},
		{ID: "g2", CodeType: models.CodeTypeGate, Code: "3000"},
	}

	grouped := security.GroupByType(codes)
	if len(grouped) != 2 {
		t.Fatalf("group count = %d, want 2", len(grouped))
	}
	gates := grouped[models.CodeTypeGate]
	if len(gates) != 2 || gates[0].ID != "g1" || gates[1].ID != "g2" {
		t.Fatalf("gate group = %v, want g1 then g2", gates)
	}
}

func TestTodayInOfficeZone(t *testing.T) {
	// 03:00 UTC is still the previous evening in Chicago (UTC-5 or -6).
	utcMorning := time.Date(2025, 6, 15, 3, 0, 0, 0, time.UTC)
	if got := security.TodayIn(utcMorning); got != "2025-06-14" {
		t.Fatalf("TodayIn = %s, want 2025-06-14", got)
	}

	utcNoon := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	if got := security.TodayIn(utcNoon); got != "2025-06-15" {
		t.Fatalf("TodayIn = %s, want 2025-06-15", got)
	}
}
