package models

import (
	"time"
)

// SecurityCode is an access code for a property (door, gate, lockbox, wifi)
// with an optional validity window. Start is inclusive, end exclusive, both
// evaluated as calendar days in the office timezone.
type SecurityCode struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	CodeType   string    `json:"code_type"`
	Code       string    `json:"code"`
	StartDate  *string   `json:"start_date,omitempty"` // YYYY-MM-DD, inclusive
	EndDate    *string   `json:"end_date,omitempty"`   // YYYY-MM-DD, exclusive
	Notes      *string   `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Common code type constants. The column is free-form; these are the values
// the original data used.
const (
	CodeTypeDoor    = "door"
	CodeTypeGate    = "gate"
	CodeTypeLockbox = "lockbox"
	CodeTypeAlarm   = "alarm"
	CodeTypeWifi    = "wifi"
)
