package models

import (
	"time"
)

// Property represents a rental property whose media production is tracked.
// The iCal URL points at the property's booking calendar feed; it is the
// source for availability and conflict checks.
type Property struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Address         *string    `json:"address,omitempty"`
	ICalURL         *string    `json:"ical_url,omitempty"`
	SyncIntervalMin int        `json:"sync_interval_min"`
	LastSyncAt      *time.Time `json:"last_sync_at,omitempty"`
	SyncStatus      string     `json:"sync_status"`
	SyncError       *string    `json:"sync_error,omitempty"`
	Enabled         bool       `json:"enabled"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SyncStatus constants
const (
	SyncStatusPending = "pending"
	SyncStatusSyncing = "syncing"
	SyncStatusSuccess = "success"
	SyncStatusError   = "error"
)

// FeedSyncResult contains the results of refreshing one property's feed.
type FeedSyncResult struct {
	PropertyID   string    `json:"property_id"`
	PropertyName string    `json:"property_name"`
	IntervalsFound int     `json:"intervals_found"`
	Error        error     `json:"-"`
	SyncedAt     time.Time `json:"synced_at"`
}
