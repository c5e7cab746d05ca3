package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/media-tracker/backend/internal/api/middleware"
	"github.com/media-tracker/backend/internal/storage"
)

// SettingsResponse represents settings in API responses.
type SettingsResponse struct {
	DefaultSyncIntervalMin string `json:"default_sync_interval_min"`
	FeedCacheTTLMin        string `json:"feed_cache_ttl_min"`
	TurnGapHours           string `json:"turn_gap_hours"`
}

// GetSettings returns all settings.
func GetSettings(repo *storage.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := repo.GetAll(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}

		response := SettingsResponse{
			DefaultSyncIntervalMin: settings[storage.SettingDefaultSyncIntervalMin],
			FeedCacheTTLMin:        settings[storage.SettingFeedCacheTTLMin],
			TurnGapHours:           settings[storage.SettingTurnGapHours],
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// UpdateSettings updates settings. Changes to intervals and gaps apply on
// the next scheduler refresh or resolver construction.
func UpdateSettings(repo *storage.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SettingsResponse
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		settings := map[string]string{
			storage.SettingDefaultSyncIntervalMin: req.DefaultSyncIntervalMin,
			storage.SettingFeedCacheTTLMin:        req.FeedCacheTTLMin,
			storage.SettingTurnGapHours:           req.TurnGapHours,
		}

		for key, value := range settings {
			if value == "" {
				continue
			}
			if err := repo.Set(r.Context(), key, value); err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update settings")
				return
			}
		}

		GetSettings(repo)(w, r)
	}
}
