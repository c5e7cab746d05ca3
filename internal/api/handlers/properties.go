package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/media-tracker/backend/internal/api/middleware"
	"github.com/media-tracker/backend/internal/calendar"
	"github.com/media-tracker/backend/internal/storage"
	"github.com/media-tracker/backend/internal/storage/models"
)

// Property request types

type PropertyRequest struct {
	Name            string  `json:"name"`
	Address         *string `json:"address"`
	ICalURL         *string `json:"ical_url"`
	SyncIntervalMin int     `json:"sync_interval_min"`
	Enabled         bool    `json:"enabled"`
}

// ListProperties returns all properties.
func ListProperties(repo *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		properties, err := repo.List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query properties")
			return
		}

		if properties == nil {
			properties = []models.Property{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(properties)
	}
}

// CreateProperty adds a new property.
func CreateProperty(repo *storage.PropertyRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		property := &models.Property{
			Name:            req.Name,
			Address:         req.Address,
			ICalURL:         req.ICalURL,
			SyncIntervalMin: req.SyncIntervalMin,
			Enabled:         req.Enabled,
		}

		if err := repo.Create(r.Context(), property); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create property")
			return
		}

		if scheduler != nil {
			scheduler.ScheduleProperty(*property)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(property)
	}
}

// GetProperty returns a single property.
func GetProperty(repo *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		property, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(property)
	}
}

// UpdateProperty updates a property.
func UpdateProperty(repo *storage.PropertyRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		property, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		property.Name = req.Name
		property.Address = req.Address
		property.ICalURL = req.ICalURL
		property.SyncIntervalMin = req.SyncIntervalMin
		property.Enabled = req.Enabled

		if err := repo.Update(r.Context(), property); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update property")
			return
		}

		if scheduler != nil {
			scheduler.ScheduleProperty(*property)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(property)
	}
}

// DeleteProperty removes a property.
func DeleteProperty(repo *storage.PropertyRepository, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := repo.Delete(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		if scheduler != nil {
			scheduler.UnscheduleProperty(id)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// SyncProperty triggers an immediate feed refresh for a property.
func SyncProperty(repo *storage.PropertyRepository, syncService *calendar.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if syncService == nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, middleware.ErrInternalError, "Sync service not available")
			return
		}

		result, err := syncService.SyncProperty(r.Context(), id)
		if err != nil && result == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// GetAvailability computes day-level availability for a property over a
// requested range. Feed failures degrade to an empty feed, never a 5xx:
// availability is advisory.
func GetAvailability(repo *storage.PropertyRepository, fetcher *calendar.Fetcher, resolver *calendar.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		property, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		now := time.Now()
		from := now
		to := now.AddDate(0, 2, 0)

		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(models.DayFormat, s); err == nil {
				from = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(models.DayFormat, s); err == nil {
				to = t
			}
		}

		var intervals []calendar.BusyInterval
		if property.ICalURL != nil {
			intervals = fetcher.BusyIntervals(r.Context(), *property.ICalURL)
		}

		days := resolver.DailyAvailability(intervals, from, to, now)
		if days == nil {
			days = []calendar.DayAvailability{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(days)
	}
}

// ExportShootCalendar serves a property's scheduled shoots as an iCal feed.
func ExportShootCalendar(propertyRepo *storage.PropertyRepository, taskRepo *storage.TaskRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		property, err := propertyRepo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		tasks, err := taskRepo.ListScheduledByProperty(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query tasks")
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Write([]byte(calendar.ExportShoots(property, tasks, time.Now().UTC())))
	}
}
