// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/media-tracker/backend/internal/storage"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		response := HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	PropertiesCount     int      `json:"properties_count"`
	TasksCount          int      `json:"tasks_count"`
	OpenTasksCount      int      `json:"open_tasks_count"`
	SecurityCodesCount  int      `json:"security_codes_count"`
	ScheduledProperties []string `json:"scheduled_properties,omitempty"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var response StatusResponse
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties").Scan(&response.PropertiesCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&response.TasksCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE stage != 'Completed'").Scan(&response.OpenTasksCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM security_codes").Scan(&response.SecurityCodesCount)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
