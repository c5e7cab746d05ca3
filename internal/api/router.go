// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"github.com/gorilla/mux"
	"github.com/media-tracker/backend/internal/api/handlers"
	"github.com/media-tracker/backend/internal/api/middleware"
	"github.com/media-tracker/backend/internal/calendar"
	"github.com/media-tracker/backend/internal/storage"
)

// Services bundles the dependencies the router hands to handlers.
type Services struct {
	DB           *storage.DB
	Properties   *storage.PropertyRepository
	Tasks        *storage.TaskRepository
	Codes        *storage.SecurityCodeRepository
	Settings     *storage.SettingsRepository
	Sync         *calendar.Service
	Scheduler    *calendar.Scheduler
	Fetcher      *calendar.Fetcher
	Availability *calendar.Resolver
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(s.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(s.DB)).Methods("GET")

	// Property endpoints
	api.HandleFunc("/properties", handlers.ListProperties(s.Properties)).Methods("GET")
	api.HandleFunc("/properties", handlers.CreateProperty(s.Properties, s.Scheduler)).Methods("POST")
	api.HandleFunc("/properties/{id}", handlers.GetProperty(s.Properties)).Methods("GET")
	api.HandleFunc("/properties/{id}", handlers.UpdateProperty(s.Properties, s.Scheduler)).Methods("PUT")
	api.HandleFunc("/properties/{id}", handlers.DeleteProperty(s.Properties, s.Scheduler)).Methods("DELETE")
	api.HandleFunc("/properties/{id}/sync", handlers.SyncProperty(s.Properties, s.Sync)).Methods("POST")
	api.HandleFunc("/properties/{id}/availability", handlers.GetAvailability(s.Properties, s.Fetcher, s.Availability)).Methods("GET")
	api.HandleFunc("/properties/{id}/shoots.ics", handlers.ExportShootCalendar(s.Properties, s.Tasks)).Methods("GET")

	// Task endpoints
	api.HandleFunc("/tasks", handlers.ListTasks(s.Tasks)).Methods("GET")
	api.HandleFunc("/tasks", handlers.CreateTask(s.Tasks, s.Properties)).Methods("POST")
	api.HandleFunc("/tasks/{id}", handlers.GetTask(s.Tasks)).Methods("GET")
	api.HandleFunc("/tasks/{id}", handlers.UpdateTask(s.Tasks)).Methods("PATCH")
	api.HandleFunc("/tasks/{id}", handlers.DeleteTask(s.Tasks)).Methods("DELETE")
	api.HandleFunc("/tasks/{id}/stages", handlers.GetTaskStages(s.Tasks)).Methods("GET")
	api.HandleFunc("/tasks/{id}/stage", handlers.ChangeStage(s.Tasks)).Methods("POST")
	api.HandleFunc("/tasks/{id}/schedule", handlers.ScheduleShoot(s.Tasks, s.Properties, s.Fetcher)).Methods("POST")

	// Security code endpoints
	api.HandleFunc("/security-codes", handlers.ListSecurityCodes(s.Codes)).Methods("GET")
	api.HandleFunc("/security-codes", handlers.CreateSecurityCode(s.Codes)).Methods("POST")
	api.HandleFunc("/security-codes/{id}", handlers.UpdateSecurityCode(s.Codes)).Methods("PUT")
	api.HandleFunc("/security-codes/{id}", handlers.DeleteSecurityCode(s.Codes)).Methods("DELETE")

	// Settings endpoints
	api.HandleFunc("/settings", handlers.GetSettings(s.Settings)).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings(s.Settings)).Methods("PUT")

	return r
}
