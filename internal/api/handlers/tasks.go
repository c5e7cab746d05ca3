package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/media-tracker/backend/internal/api/middleware"
	"github.com/media-tracker/backend/internal/calendar"
	"github.com/media-tracker/backend/internal/scheduling"
	"github.com/media-tracker/backend/internal/storage"
	"github.com/media-tracker/backend/internal/storage/models"
	"github.com/media-tracker/backend/internal/workflow"
)

// Task request types

type CreateTaskRequest struct {
	PropertyID string `json:"property_id"`
	Title      string `json:"title"`
	MediaType  string `json:"media_type"`
}

type UpdateTaskRequest struct {
	Title                *string  `json:"title"`
	AssignedPhotographer *string  `json:"assigned_photographer"`
	AssignedEditors      []string `json:"assigned_editors"`
}

type StageChangeRequest struct {
	Stage string `json:"stage"`
	Actor string `json:"actor"`
}

type ScheduleShootRequest struct {
	ShootDate models.ShootDate `json:"scheduled_shoot_date"`
	Actor     string           `json:"actor"`
}

type ScheduleShootResponse struct {
	Task        *models.Task       `json:"task"`
	Conflict    scheduling.Overlap `json:"conflict"`
	Fingerprint string             `json:"fingerprint"`
}

// taskView decorates a task with its effective stage, which may differ
// from the stored value when the stored value is stale or invalid.
type taskView struct {
	models.Task
	EffectiveStage string `json:"effective_stage"`
}

func viewOf(task models.Task) taskView {
	return taskView{Task: task, EffectiveStage: workflow.Current(&task)}
}

// ListTasks returns tasks, filterable by stage, media type and property.
func ListTasks(repo *storage.TaskRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var tasks []models.Task
		var err error
		if propertyID := q.Get("property"); propertyID != "" {
			tasks, err = repo.ListByProperty(r.Context(), propertyID)
		} else {
			tasks, err = repo.List(r.Context(), q.Get("stage"), q.Get("media_type"))
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query tasks")
			return
		}

		views := make([]taskView, 0, len(tasks))
		for _, task := range tasks {
			views = append(views, viewOf(task))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(views)
	}
}

// CreateTask adds a new task at the initial stage.
func CreateTask(taskRepo *storage.TaskRepository, propertyRepo *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.PropertyID == "" || req.Title == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Property and title are required")
			return
		}

		property, err := propertyRepo.GetByID(r.Context(), req.PropertyID)
		if err != nil || property == nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Unknown property")
			return
		}

		if req.MediaType == "" {
			req.MediaType = models.MediaTypePhotos
		}

		task := &models.Task{
			PropertyID: req.PropertyID,
			Title:      req.Title,
			MediaType:  req.MediaType,
			Stage:      workflow.StagesFor(req.MediaType).Names[0],
		}

		if err := taskRepo.Create(r.Context(), task); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create task")
			return
		}

		taskRepo.AppendLog(r.Context(), &models.TaskLogEntry{
			TaskID: task.ID,
			Action: models.LogActionCreated,
			Detail: fmt.Sprintf("media_type=%s", task.MediaType),
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(viewOf(*task))
	}
}

// GetTask returns a single task with its log.
func GetTask(repo *storage.TaskRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		task, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query task")
			return
		}
		if task == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Task not found")
			return
		}

		log, err := repo.ListLog(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query task log")
			return
		}

		response := struct {
			taskView
			Log []models.TaskLogEntry `json:"log"`
		}{viewOf(*task), log}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// UpdateTask updates assignment and title fields. Stage and shoot date have
// their own endpoints so every change lands in the task log.
func UpdateTask(repo *storage.TaskRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		task, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query task")
			return
		}
		if task == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Task not found")
			return
		}

		var req UpdateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Title != nil {
			task.Title = *req.Title
		}
		if req.AssignedPhotographer != nil {
			task.AssignedPhotographer = req.AssignedPhotographer
		}
		if req.AssignedEditors != nil {
			task.AssignedEditors = req.AssignedEditors
		}

		if err := repo.Update(r.Context(), task); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update task")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(viewOf(*task))
	}
}

// DeleteTask removes a task.
func DeleteTask(repo *storage.TaskRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := repo.Delete(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Task not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// GetTaskStages returns the ordered stage list for a task's media type.
func GetTaskStages(repo *storage.TaskRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		task, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query task")
			return
		}
		if task == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Task not found")
			return
		}

		list := workflow.StagesFor(task.MediaType)
		response := struct {
			Names        []string          `json:"names"`
			Descriptions map[string]string `json:"descriptions"`
			Current      string            `json:"current"`
		}{list.Names, list.Descriptions, workflow.Current(task)}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// ChangeStage moves a task to another stage.
//
// The workflow core allows any valid stage, including backward moves; when
// an identity layer is added, restricting backward moves to managers
// belongs here, not in the workflow package.
func ChangeStage(repo *storage.TaskRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		task, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query task")
			return
		}
		if task == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Task not found")
			return
		}

		var req StageChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if !workflow.ValidTransition(task, req.Stage) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation,
				fmt.Sprintf("%q is not a valid stage for media type %q", req.Stage, task.MediaType))
			return
		}

		from := workflow.Current(task)
		task.Stage = workflow.CanonicalStage(req.Stage)

		if err := repo.Update(r.Context(), task); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update task")
			return
		}

		repo.AppendLog(r.Context(), &models.TaskLogEntry{
			TaskID: task.ID,
			Action: models.LogActionStageChanged,
			Detail: fmt.Sprintf("%s -> %s", from, task.Stage),
			Actor:  req.Actor,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(viewOf(*task))
	}
}

// ScheduleShoot books a shoot window for a task.
//
// The conflict check is advisory: when the property's feed is missing or
// unreadable the booking proceeds with zero known intervals, and the stored
// fingerprint records exactly that. An overlapped booking is not rejected
// either; it is stored with booked_over_conflict set so audits can find it.
func ScheduleShoot(taskRepo *storage.TaskRepository, propertyRepo *storage.PropertyRepository, fetcher *calendar.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		task, err := taskRepo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query task")
			return
		}
		if task == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Task not found")
			return
		}

		var req ScheduleShootRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.ShootDate.IsZero() {
			// Clearing the shoot date.
			task.ShootDate = models.ShootDate{}
			task.ConflictFingerprint = nil
			task.BookedOverConflict = false

			if err := taskRepo.Update(r.Context(), task); err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update task")
				return
			}
			taskRepo.AppendLog(r.Context(), &models.TaskLogEntry{
				TaskID: task.ID,
				Action: models.LogActionUnscheduled,
				Actor:  req.Actor,
			})

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(ScheduleShootResponse{Task: task})
			return
		}

		start, end, _ := req.ShootDate.Bounds()

		var intervals []calendar.BusyInterval
		property, err := propertyRepo.GetByID(r.Context(), task.PropertyID)
		if err == nil && property != nil && property.ICalURL != nil {
			intervals = fetcher.BusyIntervals(r.Context(), *property.ICalURL)
		}

		overlap := scheduling.DetectOverlap(intervals, start, end)
		fingerprint := scheduling.BlockFingerprint(task.ID, start, end, overlap.Overlapping)

		task.ShootDate = req.ShootDate
		task.ConflictFingerprint = &fingerprint
		task.BookedOverConflict = overlap.Overlapped
		if workflow.Current(task) == workflow.StageScheduling {
			task.Stage = workflow.StageShooting
		}

		if err := taskRepo.Update(r.Context(), task); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update task")
			return
		}

		detail := fmt.Sprintf("%s..%s fingerprint=%s overlapped=%t",
			start.Format(models.DayFormat), end.Format(models.DayFormat), fingerprint, overlap.Overlapped)
		taskRepo.AppendLog(r.Context(), &models.TaskLogEntry{
			TaskID: task.ID,
			Action: models.LogActionScheduled,
			Detail: detail,
			Actor:  req.Actor,
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ScheduleShootResponse{
			Task:        task,
			Conflict:    overlap,
			Fingerprint: fingerprint,
		})
	}
}
