package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/media-tracker/backend/internal/api/middleware"
	"github.com/media-tracker/backend/internal/security"
	"github.com/media-tracker/backend/internal/storage"
	"github.com/media-tracker/backend/internal/storage/models"
)

// Security code request types

type SecurityCodeRequest struct {
	PropertyID string  `json:"property_id"`
	CodeType   string  `json:"code_type"`
	Code       string  `json:"code"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Notes      *string `json:"notes"`
}

// ListSecurityCodes returns codes, optionally scoped to a property,
// filtered to those active on a reference day, and grouped by type.
//
// The reference day defaults to "today" in the office timezone; an `on`
// query parameter (YYYY-MM-DD) overrides it. Malformed `on` values fall
// back to today rather than erroring.
func ListSecurityCodes(repo *storage.SecurityCodeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var codes []models.SecurityCode
		var err error
		if propertyID := q.Get("property"); propertyID != "" {
			codes, err = repo.ListByProperty(r.Context(), propertyID)
		} else {
			codes, err = repo.List(r.Context())
		}
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query security codes")
			return
		}

		if q.Get("active") == "1" || q.Get("active") == "true" {
			referenceDay := security.TodayIn(time.Now())
			if on := q.Get("on"); on != "" {
				if _, err := time.Parse(models.DayFormat, on); err == nil {
					referenceDay = on
				}
			}
			codes = security.FilterActive(codes, referenceDay)
		}

		if codes == nil {
			codes = []models.SecurityCode{}
		}

		w.Header().Set("Content-Type", "application/json")
		if q.Get("grouped") == "1" || q.Get("grouped") == "true" {
			json.NewEncoder(w).Encode(security.GroupByType(codes))
			return
		}
		json.NewEncoder(w).Encode(codes)
	}
}

// CreateSecurityCode adds a new code.
func CreateSecurityCode(repo *storage.SecurityCodeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SecurityCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.PropertyID == "" || req.CodeType == "" || req.Code == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Property, code type and code are required")
			return
		}

		code := &models.SecurityCode{
			PropertyID: req.PropertyID,
			CodeType:   req.CodeType,
			Code:       req.Code,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			Notes:      req.Notes,
		}

		if err := repo.Create(r.Context(), code); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create security code")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(code)
	}
}

// UpdateSecurityCode updates a code.
func UpdateSecurityCode(repo *storage.SecurityCodeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		code, err := repo.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query security code")
			return
		}
		if code == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Security code not found")
			return
		}

		var req SecurityCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.CodeType != "" {
			code.CodeType = req.CodeType
		}
		if req.Code != "" {
			code.Code = req.Code
		}
		code.StartDate = req.StartDate
		code.EndDate = req.EndDate
		code.Notes = req.Notes

		if err := repo.Update(r.Context(), code); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update security code")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(code)
	}
}

// DeleteSecurityCode removes a code.
func DeleteSecurityCode(repo *storage.SecurityCodeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := repo.Delete(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Security code not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
