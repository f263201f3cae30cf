package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sungwon/mailvet/internal/jobs"
	"github.com/sungwon/mailvet/internal/reportstore"
	"github.com/sungwon/mailvet/internal/verify"
)

// jobResponse is the wire form of a job.
type jobResponse struct {
	ID        string                `json:"id"`
	State     jobs.State            `json:"state"`
	Total     int                   `json:"total"`
	Completed int                   `json:"completed"`
	Progress  float64               `json:"progress"`
	CreatedAt time.Time             `json:"created_at"`
	Summary   map[verify.Status]int `json:"summary,omitempty"`
	Results   []verify.Disposition  `json:"results,omitempty"`
}

func toJobResponse(job *jobs.Job) jobResponse {
	resp := jobResponse{
		ID:        job.ID,
		State:     job.State,
		Total:     job.Total,
		Completed: job.Completed,
		Progress:  job.Progress(),
		CreatedAt: job.CreatedAt,
	}
	if job.Result != nil {
		resp.Summary = job.Result.Summary()
		resp.Results = job.Result.Dispositions
	}
	return resp
}

// StartValidationHandler handles POST /api/v1/validations.
// Accepts the batch, returns 202 with the job ID, and runs the
// validation in the background.
func StartValidationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ValidationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		hasAddress := false
		for _, a := range req.Addresses {
			if strings.TrimSpace(a) != "" {
				hasAddress = true
				break
			}
		}
		if !hasAddress {
			respondError(w, http.StatusBadRequest, "addresses is required and must contain at least one non-blank entry")
			return
		}

		job, err := svc.StartValidation(r.Context(), req)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to start validation")
			return
		}

		respondJSON(w, http.StatusAccepted, toJobResponse(job))
	}
}

// GetValidationHandler handles GET /api/v1/validations/{id}.
// Returns the job state with progress, plus summary and per-address
// results once the job completes.
func GetValidationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		job, err := svc.GetJob(r.Context(), id)
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				respondError(w, http.StatusNotFound, "validation not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "failed to load validation")
			return
		}

		respondJSON(w, http.StatusOK, toJobResponse(job))
	}
}

// GetValidationReportHandler handles GET /api/v1/validations/{id}/report.
// Serves the finished CSV report; 409 while the job is still running.
func GetValidationReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		job, err := svc.GetJob(r.Context(), id)
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				respondError(w, http.StatusNotFound, "validation not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "failed to load validation")
			return
		}
		if job.State != jobs.StateCompleted {
			respondError(w, http.StatusConflict, "validation still in progress")
			return
		}

		csv, err := svc.GetReport(r.Context(), id)
		if err != nil {
			if errors.Is(err, reportstore.ErrNotFound) {
				respondError(w, http.StatusNotFound, "report not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "failed to load report")
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.csv"`)
		w.WriteHeader(http.StatusOK)
		w.Write(csv)
	}
}
