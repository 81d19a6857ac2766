package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/user/careerscan/internal/adapter/spreadsheet"
	"github.com/user/careerscan/internal/delivery/http/request"
	"github.com/user/careerscan/internal/delivery/http/response"
	"github.com/user/careerscan/internal/entity"
	"github.com/user/careerscan/internal/repository"
	"github.com/user/careerscan/internal/usecase"
)

const (
	maxSeedBodyBytes = 10 << 20
	mimeCSV          = "text/csv"
	mimeXLSX         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	searches usecase.SearchManager
	checks   map[string]HealthCheck
}

func NewHandler(searches usecase.SearchManager, checks map[string]HealthCheck) *Handler {
	return &Handler{
		searches: searches,
		checks:   checks,
	}
}

// HandleSubmitSearch accepts a JSON body or a seed sheet uploaded as CSV or XLSX.
func (h *Handler) HandleSubmitSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSeedBodyBytes)

	req, err := decodeSearchRequest(r)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	runID, err := h.searches.Submit(r.Context(), req)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	resp := response.SubmitSearchResponse{
		Status:  "success",
		Message: "Search submitted",
		RunID:   runID,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func decodeSearchRequest(r *http.Request) (usecase.SearchRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var sheet *spreadsheet.Sheet
	var err error
	switch mediaType {
	case mimeCSV:
		sheet, err = spreadsheet.ReadCSV(r.Body)
	case mimeXLSX:
		sheet, err = spreadsheet.ReadXLSX(r.Body)
	default:
		var body request.SubmitSearchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return usecase.SearchRequest{}, err
			}
			return usecase.SearchRequest{}, &entity.ConfigError{Problems: []string{"invalid request body"}}
		}
		return usecase.SearchRequest{Seeds: body.Seeds, Include: body.Include, Exclude: body.Exclude}, nil
	}
	if err != nil {
		return usecase.SearchRequest{}, err
	}
	return usecase.SearchRequest{Seeds: sheet.Seeds, Include: sheet.Include, Exclude: sheet.Exclude}, nil
}

func (h *Handler) HandleGetSearch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.searches.Status(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, id, "Failed to get search status", err)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *Handler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := h.searches.Results(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, id, "Failed to get search results", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.JobRecordsResponse{RunID: id, Count: len(records), Jobs: records})
}

func (h *Handler) HandleGetFailures(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	failed, err := h.searches.Failures(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, id, "Failed to get failed URLs", err)
		return
	}

	resp := response.FailuresResponse{RunID: id, Failures: make([]response.FailedURLResponse, 0, len(failed))}
	for _, f := range failed {
		resp.Failures = append(resp.Failures, response.FailedURLResponse{
			URL:           f.URL,
			Organization:  f.Organization,
			Kind:          string(f.Kind),
			FailureReason: f.FailureReason,
			Round:         f.Round,
			AttemptCount:  f.AttemptCount,
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleDownload streams the results as CSV, or XLSX with ?format=xlsx.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	records, err := h.searches.Results(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, id, "Failed to get search results", err)
		return
	}

	write, contentType, ext := spreadsheet.WriteCSV, mimeCSV, "csv"
	if r.URL.Query().Get("format") == "xlsx" {
		write, contentType, ext = spreadsheet.WriteXLSX, mimeXLSX, "xlsx"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+"."+ext))
	w.WriteHeader(http.StatusOK)
	if err := write(w, records); err != nil {
		slog.Error("Failed to write download", "run_id", id, "error", err)
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"status": "ok"}
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			healthStatus[name] = "unhealthy"
			healthy = false
			slog.Error("Health check failed", "dependency", name, "error", err)
			continue
		}
		healthStatus[name] = "healthy"
	}

	if !healthy {
		healthStatus["status"] = "degraded"
		h.writeJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	h.writeJSON(w, http.StatusOK, healthStatus)
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, err error) {
	var cfgErr *entity.ConfigError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &cfgErr):
		h.writeJSON(w, http.StatusBadRequest, response.ErrorResponse{Error: "Invalid search request", Problems: cfgErr.Problems})
	case errors.As(err, &maxErr):
		h.writeJSONError(w, "Request body too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, usecase.ErrManagerClosed):
		h.writeJSONError(w, "Server is shutting down", http.StatusServiceUnavailable)
	default:
		slog.Error("Failed to submit search", "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeLookupError(w http.ResponseWriter, id, msg string, err error) {
	if errors.Is(err, repository.ErrRunNotFound) {
		h.writeJSONError(w, "Search run not found", http.StatusNotFound)
		return
	}
	slog.Error(msg, "run_id", id, "error", err)
	h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
