package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/common/models"
	"github.com/iccs-ops/apr-portal/pkg/observability/metrics"
	"github.com/iccs-ops/apr-portal/pkg/status"
)

// StatusLister exposes the per-process calendar for the status endpoint.
type StatusLister interface {
	ListByProcess(ctx context.Context, process string) ([]status.UploadStatus, error)
}

type Handler struct {
	service     *Service
	repo        *Repository
	statuses    StatusLister
	processList func() ([]string, error)
	maxBody     int64
}

func NewHandler(service *Service, repo *Repository, statuses StatusLister, processList func() ([]string, error), maxBody int64) *Handler {
	return &Handler{
		service:     service,
		repo:        repo,
		statuses:    statuses,
		processList: processList,
		maxBody:     maxBody,
	}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/upload", h.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/uploads", h.handleListUploads).Methods(http.MethodGet)
	r.HandleFunc("/processes", h.handleListProcesses).Methods(http.MethodGet)
	r.HandleFunc("/status/{process}", h.handleProcessStatus).Methods(http.MethodGet)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := r.ParseMultipartForm(h.maxBody); err != nil {
		http.Error(w, "invalid multipart request", http.StatusBadRequest)
		return
	}

	process := r.FormValue("process")
	if process == "" {
		http.Error(w, "process is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	resp, err := h.service.Upload(r.Context(), process, header.Filename, file, resolveActor(r))
	if err != nil {
		if IsValidationError(err) {
			metrics.IncUploadRejected()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to process upload")
		http.Error(w, "failed to process upload", http.StatusInternalServerError)
		return
	}
	metrics.IncUploadAccepted()
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleListUploads(w http.ResponseWriter, r *http.Request) {
	process := r.URL.Query().Get("process")
	limit := parseLimit(r, 50)
	files, err := h.repo.List(r.Context(), process, limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list uploads")
		http.Error(w, "failed to list uploads", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": files})
}

func (h *Handler) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	processes, err := h.processList()
	if err != nil {
		logger.Log.WithError(err).Error("failed to load process list")
		http.Error(w, "failed to load process list", http.StatusInternalServerError)
		return
	}
	if processes == nil {
		processes = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": processes})
}

func (h *Handler) handleProcessStatus(w http.ResponseWriter, r *http.Request) {
	process := mux.Vars(r)["process"]
	entries, err := h.statuses.ListByProcess(r.Context(), process)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list upload status")
		http.Error(w, "failed to list upload status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v
	}
	return fallback
}

func resolveActor(r *http.Request) string {
	if user, ok := r.Context().Value("session_user").(models.SessionUser); ok && user.Username != "" {
		return user.Username
	}
	return "system"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
