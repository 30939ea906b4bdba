package ingest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/riskatlas/platform/pkg/common/logger"
	"github.com/riskatlas/platform/pkg/common/models"
	"github.com/riskatlas/platform/pkg/observability/metrics"
)

type HTTPHandler struct {
	service   *Service
	maxBody   int64
	fieldName string
}

func NewHTTPHandler(service *Service, maxBody int64, fieldName string) *HTTPHandler {
	if fieldName == "" {
		fieldName = "file"
	}
	return &HTTPHandler{service: service, maxBody: maxBody, fieldName: fieldName}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/upload", h.handleUpload).Methods(http.MethodPost)
	router.HandleFunc("/risk-data", h.handleRiskData).Methods(http.MethodGet)
	router.HandleFunc("/points", h.handlePoints).Methods(http.MethodGet)
	router.HandleFunc("/uploads", h.handleUploads).Methods(http.MethodGet)
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/metrics", h.handleMetrics).Methods(http.MethodGet)
}

func (h *HTTPHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	file, header, err := r.FormFile(h.fieldName)
	if err != nil {
		logger.Log.WithError(err).Warn("upload request without a file")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "no file uploaded"})
		return
	}
	defer file.Close()

	resp, err := h.service.ProcessUpload(r.Context(), file, header.Filename)
	if err != nil {
		if errors.Is(err, ErrEmptyUpload) {
			logger.Log.WithField("filename", header.Filename).Warn("upload contains no data rows")
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		logger.Log.WithError(err).WithField("filename", header.Filename).Error("upload processing failed")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logger.Log.WithFields(map[string]interface{}{
		"filename": header.Filename,
		"rows":     resp.Rows,
	}).Info("upload processed")
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) handleRiskData(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListRisk(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list risk records")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch risk data"})
		return
	}
	if recs == nil {
		recs = []RiskRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *HTTPHandler) handlePoints(w http.ResponseWriter, r *http.Request) {
	recs, err := h.service.ListPoints(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list point records")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch points"})
		return
	}
	if recs == nil {
		recs = []PointRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *HTTPHandler) handleUploads(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 50)
	recs, err := h.service.ListUploads(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list uploads")
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch uploads"})
		return
	}
	if recs == nil {
		recs = []UploadRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Message: "ingestion service running",
	})
}

func (h *HTTPHandler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics.WritePrometheus(w)
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

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
