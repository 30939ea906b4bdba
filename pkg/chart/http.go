package chart

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/riskatlas/platform/pkg/common/logger"
	"github.com/riskatlas/platform/pkg/common/models"
	"github.com/riskatlas/platform/pkg/observability/metrics"
)

type Handler struct {
	client  *Client
	cache   *Cache
	catalog Catalog
}

func NewHandler(client *Client, cache *Cache, catalog Catalog) *Handler {
	return &Handler{client: client, cache: cache, catalog: catalog}
}

func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/chart-data", h.handleChartData).Methods(http.MethodGet)
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.PathPrefix("/").Handler(http.FileServer(staticFS())).Methods(http.MethodGet)
}

func (h *Handler) handleChartData(w http.ResponseWriter, r *http.Request) {
	hotspot := strings.TrimSpace(r.URL.Query().Get("hotspot"))
	if hotspot == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "hotspot query parameter is required"})
		return
	}

	refresh := r.URL.Query().Get("refresh") == "1"
	if !refresh {
		if series, ok := h.cache.Get(r.Context(), hotspot); ok {
			metrics.IncChartRequest(true)
			writeJSON(w, http.StatusOK, series)
			return
		}
	}

	rows, err := h.client.FetchRiskRows(r.Context())
	if err != nil {
		metrics.IncChartUpstreamFailure()
		logger.Log.WithError(err).Error("failed to fetch risk rows from ingestion service")
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "failed to fetch risk data"})
		return
	}

	series := Aggregate(rows, hotspot, h.catalog)
	h.cache.Set(r.Context(), series)
	metrics.IncChartRequest(false)
	writeJSON(w, http.StatusOK, series)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		Message: "dashboard service running",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
