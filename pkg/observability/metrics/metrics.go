package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	uploadsCompleted   atomic.Int64
	uploadsFailed      atomic.Int64
	riskRowsInserted   atomic.Int64
	pointRowsInserted  atomic.Int64
	chartRequests      atomic.Int64
	chartCacheHits     atomic.Int64
	chartUpstreamFails atomic.Int64
)

func IncUploadCompleted(kind string, rows int) {
	uploadsCompleted.Add(1)
	if kind == "risk" {
		riskRowsInserted.Add(int64(rows))
	} else {
		pointRowsInserted.Add(int64(rows))
	}
}

func IncUploadFailed() {
	uploadsFailed.Add(1)
}

func IncChartRequest(cacheHit bool) {
	chartRequests.Add(1)
	if cacheHit {
		chartCacheHits.Add(1)
	}
}

func IncChartUpstreamFailure() {
	chartUpstreamFails.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeCounter(w, "riskatlas_uploads_completed_total", "Uploads fully processed.", uploadsCompleted.Load())
	writeCounter(w, "riskatlas_uploads_failed_total", "Uploads aborted by a parse or persistence error.", uploadsFailed.Load())
	writeCounter(w, "riskatlas_risk_rows_inserted_total", "Risk assessment rows inserted.", riskRowsInserted.Load())
	writeCounter(w, "riskatlas_point_rows_inserted_total", "Point rows inserted.", pointRowsInserted.Load())
	writeCounter(w, "riskatlas_chart_requests_total", "Chart data requests served.", chartRequests.Load())
	writeCounter(w, "riskatlas_chart_cache_hits_total", "Chart requests served from cache.", chartCacheHits.Load())
	writeCounter(w, "riskatlas_chart_upstream_failures_total", "Chart requests that failed fetching risk data.", chartUpstreamFails.Load())
}

func writeCounter(w http.ResponseWriter, name, help string, value int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s counter\n", name)
	fmt.Fprintf(w, "%s %d\n", name, value)
}
