package models

import "time"

// UploadResponse is returned by POST /upload on success.
type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Rows    int    `json:"rows"`
}

// ErrorResponse is the uniform error body. The frontend only inspects the
// presence of the error field, so no structured codes are carried.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UploadEvent is published to Kafka after an upload completes.
type UploadEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Filename  string    `json:"filename"`
	Kind      string    `json:"kind"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

// ChartPoint is one aggregated metric on the dashboard chart.
type ChartPoint struct {
	Metric string  `json:"metric"`
	X      int     `json:"x"`
	Y      float64 `json:"y"`
	Level  string  `json:"level"`
}

// ChartSeries is the payload of GET /chart-data.
type ChartSeries struct {
	Hotspot string       `json:"hotspot"`
	Points  []ChartPoint `json:"points"`
	Count   int          `json:"count"`
	XDomain [2]int       `json:"x_domain"`
	YDomain [2]int       `json:"y_domain"`
}
