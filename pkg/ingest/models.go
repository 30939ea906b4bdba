package ingest

import (
	"time"

	"gorm.io/datatypes"
)

const (
	KindRisk   = "risk"
	KindPoints = "points"

	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RiskRecord is one risk-assessment observation. Rows are append-only; the
// same file uploaded twice produces duplicate rows on purpose.
type RiskRecord struct {
	ID             uint      `json:"id" gorm:"primaryKey;column:id"`
	RespondentType string    `json:"respondent_type" gorm:"column:respondent_type"`
	Hotspot        string    `json:"hotspot" gorm:"column:hotspot"`
	Location       string    `json:"location" gorm:"column:location"`
	Phase          int       `json:"phase" gorm:"column:phase"`
	RiskScore      float64   `json:"risk_score" gorm:"column:risk_score"`
	Likelihood     float64   `json:"likelihood" gorm:"column:likelihood"`
	Severity       float64   `json:"severity" gorm:"column:severity"`
	RiskLevel      string    `json:"risk_level" gorm:"column:risk_level"`
	Metric         string    `json:"metric" gorm:"column:metric"`
	Timeline       string    `json:"timeline" gorm:"column:timeline"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
}

func (RiskRecord) TableName() string {
	return "risk_assessments"
}

// PointRecord is a generic two-dimensional sample.
type PointRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey;column:id"`
	X         float64   `json:"x" gorm:"column:x"`
	Y         float64   `json:"y" gorm:"column:y"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (PointRecord) TableName() string {
	return "data_points"
}

// UploadRecord is the audit trail of upload attempts. Metadata captures the
// header columns seen in the file.
type UploadRecord struct {
	ID        string            `json:"id" gorm:"primaryKey;column:id"`
	Filename  string            `json:"filename" gorm:"column:filename"`
	Kind      string            `json:"kind" gorm:"column:kind"`
	Rows      int               `json:"rows" gorm:"column:rows"`
	Status    string            `json:"status" gorm:"column:status"`
	Error     string            `json:"error,omitempty" gorm:"column:error"`
	Metadata  datatypes.JSONMap `json:"metadata" gorm:"column:metadata"`
	CreatedAt time.Time         `json:"created_at" gorm:"column:created_at"`
}

func (UploadRecord) TableName() string {
	return "uploads"
}
