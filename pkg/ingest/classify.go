package ingest

import "strconv"

// Columns that mark a file as risk-assessment data when present in the
// first row. The check is whole-file: later rows are never re-inspected,
// so a file whose first row omits these keys is silently treated as point
// data. Known limitation, kept for compatibility with existing uploaders.
var riskIndicators = []string{"Respondent Type", "Risk Score", "Metric Name"}

// DetectKind classifies an upload from its first parsed row.
func DetectKind(first Row) string {
	for _, key := range riskIndicators {
		if _, ok := first[key]; ok {
			return KindRisk
		}
	}
	return KindPoints
}

// RiskFromRow coerces a parsed row into a RiskRecord. Missing or
// unparsable numerics fall back to defaults rather than failing the upload.
func RiskFromRow(row Row) *RiskRecord {
	return &RiskRecord{
		RespondentType: row["Respondent Type"],
		Hotspot:        row["Hotspot ID"],
		Location:       row["Location"],
		Phase:          intField(row, "Phase", 1),
		RiskScore:      floatField(row, "Risk Score", 0),
		Likelihood:     floatField(row, "Likelihood", 0),
		Severity:       floatField(row, "Severity", 0),
		RiskLevel:      row["Risk Level"],
		Metric:         row["Metric Name"],
		Timeline:       row["Timeline"],
	}
}

// PointFromRow coerces a parsed row into a PointRecord using only the
// x and y columns.
func PointFromRow(row Row) *PointRecord {
	return &PointRecord{
		X: floatField(row, "x", 0),
		Y: floatField(row, "y", 0),
	}
}

func intField(row Row, key string, fallback int) int {
	if raw, ok := row[key]; ok {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func floatField(row Row, key string, fallback float64) float64 {
	if raw, ok := row[key]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}
