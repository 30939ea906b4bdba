package chart

import (
	"math"
	"strconv"
	"strings"

	"github.com/riskatlas/platform/pkg/common/models"
)

// Fixed chart domains; the dashboard renders at most five metric slots.
const (
	XDomainMax = 4
	YDomainMax = 9
)

const (
	LevelHigh     = "High Risk"
	LevelModerate = "Moderate Risk"
	LevelLow      = "Low Risk"
)

// RiskLevel bands a mean score. Boundaries are inclusive at 6 and 3.
func RiskLevel(score float64) string {
	switch {
	case score >= 6:
		return LevelHigh
	case score >= 3:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Aggregate filters rows to the target hotspot with a positive score,
// groups them by metric and averages the score per metric. Each metric
// becomes one chart point whose x is the ordinal index of the metric's
// first appearance in the row order.
func Aggregate(rows []map[string]interface{}, hotspot string, cat Catalog) models.ChartSeries {
	series := models.ChartSeries{
		Hotspot: hotspot,
		Points:  []models.ChartPoint{},
		XDomain: [2]int{0, XDomainMax},
		YDomain: [2]int{0, YDomainMax},
	}

	type bucket struct {
		sum   float64
		count int
	}
	var order []string
	buckets := make(map[string]*bucket)

	for _, row := range rows {
		metricVal, ok := resolve(row, cat.Metric)
		if !ok {
			continue
		}
		metric := strings.TrimSpace(toString(metricVal))
		if metric == "" {
			continue
		}

		hotspotVal, ok := resolve(row, cat.Hotspot)
		if !ok || !strings.EqualFold(strings.TrimSpace(toString(hotspotVal)), hotspot) {
			continue
		}

		scoreVal, ok := resolve(row, cat.Score)
		if !ok {
			continue
		}
		score, ok := toFloat(scoreVal)
		if !ok || score <= 0 {
			continue
		}

		b, seen := buckets[metric]
		if !seen {
			b = &bucket{}
			buckets[metric] = b
			order = append(order, metric)
		}
		b.sum += score
		b.count++
	}

	for i, metric := range order {
		b := buckets[metric]
		mean := round2(b.sum / float64(b.count))
		series.Points = append(series.Points, models.ChartPoint{
			Metric: metric,
			X:      i,
			Y:      mean,
			Level:  RiskLevel(mean),
		})
	}
	series.Count = len(series.Points)
	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return ""
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
