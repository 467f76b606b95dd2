package domain

import (
	"fmt"
	"strings"
)

// Metric selects the scalar used as edge weight and ranking key.
type Metric string

const (
	MetricDistance Metric = "distance"
	MetricDuration Metric = "duration"
)

// ParseMetric accepts "distance" or "duration" (case-insensitive).
// "time" is accepted as an alias of duration.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "distance":
		return MetricDistance, nil
	case "duration", "time":
		return MetricDuration, nil
	default:
		return "", fmt.Errorf("parse metric: unknown metric %q", s)
	}
}

func (m Metric) Valid() bool {
	return m == MetricDistance || m == MetricDuration
}

// Unit is the unit of weights measured under m.
func (m Metric) Unit() string {
	if m == MetricDuration {
		return "s"
	}
	return "m"
}
