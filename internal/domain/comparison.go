package domain

import (
	"fmt"
	"math"
	"time"
)

// One ranked route alternative. Index is the alternative's position in the
// input sequence; Rank starts at 1.
type RankedEntry struct {
	Rank        int
	Index       int
	Alternative RouteAlternative
	Path        PathResult
}

// Represents the result of comparing route alternatives under one metric.
// Entries are sorted ascending by path weight. A RankedComparison is created
// once per request and is not modified afterwards.
type RankedComparison struct {
	Metric  Metric
	Entries []RankedEntry
}

// Best returns the rank 1 entry.
func (c *RankedComparison) Best() (RankedEntry, bool) {
	if c == nil || len(c.Entries) == 0 {
		return RankedEntry{}, false
	}
	return c.Entries[0], true
}

// ComparisonRecord is the flat export view of one ranked entry.
// Field names and order are part of the export contract.
type ComparisonRecord struct {
	Rank                 int     `json:"rank"`
	Label                string  `json:"label"`
	TotalDistanceMeters  float64 `json:"total_distance_meters"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	DistanceText         string  `json:"distance_text"`
	DurationText         string  `json:"duration_text"`
	Metric               Metric  `json:"metric"`
	Weight               float64 `json:"weight"`
	Segments             int     `json:"segments"`
	Steps                int     `json:"steps"`
	IsBest               bool    `json:"is_best"`
}

// Records flattens the comparison for export and persistence.
func (c *RankedComparison) Records() []ComparisonRecord {
	if c == nil {
		return nil
	}

	out := make([]ComparisonRecord, 0, len(c.Entries))
	for _, e := range c.Entries {
		alt := e.Alternative
		label := alt.Label
		if label == "" {
			label = fmt.Sprintf("Route %d", e.Index+1)
		}
		out = append(out, ComparisonRecord{
			Rank:                 e.Rank,
			Label:                label,
			TotalDistanceMeters:  alt.TotalDistanceMeters,
			TotalDurationSeconds: alt.TotalDurationSeconds,
			DistanceText:         DistanceText(alt.TotalDistanceMeters),
			DurationText:         DurationText(alt.TotalDurationSeconds),
			Metric:               c.Metric,
			Weight:               e.Path.TotalWeight,
			Segments:             len(e.Path.Edges),
			Steps:                countSteps(alt.Segments),
			IsBest:               e.Rank == 1,
		})
	}
	return out
}

// countSteps counts runs of consecutive segments sharing a non-empty label.
func countSteps(segments []SegmentMetrics) int {
	n := 0
	prev := ""
	for _, s := range segments {
		if s.Label != "" && s.Label != prev {
			n++
		}
		prev = s.Label
	}
	return n
}

// DistanceText renders meters as "850 m" or "15.5 km".
func DistanceText(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

// DurationText renders seconds as "45 min" or "1 h 05 min".
func DurationText(seconds float64) string {
	minutes := int(math.Round(seconds / 60))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %02d min", minutes/60, minutes%60)
}

// A persisted comparison, as listed in the comparison history.
type ComparisonSummary struct {
	ID          int64
	CreatedAt   time.Time
	Origin      string
	Destination string
	Metric      Metric
	Records     []ComparisonRecord
}
