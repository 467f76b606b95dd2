package dto

import "time"

type ComparisonResponse struct {
	ID          int64            `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Origin      string           `json:"origin"`
	Destination string           `json:"destination"`
	Metric      string           `json:"metric"`
	Routes      []RecordResponse `json:"routes"`
}

type ListComparisonsResponse struct {
	Comparisons []ComparisonResponse `json:"comparisons"`
}
