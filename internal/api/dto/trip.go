package dto

type PointRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// CompareRequest names each endpoint by address or by coordinates.
type CompareRequest struct {
	Origin           string        `json:"origin" validate:"required_without=OriginPoint,max=300"`
	Destination      string        `json:"destination" validate:"required_without=DestinationPoint,max=300"`
	OriginPoint      *PointRequest `json:"origin_point"`
	DestinationPoint *PointRequest `json:"destination_point"`
	Metric           string        `json:"metric"`
	ToleranceMeters  float64       `json:"tolerance_meters" validate:"gte=0,lte=100"`
}

type EndpointResponse struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// RouteResponse is a ranked comparison record plus display hints.
type RouteResponse struct {
	RecordResponse
	Index int    `json:"index"`
	Color string `json:"color"`
}

type RecordResponse struct {
	Rank                 int     `json:"rank"`
	Label                string  `json:"label"`
	TotalDistanceMeters  float64 `json:"total_distance_meters"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	DistanceText         string  `json:"distance_text"`
	DurationText         string  `json:"duration_text"`
	Metric               string  `json:"metric"`
	Weight               float64 `json:"weight"`
	Segments             int     `json:"segments"`
	Steps                int     `json:"steps"`
	IsBest               bool    `json:"is_best"`
}

type PathResponse struct {
	Metric      string       `json:"metric"`
	TotalWeight float64      `json:"total_weight"`
	Routes      []int        `json:"routes"`
	Coordinates [][2]float64 `json:"coordinates"`
}

type SkippedResponse struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

type CompareResponse struct {
	ComparisonID int64             `json:"comparison_id,omitempty"`
	Origin       EndpointResponse  `json:"origin"`
	Destination  EndpointResponse  `json:"destination"`
	Metric       string            `json:"metric"`
	Routes       []RouteResponse   `json:"routes"`
	BestPath     *PathResponse     `json:"best_path,omitempty"`
	Skipped      []SkippedResponse `json:"skipped,omitempty"`
}
