package handlers

import (
	"fmt"
	"net/http"
	"route-compare-service/internal/adapters/export"
	"route-compare-service/internal/adapters/render"
	"route-compare-service/internal/api/dto"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/ports"
	"route-compare-service/internal/services"
)

// TripHandler serves the comparison endpoints. Every endpoint accepts the
// same request body and differs only in how the result is rendered.
type TripHandler struct {
	Geocoder        ports.Geocoder
	Provider        ports.RouteProvider
	Repo            ports.ComparisonRepository
	DefaultMetric   domain.Metric
	ToleranceMeters float64
}

// run decodes the request and executes the trip workflow. On failure the
// response has been written and nil is returned.
func (h *TripHandler) run(w http.ResponseWriter, r *http.Request, persist bool) *services.TripComparison {
	if !allowMethod(w, r, http.MethodPost) {
		return nil
	}

	var req dto.CompareRequest
	if !decodeJSON(w, r, &req) {
		return nil
	}

	metric := h.DefaultMetric
	if req.Metric != "" {
		m, err := domain.ParseMetric(req.Metric)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return nil
		}
		metric = m
	}

	tolerance := req.ToleranceMeters
	if tolerance == 0 {
		tolerance = h.ToleranceMeters
	}

	svcReq := services.TripRequest{
		Origin:          req.Origin,
		Destination:     req.Destination,
		Metric:          metric,
		ToleranceMeters: tolerance,
	}
	if req.OriginPoint != nil {
		svcReq.OriginPoint = &domain.GeoPoint{Lat: req.OriginPoint.Lat, Lon: req.OriginPoint.Lon}
	}
	if req.DestinationPoint != nil {
		svcReq.DestinationPoint = &domain.GeoPoint{Lat: req.DestinationPoint.Lat, Lon: req.DestinationPoint.Lon}
	}

	var repo ports.ComparisonRepository
	if persist {
		repo = h.Repo
	}

	trip, err := services.CompareTrip(r.Context(), svcReq, h.Geocoder, h.Provider, repo)
	if err != nil {
		writeServiceError(w, r, err)
		return nil
	}
	return trip
}

// Compare ranks the alternatives and stores the comparison in the history.
func (h *TripHandler) Compare(w http.ResponseWriter, r *http.Request) {
	trip := h.run(w, r, true)
	if trip == nil {
		return
	}
	writeJSON(w, r, http.StatusOK, compareResponse(trip))
}

// Graph returns the merged route graph as a node-link document.
func (h *TripHandler) Graph(w http.ResponseWriter, r *http.Request) {
	trip := h.run(w, r, false)
	if trip == nil {
		return
	}
	writeJSON(w, r, http.StatusOK, render.GraphDocument(trip.Combined.Graph, &trip.Combined.Path))
}

// Map returns a GeoJSON FeatureCollection of the ranked alternatives.
func (h *TripHandler) Map(w http.ResponseWriter, r *http.Request) {
	trip := h.run(w, r, false)
	if trip == nil {
		return
	}
	fc := render.MapFeatures(render.MapInput{
		OriginLabel:      trip.OriginLabel,
		DestinationLabel: trip.DestinationLabel,
		Origin:           trip.Origin,
		Destination:      trip.Destination,
		Comparison:       trip.Comparison,
		BestPath:         &trip.Combined.Path,
	})
	w.Header().Set("Content-Type", "application/geo+json")
	writeJSON(w, r, http.StatusOK, fc)
}

// Export returns the ranked table as text, or as JSON records with ?format=json.
func (h *TripHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && format != "text" && format != "json" {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	trip := h.run(w, r, false)
	if trip == nil {
		return
	}

	records := trip.Comparison.Records()
	if format == "json" {
		writeJSON(w, r, http.StatusOK, map[string]any{"records": records})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="route-comparison.txt"`)
	w.WriteHeader(http.StatusOK)
	header := export.Header{
		Origin:      trip.OriginLabel,
		Destination: trip.DestinationLabel,
		Metric:      trip.Comparison.Metric,
	}
	if err := export.WriteText(w, header, records); err != nil {
		logWriteFailure(r, err)
	}
}

func compareResponse(trip *services.TripComparison) dto.CompareResponse {
	res := dto.CompareResponse{
		ComparisonID: trip.ComparisonID,
		Origin:       dto.EndpointResponse{Label: trip.OriginLabel, Lat: trip.Origin.Lat, Lon: trip.Origin.Lon},
		Destination:  dto.EndpointResponse{Label: trip.DestinationLabel, Lat: trip.Destination.Lat, Lon: trip.Destination.Lon},
		Metric:       string(trip.Comparison.Metric),
	}

	records := trip.Comparison.Records()
	res.Routes = make([]dto.RouteResponse, 0, len(records))
	for i, e := range trip.Comparison.Entries {
		res.Routes = append(res.Routes, dto.RouteResponse{
			RecordResponse: recordResponse(records[i]),
			Index:          e.Index,
			Color:          render.ColorFor(e.Index),
		})
	}

	if trip.Combined != nil {
		p := trip.Combined.Path
		coords := make([][2]float64, 0, len(p.Nodes))
		for _, pt := range p.Points() {
			coords = append(coords, [2]float64{pt.Lon, pt.Lat})
		}
		res.BestPath = &dto.PathResponse{
			Metric:      string(p.Metric),
			TotalWeight: p.TotalWeight,
			Routes:      render.PathRoutes(p.Edges),
			Coordinates: coords,
		}
	}

	for _, s := range trip.Skipped {
		res.Skipped = append(res.Skipped, dto.SkippedResponse{Index: s.Index, Label: s.Label, Reason: s.Reason})
	}

	return res
}

func recordResponse(r domain.ComparisonRecord) dto.RecordResponse {
	return dto.RecordResponse{
		Rank:                 r.Rank,
		Label:                r.Label,
		TotalDistanceMeters:  r.TotalDistanceMeters,
		TotalDurationSeconds: r.TotalDurationSeconds,
		DistanceText:         r.DistanceText,
		DurationText:         r.DurationText,
		Metric:               string(r.Metric),
		Weight:               r.Weight,
		Segments:             r.Segments,
		Steps:                r.Steps,
		IsBest:               r.IsBest,
	}
}
