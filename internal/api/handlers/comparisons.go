package handlers

import (
	"log"
	"net/http"
	"route-compare-service/internal/api/dto"
	"route-compare-service/internal/ports"
	"strconv"
)

const maxListLimit = 100

// ComparisonHandler exposes the comparison history.
type ComparisonHandler struct {
	Repo ports.ComparisonRepository
}

func (h *ComparisonHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	res := dto.ListComparisonsResponse{Comparisons: []dto.ComparisonResponse{}}
	if h.Repo == nil {
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	items, err := h.Repo.ListComparisons(r.Context(), limit)
	if err != nil {
		log.Printf("list comparisons failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	for _, c := range items {
		routes := make([]dto.RecordResponse, 0, len(c.Records))
		for _, rec := range c.Records {
			routes = append(routes, recordResponse(rec))
		}
		res.Comparisons = append(res.Comparisons, dto.ComparisonResponse{
			ID:          c.ID,
			CreatedAt:   c.CreatedAt,
			Origin:      c.Origin,
			Destination: c.Destination,
			Metric:      string(c.Metric),
			Routes:      routes,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
