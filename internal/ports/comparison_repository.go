package ports

import (
	"context"
	"route-compare-service/internal/domain"
)

// Port: a boundary for persisting and listing finished comparisons.
type ComparisonRepository interface {
	// Store a comparison and return its identifier.
	SaveComparison(ctx context.Context, summary domain.ComparisonSummary) (int64, error)
	// Return the most recent comparisons, newest first.
	ListComparisons(ctx context.Context, limit int) ([]domain.ComparisonSummary, error)
}
