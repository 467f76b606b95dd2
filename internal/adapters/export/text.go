// Package export writes ranked comparisons in plain text.
package export

import (
	"fmt"
	"io"
	"route-compare-service/internal/domain"
	"strings"
	"text/tabwriter"
)

// Header describes the comparison above the table. Empty fields are omitted.
type Header struct {
	Origin      string
	Destination string
	Metric      domain.Metric
}

var columns = []string{"RANK", "ROUTE", "DISTANCE", "DURATION", "WEIGHT", "SEGMENTS", "STEPS", "BEST"}

// WriteText writes one tab-aligned row per record, in the order given.
func WriteText(w io.Writer, h Header, records []domain.ComparisonRecord) error {
	if h.Origin != "" || h.Destination != "" {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", h.Origin, h.Destination); err != nil {
			return fmt.Errorf("write export header: %w", err)
		}
	}
	if h.Metric != "" {
		if _, err := fmt.Fprintf(w, "metric: %s (%s)\n", h.Metric, h.Metric.Unit()); err != nil {
			return fmt.Errorf("write export header: %w", err)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(columns, "\t")); err != nil {
		return fmt.Errorf("write export table: %w", err)
	}

	for _, r := range records {
		best := ""
		if r.IsBest {
			best = "*"
		}
		_, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\t%d\t%d\t%s\n",
			r.Rank,
			r.Label,
			r.DistanceText,
			r.DurationText,
			r.Weight,
			r.Segments,
			r.Steps,
			best,
		)
		if err != nil {
			return fmt.Errorf("write export row rank=%d: %w", r.Rank, err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write export table: %w", err)
	}
	return nil
}
