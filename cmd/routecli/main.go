// Command routecli ranks the routes of a YAML route file and prints the
// comparison table.
//
//	routecli [-metric distance|duration] [-json] routes.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"route-compare-service/internal/adapters/export"
	"route-compare-service/internal/adapters/routing"
	"route-compare-service/internal/domain"
	"route-compare-service/internal/services"
)

func main() {
	log.SetFlags(0)

	metricFlag := flag.String("metric", "", "ranking metric: distance or duration (default: file's metric, else duration)")
	asJSON := flag.Bool("json", false, "print records as JSON instead of a table")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: routecli [-metric distance|duration] [-json] routes.yaml")
		os.Exit(2)
	}

	if err := run(os.Stdout, flag.Arg(0), *metricFlag, *asJSON); err != nil {
		log.Fatal(err)
	}
}

func run(w io.Writer, path, metricName string, asJSON bool) error {
	f, err := routing.LoadRouteFile(path)
	if err != nil {
		return err
	}

	if metricName == "" {
		metricName = f.Metric
	}
	metric := domain.MetricDuration
	if metricName != "" {
		metric, err = domain.ParseMetric(metricName)
		if err != nil {
			return err
		}
	}

	cmp, err := services.CompareRoutes(f.Alternatives(), metric)
	if err != nil {
		return err
	}

	records := cmp.Records()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	var h export.Header
	if len(f.Routes) > 0 {
		alts := f.Alternatives()
		h.Origin = alts[0].Origin().String()
		h.Destination = alts[0].Destination().String()
	}
	h.Metric = metric
	return export.WriteText(w, h, records)
}
