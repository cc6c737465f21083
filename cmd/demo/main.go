package main

import (
	"flag"
	"fmt"
	"time"

	"carbon-intensity/internal/data"
	"carbon-intensity/internal/model"
)

// Demo:
// - Fetch national intensity for a 16.5 day window (two API requests)
// - Fetch the same window regionally and show one region's generation mix
// - With --data, load a saved /intensity response instead of going online
func main() {
	dataPath := flag.String("data", "", "Path to a saved /intensity JSON response (offline mode)")
	n := flag.Int("n", 12, "Number of records to print")
	flag.Parse()

	if *dataPath != "" {
		resp, err := data.LoadIntensityJSON(*dataPath)
		if err != nil {
			panic(err)
		}
		fmt.Printf("Loaded %d records from %s\n\n", len(resp.Data), *dataPath)
		printIntensity(resp.Data, *n)
		return
	}

	client := data.NewCarbonIntensityClient("")

	start := time.Date(2020, 4, 1, 0, 30, 0, 0, time.UTC)
	end := time.Date(2020, 4, 17, 14, 0, 0, 0, time.UTC)

	fmt.Printf("National between %s and %s:\n",
		start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
	records, err := client.IntensityBetween(start, end)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Fetched %d half-hour records\n\n", len(records))
	printIntensity(records, *n)

	fmt.Printf("\nRegional between %s and %s:\n",
		start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
	regional, err := client.RegionalBetween(start, end)
	if err != nil {
		panic(err)
	}
	byRegion := data.GroupByRegion(regional)
	fmt.Printf("Fetched %d records across %d regions\n\n", len(regional), len(byRegion))

	// Show London's first few periods with its generation mix.
	london := byRegion[13]
	for i := 0; i < min(*n, len(london)); i++ {
		r := london[i]
		mix := r.MixMap()
		fmt.Printf("%s  %-12s forecast=%6.1f  index=%-8s  wind=%4.1f%%  gas=%4.1f%%  nuclear=%4.1f%%\n",
			r.To.Format("2006-01-02 15:04"), r.ShortName, r.Intensity.Forecast,
			r.Intensity.Index, mix["wind"], mix["gas"], mix["nuclear"])
	}

	fmt.Println("\nDone.")
}

func printIntensity(records []model.IntensityRecord, n int) {
	for i := 0; i < min(n, len(records)); i++ {
		r := records[i]
		actual := "   n/a"
		if r.Intensity.Actual != nil {
			actual = fmt.Sprintf("%6.1f", *r.Intensity.Actual)
		}
		fmt.Printf("%s -> %s  forecast=%6.1f  actual=%s  index=%s\n",
			r.From.Format("15:04"),
			r.To.Format("2006-01-02 15:04"),
			r.Intensity.Forecast,
			actual,
			r.Intensity.Index,
		)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
