package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"carbon-intensity/internal/data"
)

// Refreshes the regions file from a live /regional snapshot. The built-in
// table in internal/data covers the documented regions; this tool picks up
// renamed DNO regions without a code change.
func main() {
	var (
		outputPath = flag.String("output", "", "Output file path (default: ./data/regions.json)")
		baseURL    = flag.String("base-url", "", "Carbon Intensity API base URL (default: public host)")
	)
	flag.Parse()

	if *outputPath == "" {
		*outputPath = data.GetDefaultRegionsPath()
	}

	client := data.NewCarbonIntensityClient(*baseURL)

	fmt.Println("Fetching current regional snapshot...")
	records, err := client.CurrentRegional()
	if err != nil {
		log.Fatalf("Failed to fetch regional snapshot: %v", err)
	}

	// One record per region for the current period; fall back to the
	// built-in table for anything the snapshot is missing.
	byID := map[int]data.Region{}
	for _, r := range data.DefaultRegions() {
		byID[r.ID] = r
	}
	for _, rec := range records {
		region := byID[rec.RegionID]
		region.ID = rec.RegionID
		region.ShortName = rec.ShortName
		if rec.DNORegion != "" {
			region.DNORegion = rec.DNORegion
		}
		byID[rec.RegionID] = region
	}

	regions := make([]data.Region, 0, len(byID))
	for _, r := range byID {
		regions = append(regions, r)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].ID < regions[j].ID })

	list := &data.RegionList{
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Regions:   regions,
	}

	if err := data.SaveRegions(list, *outputPath); err != nil {
		log.Fatalf("Failed to save regions: %v", err)
	}

	fmt.Printf("Saved %d regions to %s\n", len(regions), *outputPath)
}
