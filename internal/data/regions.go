package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Region represents one DNO region from the regional endpoints.
type Region struct {
	ID        int    `json:"id"`
	DNORegion string `json:"dnoregion"` // e.g. "NPG North East"
	ShortName string `json:"shortname"` // e.g. "North East England"
}

// RegionList represents a collection of regions.
type RegionList struct {
	UpdatedAt string   `json:"updated_at"` // ISO 8601 timestamp
	Regions   []Region `json:"regions"`
}

// DefaultRegions returns the DNO region table published with the API docs.
// Ids 1-14 are distribution regions; 15-17 aggregate England, Scotland and
// Wales. Use cmd/update-regions to refresh dnoregion names from the API.
func DefaultRegions() []Region {
	return []Region{
		{ID: 1, DNORegion: "Scottish Hydro Electric Power Distribution", ShortName: "North Scotland"},
		{ID: 2, DNORegion: "SP Distribution", ShortName: "South Scotland"},
		{ID: 3, DNORegion: "Electricity North West", ShortName: "North West England"},
		{ID: 4, DNORegion: "NPG North East", ShortName: "North East England"},
		{ID: 5, DNORegion: "NPG Yorkshire", ShortName: "Yorkshire"},
		{ID: 6, DNORegion: "SP Manweb", ShortName: "North Wales & Merseyside"},
		{ID: 7, DNORegion: "WPD South Wales", ShortName: "South Wales"},
		{ID: 8, DNORegion: "WPD West Midlands", ShortName: "West Midlands"},
		{ID: 9, DNORegion: "WPD East Midlands", ShortName: "East Midlands"},
		{ID: 10, DNORegion: "UKPN East", ShortName: "East England"},
		{ID: 11, DNORegion: "WPD South West", ShortName: "South West England"},
		{ID: 12, DNORegion: "SSE South", ShortName: "South England"},
		{ID: 13, DNORegion: "UKPN London", ShortName: "London"},
		{ID: 14, DNORegion: "UKPN South East", ShortName: "South East England"},
		{ID: 15, DNORegion: "England", ShortName: "England"},
		{ID: 16, DNORegion: "Scotland", ShortName: "Scotland"},
		{ID: 17, DNORegion: "Wales", ShortName: "Wales"},
	}
}

// LoadRegions loads regions from a JSON file.
func LoadRegions(filePath string) (*RegionList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}

	var list RegionList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse regions file: %w", err)
	}

	return &list, nil
}

// SaveRegions saves regions to a JSON file.
func SaveRegions(list *RegionList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal regions: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write regions file: %w", err)
	}

	return nil
}

// GetDefaultRegionsPath returns the default path for the regions file.
func GetDefaultRegionsPath() string {
	if path := os.Getenv("REGIONS_FILE"); path != "" {
		return path
	}
	return "./data/regions.json"
}
