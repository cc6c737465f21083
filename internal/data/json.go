package data

import (
	"encoding/json"
	"os"

	"carbon-intensity/internal/model"
)

// LoadIntensityJSON reads a saved /intensity response from disk. Used by the
// demo's offline mode and tests.
func LoadIntensityJSON(path string) (*model.IntensityResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.IntensityResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoadRegionalJSON reads a saved /regional/intensity response from disk.
func LoadRegionalJSON(path string) (*model.RegionalResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.RegionalResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupByRegion splits flattened regional records into region-keyed slices.
func GroupByRegion(records []model.RegionalRecord) map[int][]model.RegionalRecord {
	out := map[int][]model.RegionalRecord{}
	for _, rec := range records {
		out[rec.RegionID] = append(out[rec.RegionID], rec)
	}
	return out
}
