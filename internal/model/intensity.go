package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// SettlementPeriod is the fixed UK electricity market interval.
const SettlementPeriod = 30 * time.Minute

// settlementLayout is the timestamp format used by the Carbon Intensity API.
// Note: no seconds field, so RFC3339 parsing alone is not enough.
const settlementLayout = "2006-01-02T15:04Z07:00"

// SettlementTime wraps time.Time to handle the API's minute-resolution
// timestamps (e.g. "2020-04-01T00:30Z"). All values are normalized to UTC.
type SettlementTime struct {
	time.Time
}

func (t *SettlementTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseSettlementTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t SettlementTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.UTC().Format(settlementLayout))
}

// ParseSettlementTime parses an API timestamp, accepting the documented
// minute-resolution layout plus RFC3339 variants seen in the wild.
func ParseSettlementTime(value string) (time.Time, error) {
	for _, layout := range []string{settlementLayout, time.RFC3339, time.RFC3339Nano} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid settlement timestamp: %q", value)
}

// FormatSettlementTime renders a timestamp the way the API path segments
// expect it (UTC, minute resolution, trailing Z).
func FormatSettlementTime(t time.Time) string {
	return t.UTC().Format(settlementLayout)
}

// TimePeriod is one half-hour settlement period. ESO convention labels a
// period by its END timestamp, so To identifies the period.
type TimePeriod struct {
	From SettlementTime `json:"from"`
	To   SettlementTime `json:"to"`
}

func (p TimePeriod) Duration() time.Duration {
	return p.To.Sub(p.From.Time)
}

// Intensity holds the forecast/actual values for one period.
// Actual is nil until the outturn value is published.
type Intensity struct {
	Forecast float64  `json:"forecast"`
	Actual   *float64 `json:"actual"`
	Index    string   `json:"index"` // e.g. "low", "moderate", "high"
}

// IntensityRecord is one row from the national intensity endpoints.
type IntensityRecord struct {
	TimePeriod
	Intensity Intensity `json:"intensity"`
}

// FuelShare is one fuel's percentage share of generation for a period.
type FuelShare struct {
	Fuel string  `json:"fuel"` // e.g. "gas", "nuclear", "wind"
	Perc float64 `json:"perc"` // percentage, shares sum to ~100
}

// GenerationMixRecord is one row from the generation mix endpoints.
type GenerationMixRecord struct {
	TimePeriod
	Mix []FuelShare `json:"generationmix"`
}

// MixMap returns the mix as a fuel-name keyed map.
func (r GenerationMixRecord) MixMap() map[string]float64 {
	out := make(map[string]float64, len(r.Mix))
	for _, f := range r.Mix {
		out[f.Fuel] = f.Perc
	}
	return out
}

// RegionSnapshot is one region's entry inside a regional datum.
type RegionSnapshot struct {
	RegionID  int         `json:"regionid"`
	DNORegion string      `json:"dnoregion"`
	ShortName string      `json:"shortname"`
	Intensity Intensity   `json:"intensity"`
	Mix       []FuelShare `json:"generationmix"`
}

// RegionalDatum groups all region snapshots for one settlement period.
type RegionalDatum struct {
	TimePeriod
	Regions []RegionSnapshot `json:"regions"`
}

// RegionalRecord is the flattened (period, region) row returned to callers.
type RegionalRecord struct {
	TimePeriod
	RegionID  int         `json:"regionid"`
	DNORegion string      `json:"dnoregion,omitempty"`
	ShortName string      `json:"shortname"`
	Intensity Intensity   `json:"intensity"`
	Mix       []FuelShare `json:"generationmix"`
}

// MixMap returns the region's generation mix as a fuel-name keyed map.
func (r RegionalRecord) MixMap() map[string]float64 {
	out := make(map[string]float64, len(r.Mix))
	for _, f := range r.Mix {
		out[f.Fuel] = f.Perc
	}
	return out
}

// RegionPeriod is one period inside a single-region series.
type RegionPeriod struct {
	TimePeriod
	Intensity Intensity   `json:"intensity"`
	Mix       []FuelShare `json:"generationmix"`
}

// RegionSeries is the single-region envelope used by the
// /regional/regionid/{id} and /regional/intensity/.../regionid/{id} endpoints.
type RegionSeries struct {
	RegionID  int            `json:"regionid"`
	DNORegion string         `json:"dnoregion"`
	ShortName string         `json:"shortname"`
	Data      []RegionPeriod `json:"data"`
}
