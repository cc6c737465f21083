package data

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	"carbon-intensity/internal/model"
)

// DefaultBaseURL is the public Carbon Intensity API host.
const DefaultBaseURL = "https://api.carbonintensity.org.uk"

// DefaultMaxRange is the widest span the API accepts per request. Longer
// spans are split into consecutive sub-range requests.
const DefaultMaxRange = 14 * 24 * time.Hour

// Valid DNO region ids: 1-14 are distribution regions, 15-17 are the
// England/Scotland/Wales aggregates.
const (
	MinRegionID = 1
	MaxRegionID = 17
)

// CarbonIntensityClient provides methods to fetch data from the National
// Grid ESO Carbon Intensity API. The API is keyless and read-only; each
// method issues one or more blocking HTTP GETs.
type CarbonIntensityClient struct {
	BaseURL  string
	MaxRange time.Duration
	Client   *http.Client
}

// NewCarbonIntensityClient creates a new Carbon Intensity API client.
// If baseURL is empty, defaults to "https://api.carbonintensity.org.uk".
func NewCarbonIntensityClient(baseURL string) *CarbonIntensityClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CarbonIntensityClient{
		BaseURL:  baseURL,
		MaxRange: DefaultMaxRange,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CurrentIntensity fetches the national intensity for the current half hour.
func (c *CarbonIntensityClient) CurrentIntensity() ([]model.IntensityRecord, error) {
	var resp model.IntensityResponse
	if err := c.getJSON("/intensity", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CurrentGenerationMix fetches the generation mix for the current half hour.
func (c *CarbonIntensityClient) CurrentGenerationMix() (model.GenerationMixRecord, error) {
	var resp model.GenerationResponse
	if err := c.getJSON("/generation", &resp); err != nil {
		return model.GenerationMixRecord{}, err
	}
	return resp.Data, nil
}

// CurrentRegional fetches the current half hour for all DNO regions,
// flattened to one record per region.
func (c *CarbonIntensityClient) CurrentRegional() ([]model.RegionalRecord, error) {
	var resp model.RegionalResponse
	if err := c.getJSON("/regional", &resp); err != nil {
		return nil, err
	}
	return flattenRegional(resp.Data), nil
}

// CurrentRegionalByID fetches the current half hour for a single region.
func (c *CarbonIntensityClient) CurrentRegionalByID(regionID int) ([]model.RegionalRecord, error) {
	if err := validateRegionID(regionID); err != nil {
		return nil, err
	}
	var resp model.RegionalByIDResponse
	if err := c.getJSON(fmt.Sprintf("/regional/regionid/%d", regionID), &resp); err != nil {
		return nil, err
	}
	var out []model.RegionalRecord
	for _, series := range resp.Data {
		out = append(out, flattenSeries(series)...)
	}
	return out, nil
}

// IntensityBetween fetches national intensity records for [start, end].
// Bounds are rounded up to the end of their half-hour settlement period
// (ESO labels periods by end time), so IntensityBetween(t, t) returns the
// single period containing t. Spans beyond MaxRange are split into
// consecutive sub-range requests issued in order.
func (c *CarbonIntensityClient) IntensityBetween(start, end time.Time) ([]model.IntensityRecord, error) {
	chunks, err := c.chunkRange(start, end)
	if err != nil {
		return nil, err
	}

	var out []model.IntensityRecord
	seen := map[int64]struct{}{}
	for _, ch := range chunks {
		path := fmt.Sprintf("/intensity/%s/%s",
			model.FormatSettlementTime(ch.start), model.FormatSettlementTime(ch.end))
		var resp model.IntensityResponse
		if err := c.getJSON(path, &resp); err != nil {
			return nil, err
		}
		for _, rec := range resp.Data {
			// Periods are keyed by end timestamp. Drop boundary periods
			// returned by two adjacent sub-range requests.
			key := rec.To.Unix()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].From.Before(out[j].From.Time)
	})
	return out, nil
}

// GenerationMixBetween fetches generation mix records for [start, end],
// with the same rounding and chunking behavior as IntensityBetween.
func (c *CarbonIntensityClient) GenerationMixBetween(start, end time.Time) ([]model.GenerationMixRecord, error) {
	chunks, err := c.chunkRange(start, end)
	if err != nil {
		return nil, err
	}

	var out []model.GenerationMixRecord
	seen := map[int64]struct{}{}
	for _, ch := range chunks {
		path := fmt.Sprintf("/generation/%s/%s",
			model.FormatSettlementTime(ch.start), model.FormatSettlementTime(ch.end))
		var resp model.GenerationRangeResponse
		if err := c.getJSON(path, &resp); err != nil {
			return nil, err
		}
		for _, rec := range resp.Data {
			key := rec.To.Unix()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].From.Before(out[j].From.Time)
	})
	return out, nil
}

// RegionalBetween fetches intensity and generation mix for all DNO regions
// over [start, end], flattened to one record per (period, region) and
// ordered by period start, then region id.
func (c *CarbonIntensityClient) RegionalBetween(start, end time.Time) ([]model.RegionalRecord, error) {
	chunks, err := c.chunkRange(start, end)
	if err != nil {
		return nil, err
	}

	var out []model.RegionalRecord
	seen := map[regionPeriodKey]struct{}{}
	for _, ch := range chunks {
		path := fmt.Sprintf("/regional/intensity/%s/%s",
			model.FormatSettlementTime(ch.start), model.FormatSettlementTime(ch.end))
		var resp model.RegionalResponse
		if err := c.getJSON(path, &resp); err != nil {
			return nil, err
		}
		for _, rec := range flattenRegional(resp.Data) {
			key := regionPeriodKey{to: rec.To.Unix(), regionID: rec.RegionID}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, rec)
		}
	}

	sortRegional(out)
	return out, nil
}

// RegionalBetweenByID fetches intensity and generation mix for one region
// over [start, end].
func (c *CarbonIntensityClient) RegionalBetweenByID(start, end time.Time, regionID int) ([]model.RegionalRecord, error) {
	if err := validateRegionID(regionID); err != nil {
		return nil, err
	}
	chunks, err := c.chunkRange(start, end)
	if err != nil {
		return nil, err
	}

	var out []model.RegionalRecord
	seen := map[int64]struct{}{}
	for _, ch := range chunks {
		path := fmt.Sprintf("/regional/intensity/%s/%s/regionid/%d",
			model.FormatSettlementTime(ch.start), model.FormatSettlementTime(ch.end), regionID)
		var resp model.RegionalRangeByIDResponse
		if err := c.getJSON(path, &resp); err != nil {
			return nil, err
		}
		for _, rec := range flattenSeries(resp.Data) {
			key := rec.To.Unix()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, rec)
		}
	}

	sortRegional(out)
	return out, nil
}

// rangeChunk is one sub-range request, bounds inclusive.
type rangeChunk struct {
	start time.Time
	end   time.Time
}

// chunkRange validates the bounds and splits [start, end] into sub-ranges
// no wider than MaxRange. Each chunk ends one settlement period before the
// next one starts, so consecutive chunks do not overlap.
func (c *CarbonIntensityClient) chunkRange(start, end time.Time) ([]rangeChunk, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &ArgumentError{Message: "start and end times are required"}
	}
	if start.After(end) {
		return nil, &ArgumentError{Message: "start must not be after end"}
	}

	maxRange := c.MaxRange
	if maxRange <= 0 {
		maxRange = DefaultMaxRange
	}

	s := ceilHalfHour(start)
	e := ceilHalfHour(end)

	var chunks []rangeChunk
	for reqStart := s; !reqStart.After(e); reqStart = reqStart.Add(maxRange) {
		reqEnd := reqStart.Add(maxRange - model.SettlementPeriod)
		if reqEnd.After(e) {
			reqEnd = e
		}
		chunks = append(chunks, rangeChunk{start: reqStart, end: reqEnd})
	}
	return chunks, nil
}

// ceilHalfHour rounds t up to the end of the settlement period containing
// it. Already-aligned timestamps are returned unchanged.
func ceilHalfHour(t time.Time) time.Time {
	t = t.UTC()
	if t.Minute()%30 == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t
	}
	return t.Truncate(model.SettlementPeriod).Add(model.SettlementPeriod)
}

func validateRegionID(regionID int) error {
	if regionID < MinRegionID || regionID > MaxRegionID {
		return &ArgumentError{Message: fmt.Sprintf("region id must be between %d and %d, got %d", MinRegionID, MaxRegionID, regionID)}
	}
	return nil
}

type regionPeriodKey struct {
	to       int64
	regionID int
}

func flattenRegional(data []model.RegionalDatum) []model.RegionalRecord {
	var out []model.RegionalRecord
	for _, datum := range data {
		for _, region := range datum.Regions {
			out = append(out, model.RegionalRecord{
				TimePeriod: datum.TimePeriod,
				RegionID:   region.RegionID,
				DNORegion:  region.DNORegion,
				ShortName:  region.ShortName,
				Intensity:  region.Intensity,
				Mix:        region.Mix,
			})
		}
	}
	return out
}

func flattenSeries(series model.RegionSeries) []model.RegionalRecord {
	var out []model.RegionalRecord
	for _, period := range series.Data {
		out = append(out, model.RegionalRecord{
			TimePeriod: period.TimePeriod,
			RegionID:   series.RegionID,
			DNORegion:  series.DNORegion,
			ShortName:  series.ShortName,
			Intensity:  period.Intensity,
			Mix:        period.Mix,
		})
	}
	return out
}

func sortRegional(records []model.RegionalRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].From.Equal(records[j].From.Time) {
			return records[i].From.Before(records[j].From.Time)
		}
		return records[i].RegionID < records[j].RegionID
	})
}

// getJSON issues a GET against the API and decodes the 200 response body
// into out. Non-2xx responses become *APIError, transport failures become
// *RequestError, and undecodable bodies become *ParseError. There is no
// retry logic; failures propagate to the caller.
func (c *CarbonIntensityClient) getJSON(path string, out any) error {
	u := c.BaseURL + path

	// Check cache first (only if enabled for development).
	cache := GetCache()
	if cache != nil {
		if body, found := cache.Get(u); found {
			log.Printf("[CarbonAPI] Cache hit: %s", path)
			if err := json.Unmarshal(body, out); err != nil {
				return &ParseError{URL: u, Err: err}
			}
			return nil
		}
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return &RequestError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("[CarbonAPI] Request: GET %s", path)
	startTime := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Printf("[CarbonAPI] Request failed: %v (duration: %v)", err, duration)
		return &RequestError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	log.Printf("[CarbonAPI] Response: %d %s (duration: %v)", resp.StatusCode, resp.Status, duration)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{URL: u, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
		var envelope model.APIErrorResponse
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status)
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Printf("[CarbonAPI] Error decoding response: %v", err)
		return &ParseError{URL: u, Err: err}
	}

	if cache != nil {
		cache.Set(u, body)
	}
	return nil
}
