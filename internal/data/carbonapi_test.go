package data

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carbon-intensity/internal/model"
)

// fakeESO serves Carbon Intensity API shaped responses with one record per
// half-hour period between the requested bounds (inclusive), the way the
// real API does. With padEnd set, each range response carries one extra
// trailing period so adjacent sub-range requests overlap at the boundary.
type fakeESO struct {
	mu       sync.Mutex
	requests []string
	padEnd   bool
}

func (f *fakeESO) recordedRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeESO) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.Path)
		f.mu.Unlock()

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/intensity":
			writeJSON(w, model.IntensityResponse{Data: f.intensityPeriods(nowPeriodEnd(), nowPeriodEnd())})
		case len(parts) == 3 && parts[0] == "intensity":
			from, to, err := parseBounds(parts[1], parts[2])
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, model.IntensityResponse{Data: f.intensityPeriods(from, to)})
		case r.URL.Path == "/generation":
			recs := f.generationPeriods(nowPeriodEnd(), nowPeriodEnd())
			writeJSON(w, model.GenerationResponse{Data: recs[0]})
		case len(parts) == 3 && parts[0] == "generation":
			from, to, err := parseBounds(parts[1], parts[2])
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, model.GenerationRangeResponse{Data: f.generationPeriods(from, to)})
		case r.URL.Path == "/regional":
			writeJSON(w, model.RegionalResponse{Data: f.regionalData(nowPeriodEnd(), nowPeriodEnd())})
		case len(parts) == 3 && parts[0] == "regional" && parts[1] == "regionid":
			writeJSON(w, model.RegionalByIDResponse{Data: []model.RegionSeries{
				f.regionSeries(nowPeriodEnd(), nowPeriodEnd(), 13),
			}})
		case len(parts) == 4 && parts[0] == "regional" && parts[1] == "intensity":
			from, to, err := parseBounds(parts[2], parts[3])
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, model.RegionalResponse{Data: f.regionalData(from, to)})
		case len(parts) == 6 && parts[0] == "regional" && parts[1] == "intensity" && parts[4] == "regionid":
			from, to, err := parseBounds(parts[2], parts[3])
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeJSON(w, model.RegionalRangeByIDResponse{Data: f.regionSeries(from, to, 13)})
		default:
			http.NotFound(w, r)
		}
	}
}

func parseBounds(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := model.ParseSettlementTime(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := model.ParseSettlementTime(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func nowPeriodEnd() time.Time {
	return time.Date(2020, 4, 20, 11, 30, 0, 0, time.UTC)
}

// periodEnds lists the period end timestamps in [from, to], stepping one
// settlement period.
func (f *fakeESO) periodEnds(from, to time.Time) []time.Time {
	var ends []time.Time
	for ts := from; !ts.After(to); ts = ts.Add(model.SettlementPeriod) {
		ends = append(ends, ts)
	}
	if f.padEnd && len(ends) > 0 {
		ends = append(ends, ends[len(ends)-1].Add(model.SettlementPeriod))
	}
	return ends
}

func (f *fakeESO) intensityPeriods(from, to time.Time) []model.IntensityRecord {
	var out []model.IntensityRecord
	for i, end := range f.periodEnds(from, to) {
		rec := model.IntensityRecord{
			TimePeriod: model.TimePeriod{
				From: model.SettlementTime{Time: end.Add(-model.SettlementPeriod)},
				To:   model.SettlementTime{Time: end},
			},
			Intensity: model.Intensity{
				Forecast: 180 + float64(i%40),
				Index:    "moderate",
			},
		}
		if i%2 == 0 {
			actual := 175 + float64(i%40)
			rec.Intensity.Actual = &actual
		}
		out = append(out, rec)
	}
	return out
}

func (f *fakeESO) generationPeriods(from, to time.Time) []model.GenerationMixRecord {
	var out []model.GenerationMixRecord
	for _, end := range f.periodEnds(from, to) {
		out = append(out, model.GenerationMixRecord{
			TimePeriod: model.TimePeriod{
				From: model.SettlementTime{Time: end.Add(-model.SettlementPeriod)},
				To:   model.SettlementTime{Time: end},
			},
			Mix: []model.FuelShare{
				{Fuel: "gas", Perc: 40.0},
				{Fuel: "wind", Perc: 35.0},
				{Fuel: "nuclear", Perc: 25.0},
			},
		})
	}
	return out
}

func (f *fakeESO) regionalData(from, to time.Time) []model.RegionalDatum {
	var out []model.RegionalDatum
	for _, end := range f.periodEnds(from, to) {
		out = append(out, model.RegionalDatum{
			TimePeriod: model.TimePeriod{
				From: model.SettlementTime{Time: end.Add(-model.SettlementPeriod)},
				To:   model.SettlementTime{Time: end},
			},
			Regions: []model.RegionSnapshot{
				{RegionID: 1, DNORegion: "Scottish Hydro Electric Power Distribution", ShortName: "North Scotland",
					Intensity: model.Intensity{Forecast: 35, Index: "low"},
					Mix:       []model.FuelShare{{Fuel: "wind", Perc: 90}, {Fuel: "hydro", Perc: 10}}},
				{RegionID: 13, DNORegion: "UKPN London", ShortName: "London",
					Intensity: model.Intensity{Forecast: 210, Index: "high"},
					Mix:       []model.FuelShare{{Fuel: "gas", Perc: 60}, {Fuel: "wind", Perc: 40}}},
			},
		})
	}
	return out
}

func (f *fakeESO) regionSeries(from, to time.Time, regionID int) model.RegionSeries {
	series := model.RegionSeries{
		RegionID:  regionID,
		DNORegion: "UKPN London",
		ShortName: "London",
	}
	for _, end := range f.periodEnds(from, to) {
		series.Data = append(series.Data, model.RegionPeriod{
			TimePeriod: model.TimePeriod{
				From: model.SettlementTime{Time: end.Add(-model.SettlementPeriod)},
				To:   model.SettlementTime{Time: end},
			},
			Intensity: model.Intensity{Forecast: 212, Index: "high"},
			Mix:       []model.FuelShare{{Fuel: "gas", Perc: 58}, {Fuel: "wind", Perc: 42}},
		})
	}
	return series
}

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, padEnd bool) (*CarbonIntensityClient, *fakeESO) {
	t.Helper()
	fake := &fakeESO{padEnd: padEnd}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return NewCarbonIntensityClient(server.URL), fake
}

func TestIntensityBetween_SingleRequestUnderCap(t *testing.T) {
	client, fake := newTestClient(t, false)

	start := time.Date(2020, 4, 1, 0, 30, 0, 0, time.UTC)
	end := time.Date(2020, 4, 2, 0, 30, 0, 0, time.UTC)

	records, err := client.IntensityBetween(start, end)
	require.NoError(t, err)

	require.Len(t, fake.recordedRequests(), 1)
	assert.Equal(t, "/intensity/2020-04-01T00:30Z/2020-04-02T00:30Z", fake.recordedRequests()[0])

	// 24h span, inclusive endpoints: 48 + 1 periods.
	assert.Len(t, records, 49)
	assert.True(t, records[0].To.Equal(start))
	assert.True(t, records[len(records)-1].To.Equal(end))
}

func TestIntensityBetween_ChunksLongRange(t *testing.T) {
	client, fake := newTestClient(t, false)

	// The documented 16.5-day example: two requests, one record per
	// half-hour period, count = minutes/30 + 1.
	start := time.Date(2020, 4, 1, 0, 30, 0, 0, time.UTC)
	end := time.Date(2020, 4, 17, 14, 0, 0, 0, time.UTC)

	records, err := client.IntensityBetween(start, end)
	require.NoError(t, err)

	requests := fake.recordedRequests()
	require.Len(t, requests, 2)
	assert.Equal(t, "/intensity/2020-04-01T00:30Z/2020-04-15T00:00Z", requests[0])
	assert.Equal(t, "/intensity/2020-04-15T00:30Z/2020-04-17T14:00Z", requests[1])

	wantCount := int(end.Sub(start)/(30*time.Minute)) + 1
	assert.Equal(t, wantCount, len(records))

	assertStrictlyAscending(t, records)
	assert.True(t, records[0].To.Equal(start))
	assert.True(t, records[len(records)-1].To.Equal(end))
}

func TestIntensityBetween_DedupsBoundaryPeriods(t *testing.T) {
	// padEnd makes every range response spill one period past its bound,
	// so the first period of each following chunk arrives twice.
	client, fake := newTestClient(t, true)

	start := time.Date(2020, 4, 1, 0, 30, 0, 0, time.UTC)
	end := time.Date(2020, 4, 17, 14, 0, 0, 0, time.UTC)

	records, err := client.IntensityBetween(start, end)
	require.NoError(t, err)
	require.Len(t, fake.recordedRequests(), 2)

	// The trailing pad past the overall end survives; the boundary
	// duplicate between the two chunks must not.
	wantCount := int(end.Sub(start)/(30*time.Minute)) + 2
	assert.Equal(t, wantCount, len(records))
	assertStrictlyAscending(t, records)
}

func TestIntensityBetween_SamePointReturnsSinglePeriod(t *testing.T) {
	client, fake := newTestClient(t, false)

	// 00:15 falls inside the (00:00, 00:30] settlement period.
	at := time.Date(2020, 4, 1, 0, 15, 0, 0, time.UTC)

	records, err := client.IntensityBetween(at, at)
	require.NoError(t, err)

	require.Len(t, fake.recordedRequests(), 1)
	assert.Equal(t, "/intensity/2020-04-01T00:30Z/2020-04-01T00:30Z", fake.recordedRequests()[0])

	require.Len(t, records, 1)
	assert.True(t, records[0].To.Equal(time.Date(2020, 4, 1, 0, 30, 0, 0, time.UTC)))
}

func TestIntensityBetween_InvalidArgs(t *testing.T) {
	client, fake := newTestClient(t, false)

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{name: "zero start", end: time.Now().UTC()},
		{name: "zero end", start: time.Now().UTC()},
		{
			name:  "reversed bounds",
			start: time.Date(2020, 4, 2, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.IntensityBetween(tt.start, tt.end)
			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
		})
	}

	// Validation failures never reach the network.
	assert.Empty(t, fake.recordedRequests())
}

func TestCurrentIntensity(t *testing.T) {
	client, fake := newTestClient(t, false)

	records, err := client.CurrentIntensity()
	require.NoError(t, err)

	require.Len(t, fake.recordedRequests(), 1)
	assert.Equal(t, "/intensity", fake.recordedRequests()[0])

	require.Len(t, records, 1)
	assert.Equal(t, "moderate", records[0].Intensity.Index)
	require.NotNil(t, records[0].Intensity.Actual)
}

func TestCurrentGenerationMix(t *testing.T) {
	client, _ := newTestClient(t, false)

	record, err := client.CurrentGenerationMix()
	require.NoError(t, err)

	mix := record.MixMap()
	var total float64
	for _, share := range mix {
		total += share
	}
	assert.InDelta(t, 100.0, total, 0.5)
}

func TestGenerationMixBetween(t *testing.T) {
	client, fake := newTestClient(t, false)

	start := time.Date(2020, 4, 1, 0, 30, 0, 0, time.UTC)
	end := time.Date(2020, 4, 1, 6, 0, 0, 0, time.UTC)

	records, err := client.GenerationMixBetween(start, end)
	require.NoError(t, err)

	require.Len(t, fake.recordedRequests(), 1)
	assert.Equal(t, "/generation/2020-04-01T00:30Z/2020-04-01T06:00Z", fake.recordedRequests()[0])
	assert.Len(t, records, 12)
	for _, rec := range records {
		assert.NotEmpty(t, rec.Mix)
	}
}

func TestCurrentRegional(t *testing.T) {
	client, _ := newTestClient(t, false)

	records, err := client.CurrentRegional()
	require.NoError(t, err)

	// Two regions per period in the fake, ordered by region id.
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].RegionID)
	assert.Equal(t, 13, records[1].RegionID)
	assert.Equal(t, "London", records[1].ShortName)
	assert.Equal(t, "UKPN London", records[1].DNORegion)
}

func TestCurrentRegionalByID(t *testing.T) {
	client, fake := newTestClient(t, false)

	records, err := client.CurrentRegionalByID(13)
	require.NoError(t, err)

	require.Len(t, fake.recordedRequests(), 1)
	assert.Equal(t, "/regional/regionid/13", fake.recordedRequests()[0])
	require.Len(t, records, 1)
	assert.Equal(t, 13, records[0].RegionID)
}

func TestRegionalBetween(t *testing.T) {
	client, fake := newTestClient(t, false)

	start := time.Date(2020, 4, 1, 0, 30, 0, 0, time.UTC)
	end := time.Date(2020, 4, 1, 2, 0, 0, 0, time.UTC)

	records, err := client.RegionalBetween(start, end)
	require.NoError(t, err)

	require.Len(t, fake.recordedRequests(), 1)
	assert.Equal(t, "/regional/intensity/2020-04-01T00:30Z/2020-04-01T02:00Z", fake.recordedRequests()[0])

	// 4 periods x 2 regions, ordered by period start then region id.
	require.Len(t, records, 8)
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if prev.From.Equal(cur.From.Time) {
			assert.Less(t, prev.RegionID, cur.RegionID)
		} else {
			assert.True(t, prev.From.Before(cur.From.Time))
		}
	}
}

func TestRegionalBetweenByID(t *testing.T) {
	client, fake := newTestClient(t, false)

	start := time.Date(2020, 4, 1, 0, 30, 0, 0, time.UTC)
	end := time.Date(2020, 4, 1, 2, 0, 0, 0, time.UTC)

	records, err := client.RegionalBetweenByID(start, end, 13)
	require.NoError(t, err)

	require.Len(t, fake.recordedRequests(), 1)
	assert.Equal(t, "/regional/intensity/2020-04-01T00:30Z/2020-04-01T02:00Z/regionid/13", fake.recordedRequests()[0])

	require.Len(t, records, 4)
	for _, rec := range records {
		assert.Equal(t, 13, rec.RegionID)
		assert.Equal(t, "London", rec.ShortName)
	}
}

func TestRegionIDValidation(t *testing.T) {
	client, fake := newTestClient(t, false)

	for _, id := range []int{0, -1, 18, 100} {
		_, err := client.CurrentRegionalByID(id)
		var argErr *ArgumentError
		require.ErrorAs(t, err, &argErr, "region id %d", id)

		_, err = client.RegionalBetweenByID(time.Now().Add(-time.Hour), time.Now(), id)
		require.ErrorAs(t, err, &argErr, "region id %d", id)
	}

	assert.Empty(t, fake.recordedRequests())
}

func TestGetJSON_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"data": [truncated`)
	}))
	defer server.Close()

	client := NewCarbonIntensityClient(server.URL)
	_, err := client.CurrentIntensity()

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestGetJSON_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"code": "500 Internal Server Error", "message": "upstream exploded"}}`)
	}))
	defer server.Close()

	client := NewCarbonIntensityClient(server.URL)
	_, err := client.CurrentIntensity()

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "500 Internal Server Error", apiErr.Code)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestGetJSON_ErrorWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	}))
	defer server.Close()

	client := NewCarbonIntensityClient(server.URL)
	_, err := client.CurrentIntensity()

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusGatewayTimeout, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)
	assert.Contains(t, apiErr.Body, "gateway timeout")
}

func TestGetJSON_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close() // nothing listening any more

	client := NewCarbonIntensityClient(serverURL)
	_, err := client.CurrentIntensity()

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.NotNil(t, reqErr.Unwrap())
}

func TestCeilHalfHour(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "aligned on the hour",
			in:   time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC),
			want: time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "aligned on the half hour",
			in:   time.Date(2020, 4, 1, 12, 30, 0, 0, time.UTC),
			want: time.Date(2020, 4, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "mid-period rounds up",
			in:   time.Date(2020, 4, 1, 12, 1, 0, 0, time.UTC),
			want: time.Date(2020, 4, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name: "seconds force a round up",
			in:   time.Date(2020, 4, 1, 12, 30, 1, 0, time.UTC),
			want: time.Date(2020, 4, 1, 13, 0, 0, 0, time.UTC),
		},
		{
			name: "non-UTC input normalizes",
			in:   time.Date(2020, 4, 1, 13, 15, 0, 0, time.FixedZone("BST", 3600)),
			want: time.Date(2020, 4, 1, 12, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ceilHalfHour(tt.in)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func assertStrictlyAscending(t *testing.T, records []model.IntensityRecord) {
	t.Helper()
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].From.Before(records[i].From.Time),
			"records out of order at %d: %v then %v", i, records[i-1].From, records[i].From)
	}
}
