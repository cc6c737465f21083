package model

// Response envelopes for the Carbon Intensity API. The API wraps everything
// in a top-level "data" key whose shape varies by endpoint.

// IntensityResponse matches /intensity and /intensity/{from}/{to}.
//
// Example:
// {
//   "data": [
//     {"from": "2020-04-01T00:00Z", "to": "2020-04-01T00:30Z",
//      "intensity": {"forecast": 187, "actual": 189, "index": "moderate"}}
//   ]
// }
type IntensityResponse struct {
	Data []IntensityRecord `json:"data"`
}

// GenerationResponse matches /generation (single current period).
type GenerationResponse struct {
	Data GenerationMixRecord `json:"data"`
}

// GenerationRangeResponse matches /generation/{from}/{to}.
type GenerationRangeResponse struct {
	Data []GenerationMixRecord `json:"data"`
}

// RegionalResponse matches /regional and /regional/intensity/{from}/{to}.
type RegionalResponse struct {
	Data []RegionalDatum `json:"data"`
}

// RegionalByIDResponse matches /regional/regionid/{id}.
type RegionalByIDResponse struct {
	Data []RegionSeries `json:"data"`
}

// RegionalRangeByIDResponse matches
// /regional/intensity/{from}/{to}/regionid/{id}. Unlike the all-regions
// endpoints the "data" value here is an object, not an array.
type RegionalRangeByIDResponse struct {
	Data RegionSeries `json:"data"`
}

// APIErrorResponse matches the API's error body:
// {"error": {"code": "400 Bad Request", "message": "..."}}
type APIErrorResponse struct {
	Error APIErrorDetail `json:"error"`
}

type APIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
