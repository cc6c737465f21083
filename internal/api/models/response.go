package models

import (
	"carbon-intensity/internal/data"
	"carbon-intensity/internal/model"
)

// IntensityResponse is the envelope for national intensity endpoints.
type IntensityResponse struct {
	Count int                     `json:"count"`
	Data  []model.IntensityRecord `json:"data"`
}

// RegionalResponse is the envelope for regional intensity endpoints.
type RegionalResponse struct {
	Count int                    `json:"count"`
	Data  []model.RegionalRecord `json:"data"`
}

// GenerationResponse is the envelope for generation mix endpoints.
type GenerationResponse struct {
	Count int                         `json:"count"`
	Data  []model.GenerationMixRecord `json:"data"`
}

// RegionsResponse lists the known DNO regions.
type RegionsResponse struct {
	Count   int           `json:"count"`
	Regions []data.Region `json:"regions"`
}

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
