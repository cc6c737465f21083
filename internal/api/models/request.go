package models

// RangeRequest carries the query parameters for range endpoints.
// Timestamps are ISO 8601 / RFC 3339 (seconds optional, e.g.
// "2020-04-01T00:30Z").
type RangeRequest struct {
	Start    string `form:"start" binding:"required"`
	End      string `form:"end" binding:"required"`
	RegionID int    `form:"region_id,omitempty"` // regional endpoints only; 0 = all regions
}
