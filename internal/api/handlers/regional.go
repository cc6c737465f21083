package handlers

import (
	"net/http"

	"carbon-intensity/internal/api/models"
	"carbon-intensity/internal/data"
	"carbon-intensity/internal/model"

	"github.com/gin-gonic/gin"
)

// RegionalHandler handles regional intensity requests.
type RegionalHandler struct {
	client *data.CarbonIntensityClient
}

// NewRegionalHandler creates a new regional handler.
func NewRegionalHandler(client *data.CarbonIntensityClient) *RegionalHandler {
	if client == nil {
		client = data.NewCarbonIntensityClient("")
	}
	return &RegionalHandler{client: client}
}

// Current handles GET /api/v1/regional?region_id=...
// With no region_id, all 17 regions are returned.
func (h *RegionalHandler) Current(c *gin.Context) {
	var req struct {
		RegionID int `form:"region_id"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	var records []model.RegionalRecord
	var err error
	if req.RegionID != 0 {
		records, err = h.client.CurrentRegionalByID(req.RegionID)
	} else {
		records, err = h.client.CurrentRegional()
	}
	if err != nil {
		writeDataError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RegionalResponse{
		Count: len(records),
		Data:  records,
	})
}

// Range handles GET /api/v1/regional/range?start=...&end=...&region_id=...
func (h *RegionalHandler) Range(c *gin.Context) {
	start, end, req, ok := parseRange(c)
	if !ok {
		return
	}

	var records []model.RegionalRecord
	var err error
	if req.RegionID != 0 {
		records, err = h.client.RegionalBetweenByID(start, end, req.RegionID)
	} else {
		records, err = h.client.RegionalBetween(start, end)
	}
	if err != nil {
		writeDataError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RegionalResponse{
		Count: len(records),
		Data:  records,
	})
}
