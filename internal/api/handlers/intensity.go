package handlers

import (
	"net/http"

	"carbon-intensity/internal/api/models"
	"carbon-intensity/internal/data"

	"github.com/gin-gonic/gin"
)

// IntensityHandler handles national intensity requests.
type IntensityHandler struct {
	client *data.CarbonIntensityClient
}

// NewIntensityHandler creates a new intensity handler.
func NewIntensityHandler(client *data.CarbonIntensityClient) *IntensityHandler {
	if client == nil {
		client = data.NewCarbonIntensityClient("")
	}
	return &IntensityHandler{client: client}
}

// Current handles GET /api/v1/intensity
func (h *IntensityHandler) Current(c *gin.Context) {
	records, err := h.client.CurrentIntensity()
	if err != nil {
		writeDataError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IntensityResponse{
		Count: len(records),
		Data:  records,
	})
}

// Range handles GET /api/v1/intensity/range?start=...&end=...
func (h *IntensityHandler) Range(c *gin.Context) {
	start, end, _, ok := parseRange(c)
	if !ok {
		return
	}

	records, err := h.client.IntensityBetween(start, end)
	if err != nil {
		writeDataError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IntensityResponse{
		Count: len(records),
		Data:  records,
	})
}
