package handlers

import (
	"net/http"

	"carbon-intensity/internal/api/models"
	"carbon-intensity/internal/data"
	"carbon-intensity/internal/model"

	"github.com/gin-gonic/gin"
)

// GenerationHandler handles generation mix requests.
type GenerationHandler struct {
	client *data.CarbonIntensityClient
}

// NewGenerationHandler creates a new generation mix handler.
func NewGenerationHandler(client *data.CarbonIntensityClient) *GenerationHandler {
	if client == nil {
		client = data.NewCarbonIntensityClient("")
	}
	return &GenerationHandler{client: client}
}

// Current handles GET /api/v1/generation
func (h *GenerationHandler) Current(c *gin.Context) {
	record, err := h.client.CurrentGenerationMix()
	if err != nil {
		writeDataError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerationResponse{
		Count: 1,
		Data:  []model.GenerationMixRecord{record},
	})
}

// Range handles GET /api/v1/generation/range?start=...&end=...
func (h *GenerationHandler) Range(c *gin.Context) {
	start, end, _, ok := parseRange(c)
	if !ok {
		return
	}

	records, err := h.client.GenerationMixBetween(start, end)
	if err != nil {
		writeDataError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerationResponse{
		Count: len(records),
		Data:  records,
	})
}
