package handlers

import (
	"errors"
	"net/http"
	"os"

	"carbon-intensity/internal/api/models"
	"carbon-intensity/internal/data"

	"github.com/gin-gonic/gin"
)

// ListRegions handles GET /api/v1/regions
// Region metadata comes from the regions file if one exists, otherwise the
// built-in DNO table.
func ListRegions(c *gin.Context) {
	regions := data.DefaultRegions()

	if list, err := data.LoadRegions(data.GetDefaultRegionsPath()); err == nil {
		regions = list.Regions
	} else if !errors.Is(err, os.ErrNotExist) {
		// A present-but-broken file is worth surfacing; a missing one is not.
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "REGIONS_LOAD_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.RegionsResponse{
		Count:   len(regions),
		Regions: regions,
	})
}
