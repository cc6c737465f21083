package handlers

import (
	"errors"
	"net/http"
	"time"

	"carbon-intensity/internal/api/models"
	"carbon-intensity/internal/data"
	"carbon-intensity/internal/model"

	"github.com/gin-gonic/gin"
)

// writeDataError maps data-layer errors onto HTTP responses. Upstream
// failures surface as 502 so callers can tell them apart from bad input.
func writeDataError(c *gin.Context, err error) {
	var argErr *data.ArgumentError
	if errors.As(err, &argErr) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: argErr.Message,
			},
		})
		return
	}

	var apiErr *data.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UPSTREAM_ERROR",
				Message: apiErr.Message,
				Details: map[string]interface{}{
					"status_code":   apiErr.StatusCode,
					"upstream_code": apiErr.Code,
				},
			},
		})
		return
	}

	var parseErr *data.ParseError
	if errors.As(err, &parseErr) {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UPSTREAM_PARSE_ERROR",
				Message: parseErr.Error(),
			},
		})
		return
	}

	var reqErr *data.RequestError
	if errors.As(err, &reqErr) {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UPSTREAM_UNREACHABLE",
				Message: reqErr.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: err.Error(),
		},
	})
}

// parseRange binds and parses the start/end query parameters. On failure it
// writes the 400 response and returns ok=false.
func parseRange(c *gin.Context) (start, end time.Time, req models.RangeRequest, ok bool) {
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return time.Time{}, time.Time{}, req, false
	}

	start, err := model.ParseSettlementTime(req.Start)
	if err == nil {
		end, err = model.ParseSettlementTime(req.End)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_TIMESTAMP",
				Message: err.Error(),
			},
		})
		return time.Time{}, time.Time{}, req, false
	}

	return start, end, req, true
}
