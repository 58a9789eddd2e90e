// Package utils provides utility functions to support various operations within the application.
package utils

import (
	"strconv"

	"code-atlas/internal/schemas"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// ParsePaginationParams extracts the 'offset' and 'limit' parameters from the request's query parameters.
// Invalid values fall back to the defaults, negative offsets become 0 and limits are capped.
func ParsePaginationParams(ctx *gin.Context) (int, int) {
	offset, err := strconv.Atoi(ctx.DefaultQuery(OffsetParamKey, "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery(LimitParamKey, strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return offset, limit
}

// NewPaginatedResponse wraps one page of records together with its pagination details.
func NewPaginatedResponse(records interface{}, offset, limit, totalRecords int) *schemas.PaginatedResponse {
	return &schemas.PaginatedResponse{
		Records: records,
		Pagination: schemas.Pagination{
			Offset:  offset,
			Limit:   limit,
			Records: totalRecords,
		},
	}
}
