package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationResponse represents the pagination metadata in API responses.
// Limit is omitted when the list was not limited.
type PaginationResponse struct {
	Limit  *int  `json:"limit,omitempty"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

// NewPaginationResponse echoes the applied limit and offset next to the total
func NewPaginationResponse(limit, offset *int, total int64) PaginationResponse {
	resp := PaginationResponse{Total: total}
	if limit != nil && *limit > 0 {
		l := *limit
		resp.Limit = &l
	}
	if offset != nil {
		resp.Offset = *offset
	}
	return resp
}

// ParseIDParam reads a numeric path parameter
func ParseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
