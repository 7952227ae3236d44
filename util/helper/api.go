package helper_util

import (
	"strconv"

	"github.com/gin-gonic/gin"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// GetPaginationParams reads limit and offset from the query string. Limits above
// MaxPageSize are clamped; negative values are rejected.
func GetPaginationParams(c *gin.Context) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || limit < 0 {
		return 0, 0, ta_errors.ErrInvalidPagination
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, ta_errors.ErrInvalidPagination
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit, offset, nil
}
