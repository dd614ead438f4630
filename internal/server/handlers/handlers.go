// Package handlers contains the gin HTTP adapters for the reporting API.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"reportbot/internal/repository/postgres"
)

// decimalForm reads a form field as a decimal, treating an absent or empty
// field as zero.
func decimalForm(c *gin.Context, field string) (decimal.Decimal, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// paginationQuery reads limit/offset query parameters.
func paginationQuery(c *gin.Context) postgres.Pagination {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return postgres.Pagination{Offset: offset, Limit: limit}
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func validShiftType(shiftType string) bool {
	return shiftType == "morning" || shiftType == "night"
}
