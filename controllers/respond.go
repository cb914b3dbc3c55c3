package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Error codes form a closed set so API clients can switch on them.
const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeConflict   = "CONFLICT"
	codeExternal   = "EXTERNAL_SERVICE_ERROR"
	codeDatabase   = "DATABASE_ERROR"
	codeAuth       = "UNAUTHORIZED"
)

// respondError writes the standard error envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondData writes the standard success envelope
func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		respondError(c, 400, codeValidation, "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads page and page_size query params, clamping to
// sane defaults.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// parseDateQuery reads an optional date query parameter, accepting
// RFC 3339 timestamps or plain dates
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return &t, true
	}
	respondError(c, 400, codeValidation, "Invalid date format for "+name+", use RFC 3339 or YYYY-MM-DD")
	return nil, false
}
