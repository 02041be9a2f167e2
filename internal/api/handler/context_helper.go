package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"smp-portal/backend/pkg/response"
)

// ParseIDParam reads a positive integer path parameter. On failure it writes
// a 400 response; the caller should return when ok is false.
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, 10001, "invalid "+name)
		return 0, false
	}
	return id, true
}

// ParsePagination reads page and limit query parameters with sane defaults
// and caps.
func ParsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// MustGetUserID extracts the authenticated user id injected by JWTAuth. On
// failure it writes a 401 response; the caller should return when ok is
// false.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}
