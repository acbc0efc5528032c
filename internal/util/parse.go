package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParseID parses a positive decimal id
func ParseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// IDParam reads the named path parameter as an id. A malformed id gets a
// 400 and ok is false.
func IDParam(c *gin.Context, name string) (uint64, bool) {
	id, ok := ParseID(c.Param(name))
	if !ok {
		RespondBadRequest(c, "Invalid "+name+".")
		return 0, false
	}
	return id, true
}
