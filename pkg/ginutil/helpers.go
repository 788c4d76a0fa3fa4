package ginutil

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrInvalidID is returned for path ids that are not positive integers
var ErrInvalidID = errors.New("id must be a positive integer")

// QueryInt reads an integer query parameter, falling back to def when it is
// missing or malformed
func QueryInt(c *gin.Context, key string, def int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil {
		return n
	}
	return def
}

// QueryUint64 extracts an unsigned id from query parameters; 0 when absent or malformed
func QueryUint64(c *gin.Context, key string) uint64 {
	value, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// ParamID extracts a positive uint64 id from path parameters
func ParamID(c *gin.Context, key string) (uint64, error) {
	value, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || value == 0 {
		return 0, ErrInvalidID
	}
	return value, nil
}
