package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vidora/vidora-backend/internal/common"
	"github.com/vidora/vidora-backend/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// quietPaths are served without an access log line
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// RequestLogger assigns every request an ID, echoes it in the response and
// writes one access log entry when the handler chain returns.
// Client supplied IDs are reused when they look sane.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		if quietPaths[c.Request.URL.Path] {
			return
		}

		status := c.Writer.Status()
		log := logger.WithRequestID(id)
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		default:
			ev = log.Info()
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if uid := GetUserID(c); uid != 0 {
			ev = ev.Uint64("user_id", uid)
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			ev = ev.Strs("errors", errs.Errors())
		}

		ev.Str("method", c.Request.Method).
			Str("route", route).
			Str("uri", c.Request.URL.RequestURI()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Str("ua", c.Request.UserAgent()).
			Dur("elapsed", time.Since(begin)).
			Msg("http")
	}
}

// GetRequestID returns the ID RequestLogger assigned to c, or ""
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Recovery turns a handler panic into a 500 envelope and logs it with the
// request ID. It must be installed after RequestLogger.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log := logger.WithRequestID(GetRequestID(c))
		log.Error().
			Interface("panic", recovered).
			Str("route", c.FullPath()).
			Msg("handler panicked")
		common.ErrorResponse(c, http.StatusInternalServerError, "internal server error", nil)
		c.Abort()
	})
}
