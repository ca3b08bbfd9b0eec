package apiserver

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/firebitsbr/houdinis/internal/logger"
)

var requestCount int64

// corsOptions configures the permissive-by-default CORS middleware
// (grounded on the teacher's internal/server/router.cors).
type corsOptions struct {
	Origin string
}

func cors(options corsOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		if options.Origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", options.Origin)
		}
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-Request-Id")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// requestWrapper logs every request with a per-request sub-logger,
// the same shape as the teacher's internal/server/router.requestWrapper:
// a monotonic request count plus an X-Request-Id, honoring one supplied
// by the caller.
func requestWrapper(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqCount := strconv.FormatInt(atomic.AddInt64(&requestCount, 1), 10)
		reqID := c.Request.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-Id", reqID)

		l := log.SpawnForContext(reqCount, reqID)
		c.Set("logger", l)

		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		latency := time.Since(start)

		fields := func(e *zerolog.Event) {
			e.Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Int("status", status).
				Dur("latency", latency).
				Msg("request served")
		}
		switch {
		case status >= http.StatusInternalServerError:
			fields(l.Error())
		case status >= http.StatusBadRequest:
			fields(l.Warn())
		default:
			fields(l.Info())
		}
	}
}
