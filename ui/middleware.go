package ui

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clasificador/domain/core"
	"clasificador/internal"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(RequestID())
	s.router.Use(AccessLog(s.logger))
	s.router.Use(CORS(s.cfg.CORSOrigins))
}

// RequestID propagates a caller supplied X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseRequestID(c.GetHeader(requestIDHeader))
		if err != nil {
			id = core.NewRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id.String())
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) core.RequestID {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(core.RequestID); ok {
			return id
		}
	}
	return ""
}

// AccessLog writes one structured line per request.
func AccessLog(logger *internal.Logger) gin.HandlerFunc {
	z := logger.Named("http").Zap()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestIDFrom(c).String()),
			zap.String("remote", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			z.Error("request", fields...)
			return
		}
		z.Info("request", fields...)
	}
}

// CORS allows browser uploads from the configured origins. "*" allows any origin.
func CORS(origins []string) gin.HandlerFunc {
	allowAll := slices.Contains(origins, "*")
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || slices.Contains(origins, origin)) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join([]string{"Content-Type", requestIDHeader}, ", "))
			c.Header("Access-Control-Expose-Headers", "Content-Disposition, "+requestIDHeader)
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
