package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"anime-ringtone/domain/media"
	"anime-ringtone/infrastructure/config"
	"anime-ringtone/infrastructure/logger"
)

const (
	requestIDHeader    = "X-Request-ID"
	requestIDKey       = "request_id"
	loggerKey          = "logger"
	maxRequestIDLength = 128
	apiPrefix          = "/api"
)

// RequestIDMiddleware tags each request with an ID and a logger carrying it.
// An inbound X-Request-ID is kept unless it is oversized.
func RequestIDMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		c.Set(requestIDKey, requestID)
		c.Set(loggerKey, log.With(logger.String(requestIDKey, requestID)))
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or fallback outside a tagged request
func LoggerFrom(c *gin.Context, fallback logger.Logger) logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logger.Logger); ok {
			return l
		}
	}
	return fallback
}

// LoggerMiddleware logs one entry per request with its status and duration
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := []logger.Field{
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", status),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, logger.Strings("errors", c.Errors.Errors()))
		}

		reqLog := LoggerFrom(c, log)
		switch {
		case status >= http.StatusInternalServerError:
			reqLog.Error("HTTP request failed", fields...)
		case status >= http.StatusBadRequest:
			reqLog.Warn("HTTP request rejected", fields...)
		default:
			reqLog.Info("HTTP request", fields...)
		}
	}
}

// RecoveryMiddleware turns a handler panic into a 500 error body
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				LoggerFrom(c, log).Error("Panic recovered",
					logger.Any("error", err),
					logger.String("path", c.Request.URL.Path),
					logger.String("method", c.Request.Method),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					StatusCode: http.StatusInternalServerError,
					Message:    media.MessageInternal,
				})
			}
		}()

		c.Next()
	}
}

// CORSMiddleware applies CORS to paths under /api.
// It runs at engine level so preflights reach it for routes that only accept GET or POST.
func CORSMiddleware(cfg config.CORSConfig) (gin.HandlerFunc, error) {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	corsCfg.ExposeHeaders = []string{"Content-Length", requestIDHeader}

	if allowsAll(cfg.AllowedOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	if err := corsCfg.Validate(); err != nil {
		return nil, err
	}

	handler := cors.New(corsCfg)
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/") {
			c.Next()
			return
		}
		handler(c)
	}, nil
}

func allowsAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
