// Package httpapi exposes the conversion pipeline over HTTP with gin.
package httpapi

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"anime-ringtone/infrastructure/config"
	"anime-ringtone/infrastructure/logger"
)

// RouterConfig contains the settings NewRouter needs
type RouterConfig struct {
	Debug bool
	CORS  config.CORSConfig
}

// NewRouter builds the gin engine with middleware and the two API routes
func NewRouter(cfg RouterConfig, h *Handlers, log logger.Logger) (*gin.Engine, error) {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware(log))
	router.Use(LoggerMiddleware(log))

	if cfg.CORS.Enabled {
		corsMiddleware, err := CORSMiddleware(cfg.CORS)
		if err != nil {
			return nil, fmt.Errorf("cors: %w", err)
		}
		router.Use(corsMiddleware)
	}

	router.NoRoute(notFound)

	api := router.Group(apiPrefix)
	api.POST("/convert", h.Convert)
	api.GET("/preview/:id", h.Preview)

	return router, nil
}
