package httpserver

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1/projects"

// buildRouter wires routes for the API, the SEO pages and the SPA.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.Projects == nil {
		return nil, errors.New("httpserver: project service is required")
	}
	if deps.UploadsDir != "" {
		if err := os.MkdirAll(deps.UploadsDir, 0o755); err != nil {
			return nil, fmt.Errorf("create uploads dir: %w", err)
		}
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), requestID())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))

	router.Use(corsMiddleware(logger, deps.CORSOrigins))
	if deps.RateLimitPerMinute > 0 {
		router.Use(newRateLimiter(deps.RateLimitPerMinute, time.Now).middleware())
	}

	projects := &projectHandler{svc: deps.Projects, logger: logger}
	projects.register(router.Group(apiPrefix))

	pages := &pageHandler{
		svc:         deps.Projects,
		site:        deps.Site,
		frontendDir: deps.FrontendDir,
		logger:      logger,
	}
	router.GET("/project/:slug", pages.projectPage)
	router.GET("/sitemap.xml", pages.sitemap)
	router.GET("/robots.txt", pages.robots)
	if deps.UploadsDir != "" {
		router.Static("/uploads", deps.UploadsDir)
	}
	router.NoRoute(pages.fallback)

	return router, nil
}

func corsMiddleware(logger *log.Logger, origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		switch {
		case o == "*":
			cfg.AllowAllOrigins = true
		case strings.HasPrefix(o, "http://"), strings.HasPrefix(o, "https://"):
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		default:
			logger.Printf("cors: ignoring origin %q without scheme", o)
		}
	}
	if cfg.AllowAllOrigins {
		cfg.AllowOrigins = nil
	}
	if !cfg.AllowAllOrigins && len(cfg.AllowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}
