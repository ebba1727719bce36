// Package web serves the site: server-rendered pages over the backend API,
// the scroll JSON endpoint, and the generated SEO surfaces (sitemap, robots,
// OG image).
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sudogwon/web/config"
	"sudogwon/web/internal/api"
	"sudogwon/web/internal/format"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Handler carries the dependencies shared by every page handler.
type Handler struct {
	client *api.Client
	cfg    *config.Config
	logger *logrus.Logger
}

// NewHandler wires the page handlers.
func NewHandler(client *api.Client, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Handler{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// templateFuncs exposes the formatting helpers to the templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"price": format.Price,
		"comma": format.Comma,
		"int64": func(n int) int64 { return int64(n) },
	}
}

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter(handler *Handler) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(handler.logger))

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("embedded static tree: %w", err)
	}
	router.StaticFS("/static", http.FS(staticRoot))

	// Pages
	router.GET("/", handler.Home)
	router.GET("/search", handler.Search)
	router.GET("/browse", handler.Browse)
	router.GET("/apartment/:id", handler.ApartmentDetail)
	router.GET("/compare", handler.Compare)
	router.POST("/compare/toggle", handler.CompareToggle)
	router.POST("/compare/remove", handler.CompareRemove)
	router.GET("/stats", handler.Stats)
	router.GET("/monitor", handler.Monitor)
	router.GET("/perf-test", handler.PerfTest)

	// SEO surfaces
	router.GET("/sitemap.xml", handler.Sitemap)
	router.GET("/robots.txt", handler.Robots)

	// Machine-readable endpoints; preview bots and embedded clients fetch
	// these cross-origin.
	apiGroup := router.Group("/api")
	apiGroup.Use(cors.Default())
	{
		apiGroup.GET("/og/:id", handler.OGImage)
		apiGroup.GET("/apartments/:id/transactions", handler.TransactionsJSON)
	}

	return router, nil
}

// requestLogger logs method, path and status for every handled request.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Info("Request handled")
	}
}
