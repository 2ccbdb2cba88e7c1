package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"solar_simulator/internal/session"
)

// RouterOptions configure the non-API parts of the router.
type RouterOptions struct {
	// WebSocket is mounted at /ws when set.
	WebSocket http.Handler
	// StaticDir holds a built frontend served for every non-API path.
	StaticDir string
}

// NewRouter wires the REST API for sess.
func NewRouter(sess *session.Session, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(ErrorHandler())

	h := NewHandler(sess)

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/health", h.Health)
		api.GET("/params", h.GetParams)
		api.PUT("/params", h.UpdateParams)
		api.POST("/recompute", h.Recompute)
		api.GET("/run", h.GetRun)
		api.GET("/results", h.GetResults)
		api.GET("/days/:date", h.GetDay)
		api.GET("/monthly", h.GetMonthly)
		api.GET("/kpis", h.GetKPIs)
		api.GET("/frame", h.GetFrame)
	}

	if opts.WebSocket != nil {
		router.GET("/ws", gin.WrapH(opts.WebSocket))
	}

	serveStatic(router, opts.StaticDir)
	return router
}

func serveStatic(router *gin.Engine, dir string) {
	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, CodeNotFound, "not found")
	})
	if dir == "" {
		return
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		log.Printf("Static directory %s has no index.html, skipping static file serving", dir)
		return
	}

	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") {
			abortWithError(c, http.StatusNotFound, CodeNotFound, "not found")
			return
		}
		file := filepath.Join(dir, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	})
	log.Printf("Serving static files from %s", dir)
}
