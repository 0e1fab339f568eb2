// Package server exposes the local control API: status snapshots, manual
// rotation triggers, the rotation history, and Prometheus metrics. It
// binds to loopback and carries no authentication; anything that can
// reach it is already on the device.
package server

import (
	"net/http"

	"ssb-ap-go/internal/config"
	"ssb-ap-go/internal/middleware"
	"ssb-ap-go/internal/rotation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies carries everything the route handlers need.
type Dependencies struct {
	Config  func() *config.FileConfig
	Paths   rotation.Paths
	History *rotation.HistoryLog
}

// BuildEngine assembles the gin engine with the standard middleware chain
// and all control routes mounted at the root.
func BuildEngine(deps Dependencies) *gin.Engine {
	cfg := deps.Config()
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.RateLimiter(cfg.ControlRPS, cfg.ControlRPS*2))

	h := &handlers{deps: deps}

	engine.GET("/healthz", h.healthz)
	engine.GET("/status", h.allStatus)
	engine.GET("/status/:interface", h.interfaceStatus)
	engine.POST("/rotate/:interface", h.triggerRotation)
	engine.GET("/rotations", h.rotations)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

type handlers struct {
	deps Dependencies
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
