// Package server exposes the scene query API over HTTP. Every endpoint
// takes a `t` query parameter, the absolute minute to evaluate; the model
// is pure, so handlers share one System with no locking.
package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pulselane/tunnelsim/internal/scene"
)

type Server struct {
	sys *scene.System
}

func New(sys *scene.System) *Server {
	return &Server{sys: sys}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/frame", s.handleFrame)
		api.GET("/vehicles", s.handleVehicles)
		api.GET("/phases", s.handlePhases)
		api.GET("/zones", s.handleZones)
	}

	return r
}

// Run serves on the given port until the listener fails.
func (s *Server) Run(port int) error {
	return s.Router().Run(fmt.Sprintf(":%d", port))
}

// queryMinute parses the `t` parameter. A missing, malformed, or
// non-finite value is a client error.
func queryMinute(c *gin.Context) (float64, bool) {
	raw := c.Query("t")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter t (absolute minutes)"})
		return 0, false
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("t must be a finite number, got %q", raw)})
		return 0, false
	}
	return t, true
}

func (s *Server) handleFrame(c *gin.Context) {
	t, ok := queryMinute(c)
	if !ok {
		return
	}
	frame, err := s.sys.At(t)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, frame)
}

func (s *Server) handleVehicles(c *gin.Context) {
	t, ok := queryMinute(c)
	if !ok {
		return
	}
	vehicles, err := s.sys.Vehicles(t)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"t": t, "vehicles": vehicles})
}

func (s *Server) handlePhases(c *gin.Context) {
	t, ok := queryMinute(c)
	if !ok {
		return
	}
	phases, err := s.sys.GetPhases(t)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"t": t, "phases": phases})
}

func (s *Server) handleZones(c *gin.Context) {
	t, ok := queryMinute(c)
	if !ok {
		return
	}
	rects, err := s.sys.ColorRectangles(t)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"t": t, "rectangles": rects})
}
