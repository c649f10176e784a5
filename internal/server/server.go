// Package server exposes the running passthrough over HTTP for headless use.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alkime/passthru/internal/audio"
	"github.com/alkime/passthru/internal/config"
	"github.com/alkime/passthru/internal/diag"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Status is the read side of the audio session the server reports on.
type Status interface {
	Snapshot() audio.Snapshot
	CPUUsage() float64
	IsStarted() bool
}

// Server represents the HTTP status server.
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
	status Status
	log    *diag.Log
}

// New creates a new Server reporting on status and log.
func New(cfg *config.Config, logger *slog.Logger, status Status, log *diag.Log) *Server {
	// Set Gin mode based on environment
	if cfg.Env != config.EnvDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if log == nil {
		log = &diag.Log{}
	}

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		status: status,
		log:    log,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.ListenAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", s.config.ListenAddr)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("status server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down status server: %w", err)
	}

	return nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/device", s.handleDevice)
		api.GET("/cpu", s.handleCPU)
		api.GET("/log", s.handleLog)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "passthru",
	})
}

type deviceResponse struct {
	TypeName string      `json:"typeName"`
	Running  bool        `json:"running"`
	Device   *deviceBody `json:"device"`
	Lines    []string    `json:"lines"`
}

type deviceBody struct {
	Name               string   `json:"name"`
	SampleRate         float64  `json:"sampleRate"`
	BufferSize         int      `json:"bufferSize"`
	BitDepth           int      `json:"bitDepth"`
	InputChannelNames  []string `json:"inputChannelNames"`
	OutputChannelNames []string `json:"outputChannelNames"`
	ActiveInputs       []int    `json:"activeInputs"`
	ActiveOutputs      []int    `json:"activeOutputs"`
}

func (s *Server) handleDevice(c *gin.Context) {
	snap := s.status.Snapshot()

	resp := deviceResponse{
		TypeName: snap.TypeName,
		Running:  s.status.IsStarted(),
		Lines:    diag.DeviceLines(snap),
	}

	if dev := snap.Device; dev != nil {
		resp.Device = &deviceBody{
			Name:               dev.Name,
			SampleRate:         dev.SampleRate,
			BufferSize:         dev.BufferSize,
			BitDepth:           dev.BitDepth,
			InputChannelNames:  dev.InputChannelNames,
			OutputChannelNames: dev.OutputChannelNames,
			ActiveInputs:       dev.ActiveInputs.Bits(),
			ActiveOutputs:      dev.ActiveOutputs.Bits(),
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCPU(c *gin.Context) {
	usage := s.status.CPUUsage()

	c.JSON(http.StatusOK, gin.H{
		"usage": usage,
		"text":  diag.FormatCPU(usage),
	})
}

func (s *Server) handleLog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"lines": s.log.Lines(),
	})
}
