package server

import (
	"log/slog"

	"github.com/alkime/passthru/internal/config"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// statusCSP allows nothing; the server only returns JSON.
const statusCSP = "default-src 'none'; frame-ancestors 'none'"

// setupSecurityMiddleware configures and applies security middleware to the router
func setupSecurityMiddleware(router *gin.Engine, cfg *config.Config, logger *slog.Logger) {
	secureMiddleware := secure.New(secure.Config{
		AllowedHosts:          cfg.AllowedHosts,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: statusCSP,
		IsDevelopment:         cfg.Env == config.EnvDevelopment,
	})
	router.Use(secureMiddleware)

	logger.Debug("Configured security middleware",
		"allowed_hosts", cfg.AllowedHosts,
		"development", cfg.Env == config.EnvDevelopment,
	)
}
