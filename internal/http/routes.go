package http

import (
	"github.com/gin-gonic/gin"

	"pokeduel/internal/config"
	"pokeduel/internal/http/handlers"
	"pokeduel/internal/http/middleware"
	"pokeduel/internal/ws"
)

// RegisterRoutes wires the health endpoints and the websocket upgrade path.
func RegisterRoutes(r *gin.Engine, gw *ws.Gateway, stats handlers.Stats, cfg *config.Config, version string) {
	healthHandler := handlers.NewHealthHandler(stats, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// WebSocket entrypoint; rate limited per IP so a reconnect storm cannot
	// flood matchmaking.
	r.GET("/ws",
		middleware.SimpleRateLimit(cfg.WSRateLimit, cfg.WSRateWindow),
		ws.HandleWS(gw, cfg.AllowedOrigin),
	)
}
