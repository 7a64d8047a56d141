package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pokeduel/internal/config"
	httpServer "pokeduel/internal/http"
	"pokeduel/internal/logger"
	"pokeduel/internal/orchestrator"
	"pokeduel/internal/pokeapi"
	"pokeduel/internal/ws"
)

const version = "1.0.0"

// hubStats exposes coordinator and gateway counters to the health handler.
type hubStats struct {
	coord *orchestrator.Coordinator
	gw    *ws.Gateway
}

func (s hubStats) RoomCount() int   { return s.coord.RoomCount() }
func (s hubStats) ClientCount() int { return s.gw.ClientCount() }

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogJSON)

	pokeClient := pokeapi.NewClient(cfg.PokeAPIURL, cfg.PokemonMaxID, log)
	coord := orchestrator.NewCoordinator(pokeClient, cfg.WinPoints, cfg.BattleDuration, log)
	gateway := ws.NewGateway(coord, log)
	coord.SetPusher(gateway)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, gateway, hubStats{coord: coord, gw: gateway}, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(log, "listen failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal(log, "server forced to shutdown", "err", err)
	}

	log.Info("server exited")
}
