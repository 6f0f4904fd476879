package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fieldserve/marketplace-api/internal/config"
	dbpkg "github.com/fieldserve/marketplace-api/internal/db"
	"github.com/fieldserve/marketplace-api/internal/httperr"
	"github.com/fieldserve/marketplace-api/internal/middleware"
	"github.com/fieldserve/marketplace-api/internal/realtime"
	"github.com/fieldserve/marketplace-api/internal/routes"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	httperr.SetDebug(!cfg.IsProduction())

	db := dbpkg.NewDB(cfg)

	hub := realtime.NewHub()

	// Without redis the hub only reaches sockets on this instance.
	var pub realtime.Publisher = hub
	if cfg.RedisURL != "" {
		bridge, err := realtime.NewRedisBridge(cfg.RedisURL, hub)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		go bridge.Run(context.Background())
		pub = bridge
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, hub, pub)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
