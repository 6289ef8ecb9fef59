package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/petshopcentral/petshop-api/internal/config"
	dbpkg "github.com/petshopcentral/petshop-api/internal/db"
	"github.com/petshopcentral/petshop-api/internal/logger"
	"github.com/petshopcentral/petshop-api/internal/routes"
)

func main() {

	cfg := config.Load()

	zl, err := logger.Init(cfg.LogPath, cfg.LogDebug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zl.Sync()

	db := dbpkg.NewDB(cfg)

	r := gin.Default()

	routes.RegisterRoutes(r, db, cfg)

	zl.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
