package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DipakKumarChauhan/foodie-eyes/config"
	"github.com/DipakKumarChauhan/foodie-eyes/database"
	"github.com/DipakKumarChauhan/foodie-eyes/logger"
	"github.com/DipakKumarChauhan/foodie-eyes/routes"
)

func main() {
	logger.Init()
	defer logger.Close()

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	cfg, err := config.Read(config.GetEnv("CONFIG_PATH", "config/development.yaml"))
	if err != nil {
		logger.Fatal("Failed to read config", zap.Error(err))
	}

	database.InitDB(cfg)
	defer database.Close()

	r := routes.SetupRouter(cfg)

	port := config.GetEnv("PORT", cfg.Server.Port)
	logger.Info("Server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal("Server failed to start", zap.Error(err))
	}
}
