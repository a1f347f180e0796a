package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/youruser/idcards/internal/api"
	"github.com/youruser/idcards/internal/batch"
	"github.com/youruser/idcards/internal/config"
)

func getConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	return "config.yaml"
}

func main() {
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	r := newRouter(cfg, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("starting server", "addr", "http://localhost"+addr, "template", cfg.TemplatePath, "font", cfg.FontPath)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	svc := batch.NewService(cfg, logger)
	r := gin.Default()
	api.RegisterRoutes(r, api.NewHandler(svc, logger))
	return r
}
