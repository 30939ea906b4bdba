package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/riskatlas/platform/pkg/chart"
	"github.com/riskatlas/platform/pkg/common/config"
	"github.com/riskatlas/platform/pkg/common/database"
	"github.com/riskatlas/platform/pkg/common/logger"
)

func main() {
	logger.Init()
	cfg := config.Load()

	catalog, err := chart.LoadCatalog(cfg.AliasCatalogPath)
	if err != nil {
		logger.Log.WithError(err).WithField("path", cfg.AliasCatalogPath).
			Warn("falling back to built-in alias catalog")
		catalog = chart.DefaultCatalog()
	}

	client := chart.NewClient(cfg.IngestionBaseURL, cfg.DashboardHTTPTimeout)
	cache := chart.NewCache(database.GetRedis(), cfg.ChartCacheTTL)
	defer database.CloseRedis()

	handler := chart.NewHandler(client, cache, catalog)

	router := mux.NewRouter()
	handler.Register(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, "8090"),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":     cfg.ServerHost,
			"port":     "8090",
			"upstream": cfg.IngestionBaseURL,
		}).Info("Dashboard Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Dashboard Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Dashboard Service stopped")
}
