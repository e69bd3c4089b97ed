package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"saturn/internal/backtest"
	"saturn/internal/config"
	"saturn/internal/httpapi"
	"saturn/internal/marketdata"
	"saturn/internal/store"
	"saturn/internal/util"
)

func main() {
	cfg := loadConfig()

	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	sqlite, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatalf("opening sqlite store: %v", err)
	}
	defer sqlite.Close()

	provider := marketdata.NewFromConfig(cfg, sqlite)
	runner := backtest.NewRunner(provider, cfg.Backtest.RiskFreeRate, cfg.Backtest.PeriodsPerYear, logger)
	srv := httpapi.NewServer(runner, provider, sqlite, cfg.Backtest, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("saturn server listening", "addr", httpServer.Addr, "provider", cfg.Data.Provider)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down saturn server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// loadConfig reads SATURN_CONFIG or config/saturn.yaml, falling back to
// built-in defaults when neither exists.
func loadConfig() *config.Config {
	cfgPath := "config/saturn.yaml"
	if p := os.Getenv("SATURN_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		if os.IsNotExist(err) && os.Getenv("SATURN_CONFIG") == "" {
			return config.Default()
		}
		log.Fatalf("loading config %s: %v", cfgPath, err)
	}
	return cfg
}
