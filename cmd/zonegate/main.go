package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/zonegate/internal/config"
	"github.com/dropDatabas3/zonegate/internal/http/server"
	"github.com/dropDatabas3/zonegate/internal/observability/logger"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, continuing with system environment: %v", err)
	}

	configPath := flag.String("config", "", "path to YAML config (optional, env vars override)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	} else {
		cfg = config.FromEnv()
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "zonegate",
	})
	defer func() { _ = logger.Sync() }()

	lg := logger.L()

	ctx := context.Background()
	handler, cleanup, err := server.BuildHandler(ctx, cfg)
	if err != nil {
		lg.Fatal("wiring failed", logger.Err(err))
	}
	defer func() {
		if err := cleanup(); err != nil {
			lg.Warn("cleanup error", logger.Err(err))
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server listening", logger.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server failed", logger.Err(err))
		}
	case sig := <-stop:
		lg.Info("shutting down", logger.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lg.Warn("graceful shutdown failed", logger.Err(err))
		}
	}
}
