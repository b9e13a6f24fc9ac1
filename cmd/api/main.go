package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"zoostat/internal"
	"zoostat/internal/api"
	"zoostat/internal/config"
	"zoostat/internal/container"
)

func main() {
	cfgFile := flag.String("config", "", "optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := container.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to create container: %v", err)
		os.Exit(1)
	}
	if err := c.Init(ctx); err != nil {
		logger.Error("Failed to initialize: %v", err)
		os.Exit(1)
	}
	defer c.Shutdown(context.Background())

	gin.SetMode(cfg.Server.GinMode)
	server := api.NewServer(api.Config{
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		MaxRows:        cfg.Analysis.MaxRows,
		MetricsPath:    cfg.Metrics.Path,
	}, api.Dependencies{
		Service:  c.Service,
		Loader:   c.Loader,
		Recorder: c.Recorder,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("Starting zoostat API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	var admin *http.Server
	if cfg.Server.AdminPort != "" {
		admin = &http.Server{Addr: ":" + cfg.Server.AdminPort, Handler: api.NewAdminRouter(c.Recorder)}
		go func() {
			logger.Info("Starting admin endpoints on %s", admin.Addr)
			if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
	}

	select {
	case err := <-errCh:
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	if admin != nil {
		_ = admin.Shutdown(shutdownCtx)
	}
}
