package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/gencrud-dev/gencrud/internal/config"
	"github.com/gencrud-dev/gencrud/internal/logger"
	"github.com/gencrud-dev/gencrud/internal/server"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides ADDR)")
	entities := flag.String("entities", "", "entity registry YAML (overrides ENTITIES_CONFIG)")
	openapi := flag.String("openapi", "", "write OpenAPI JSON and exit")
	flag.Parse()

	logger.Set(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	zl, err := zap.NewProduction()
	if err != nil {
		logger.L.Error("zap logger", "err", err)
		os.Exit(1)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.L.Error("load config", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *entities != "" {
		cfg.EntitiesFile = *entities
	}
	if cfg.EntitiesFile == "" {
		logger.L.Error("entity registry file not set: pass -entities or ENTITIES_CONFIG")
		os.Exit(1)
	}

	reg, err := config.LoadEntities(cfg.EntitiesFile)
	if err != nil {
		logger.L.Error("load entities", "err", err)
		os.Exit(1)
	}

	api, cache := server.New(cfg, reg)

	if cfg.WarmupCron != "" {
		s := gocron.NewScheduler(time.UTC)
		if _, err := s.Cron(cfg.WarmupCron).Do(func() {
			cache.Warm(context.Background(), reg.ClassNames()...)
		}); err != nil {
			logger.L.Error("schedule metadata warmup", "err", err)
		}
		s.StartAsync()
	}

	if *openapi != "" {
		data, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
		if err != nil {
			logger.L.Error("marshal openapi", "err", err)
			os.Exit(1)
		}
		p := filepath.Clean(*openapi)
		if err := os.WriteFile(p, data, 0o600); err != nil {
			logger.L.Error("write openapi", "err", err)
			os.Exit(1)
		}
		return
	}

	logger.L.Info("listening", "addr", cfg.Addr)
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.Adapter(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.L.Error("server error", "err", err)
		os.Exit(1)
	}
}
