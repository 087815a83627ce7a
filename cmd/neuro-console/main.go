package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/NeuroCampus/neuro-console/internal/console"
	"github.com/NeuroCampus/neuro-console/internal/rest"
	"github.com/NeuroCampus/neuro-console/pkg/auth"
	"github.com/NeuroCampus/neuro-console/pkg/cache"
	"github.com/NeuroCampus/neuro-console/pkg/config"
	"github.com/NeuroCampus/neuro-console/pkg/logger"
	"github.com/NeuroCampus/neuro-console/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	var store cache.Store
	if cfg.Cache.Enabled {
		if rdb, err := cache.NewRedis(cfg.Redis); err != nil {
			logr.Warn("bootstrap cache unavailable", zap.Error(err))
		} else {
			defer rdb.Close()
			store = cache.NewRedisStore(rdb, logr)
			logr.Info("bootstrap cache connected")
		}
	}

	tokens := auth.NewRefreshingSource(cfg.Auth.AccessToken, cfg.Auth.RefreshMargin, nil, logr)

	client := rest.New(rest.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.RequestTimeout,
		Tokens:    tokens,
		Logger:    logr,
		Metrics:   metrics.NewSet(),
		UserAgent: cfg.API.UserAgent,
	})

	screen := console.NewFacultyAssignmentScreen(console.FacultyAssignmentScreenOptions{
		API:      client,
		Cache:    store,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logr,
	})
	defer screen.Close()

	if err := screen.Load(context.Background(), rest.BootstrapQuery{}); err != nil {
		logr.Sugar().Fatalw("bootstrap failed", "error", err)
	}

	logr.Sugar().Infow("bootstrap ok",
		"semesters", len(screen.Semesters()),
		"faculty", len(screen.Faculty()),
		"assignments", len(screen.Assignments()),
	)
}
