package server

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gencrud-dev/gencrud/internal/api/handler"
	"github.com/gencrud-dev/gencrud/internal/config"
	"github.com/gencrud-dev/gencrud/internal/crud"
	"github.com/gencrud-dev/gencrud/internal/entity"
	"github.com/gencrud-dev/gencrud/internal/fieldcache"
	"github.com/gencrud-dev/gencrud/internal/fieldmeta"
	"github.com/gencrud-dev/gencrud/internal/logger"
	"github.com/gencrud-dev/gencrud/internal/permission"
	"github.com/gencrud-dev/gencrud/internal/relation"
	"github.com/gencrud-dev/gencrud/internal/server/middleware"
)

// New assembles the console API: upstream client, metadata cache, descriptor
// orchestrator and HTTP surface. The returned cache is exposed so main can
// schedule warmups.
func New(cfg config.Config, reg *config.Registry) (huma.API, *fieldcache.Cache) {
	r := chi.NewRouter()

	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	var clientOpts []entity.Option
	if cfg.UpstreamRefreshURL != "" || cfg.UpstreamToken != "" {
		clientOpts = append(clientOpts, entity.WithTokenSource(
			entity.NewTokenSource(cfg.UpstreamToken, cfg.UpstreamRefreshToken, cfg.UpstreamRefreshURL)))
	}
	upstream := entity.New(cfg.UpstreamURL, clientOpts...)

	var cacheOpts []fieldcache.Option
	if cfg.RedisURL != "" {
		remote, err := fieldcache.NewRedisStore(cfg.RedisURL, "", cfg.CacheTTL)
		if err != nil {
			logger.L.Error("redis cache", "err", err)
			os.Exit(1)
		}
		cacheOpts = append(cacheOpts, fieldcache.WithRemote(remote))
	}
	cache := fieldcache.New(upstream.Fields, cfg.CacheTTL, zap.L(), cacheOpts...)

	titles, err := fieldmeta.NewTitleStore(cfg.TitlesFile, cfg.HumanizeTitles, logger.L)
	if err != nil {
		logger.L.Error("title store", "err", err)
		os.Exit(1)
	}
	if cfg.TitlesFile != "" {
		if err := titles.Start(context.Background()); err != nil {
			logger.L.Error("watch titles", "err", err)
		}
	}

	// without a policy file, permission codes stay placeholder-allow
	checker := permission.NewChecker(nil)
	if cfg.CasbinPolicy != "" {
		enf, err := permission.DefaultEnforcer(cfg.CasbinPolicy)
		if err != nil {
			logger.L.Error("casbin policy", "path", cfg.CasbinPolicy, "err", err)
			os.Exit(1)
		}
		checker = permission.NewChecker(enf)
	}

	initEvents(cfg.EventsFile)

	orch := crud.New(upstream, cache, checker, titles.Resolve, logger.L)
	resolver := relation.NewResolver(upstream, logger.L)

	api := humachi.New(r, huma.DefaultConfig("GenCrud Console API", "1.0.0"))

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		api.UseMiddleware(middleware.JWT(api, secret))
	} else {
		logger.L.Warn("JWT_SECRET not set; console API runs unauthenticated")
	}
	api.UseMiddleware(middleware.MetricsMW)

	handler.RegisterDescriptors(api, &handler.DescriptorHandler{Registry: reg, Orch: orch, Relation: resolver})
	handler.RegisterEntities(api, &handler.EntityHandler{Registry: reg, Orch: orch})

	return api, cache
}
