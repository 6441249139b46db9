package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/config"
	"github.com/fly24/backoffice/internal/database"
	"github.com/fly24/backoffice/internal/docgen"
	"github.com/fly24/backoffice/internal/handler"
	"github.com/fly24/backoffice/internal/middleware"
	"github.com/fly24/backoffice/internal/permission"
	"github.com/fly24/backoffice/internal/queue"
	"github.com/fly24/backoffice/internal/repository"
	"github.com/fly24/backoffice/internal/router"
	"github.com/fly24/backoffice/internal/session"
	"github.com/fly24/backoffice/internal/store"
	"github.com/fly24/backoffice/pkg/logger"
	"github.com/fly24/backoffice/pkg/metrics"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	log := logger.New()
	m := metrics.New("backoffice")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("database connect failed", "error", err)
	}
	defer db.Close()

	// Optional: rate limiting, response cache and the role-definition
	// cache all degrade to pass-through without redis.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, caching and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	roles := repository.NewRoleRepo(db)
	flights := repository.NewFlightRepo(db)
	passengers := repository.NewPassengerRepo(db)
	airlines := repository.NewAirlineRepo(db)
	agencies := repository.NewAgencyRepo(db)
	settings := repository.NewSettingsRepo(db)
	managed := repository.NewManagedUserRepo(db)
	activities := repository.NewActivityRepo(db)

	defsCache := permission.NewDefinitionCache(roles, rdb, time.Minute)
	publisher := queue.NewPublisher(log)
	go queue.StartActivityConsumer(activities, log)

	cacheVer := middleware.NewCacheVersion(rdb)
	registry := store.NewRegistry(store.Deps{
		Flights:      flights,
		Passengers:   passengers,
		Airlines:     airlines,
		Agencies:     agencies,
		Settings:     settings,
		ManagedUsers: managed,
		Roles:        defsCache,
		Resolver:     session.NewResolver(roles),
		Publisher:    publisher,
		Cache:        cacheVer,
		Log:          log,
		Metrics:      m,
	})

	fetcher := docgen.NewFetcher(&http.Client{Timeout: cfg.DocgenTimeout}, nil)
	generator := docgen.NewGenerator(fetcher, cfg.DocgenDelay, log, m)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb, cacheVer)

	authH := handler.NewAuthHandler(cfg, users, tokens, roles, registry)
	flightH := handler.NewFlightHandler(registry)
	passengerH := handler.NewPassengerHandler(registry)
	searchH := handler.NewSearchHandler(registry)
	activityH := handler.NewActivityHandler(activities, registry)
	generateH := handler.NewGenerateHandler(registry, generator)
	settingsH := handler.NewSettingsHandler(cfg, users, roles, registry)
	roleH := handler.NewRoleHandler(roles, defsCache)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBackOffice(e, flightH, passengerH, searchH, activityH, generateH, cfg.JWTSecret, cache)
	router.RegisterSettings(e, settingsH, cfg.JWTSecret)
	router.RegisterAdmin(e, roleH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
