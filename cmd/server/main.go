// Command server runs the Sparky coach HTTP API.
//
// @title        Sparky Coach API
// @version      1.0
// @description  Fitness and nutrition chat coach: logs meals, exercise, body measurements and water from free text or photos.
// @BasePath     /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-sparky-backend/internal/blob"
	"github.com/tbourn/go-sparky-backend/internal/cache"
	"github.com/tbourn/go-sparky-backend/internal/config"
	httpapi "github.com/tbourn/go-sparky-backend/internal/http"
	"github.com/tbourn/go-sparky-backend/internal/http/handlers"
	"github.com/tbourn/go-sparky-backend/internal/llm"
	"github.com/tbourn/go-sparky-backend/internal/nutrition"
	"github.com/tbourn/go-sparky-backend/internal/observability"
	"github.com/tbourn/go-sparky-backend/internal/repo"
	"github.com/tbourn/go-sparky-backend/internal/secrets"
	"github.com/tbourn/go-sparky-backend/internal/services"
	"github.com/tbourn/go-sparky-backend/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Logger = sysutil.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName, observability.TraceHook{})
	gin.SetMode(cfg.GinMode)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	shutdownOTel, err := observability.SetupOTel(rootCtx, cfg.OTEL, appVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	dsn := cfg.DB.Path
	if cfg.DB.Driver == config.DriverPostgres {
		dsn = cfg.DB.URL
	}
	db, err := repo.Open(cfg.DB.Driver, dsn, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	var shared cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedis(rootCtx, cfg.Cache.RedisURL, "sparky:")
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rc.Close()
		shared = rc
	default:
		mc := cache.NewMemory(cfg.Cache.MaxEntries)
		go mc.Run(rootCtx, time.Minute)
		shared = mc
	}

	cipher, err := secrets.New(cfg.Security.EncryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("init api key cipher")
	}

	gateway := llm.NewGateway(llm.GormStore{DB: db}, cipher, cfg.Coach.LLMTimeout)
	coach := services.NewCoachService(db, gateway, cfg.Coach.HistoryTurns)
	if cfg.S3.Enabled() {
		store, err := blob.NewS3Store(rootCtx, cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		if err != nil {
			log.Fatal().Err(err).Msg("init image store")
		}
		coach.Images = store
	}

	deps := handlers.Deps{
		Coach:         coach,
		Replay:        &services.ReplayStore{DB: db, TTL: cfg.IdempotencyTTL},
		History:       coach.History,
		Settings:      &services.SettingsService{DB: db, Cipher: cipher},
		Preferences:   coach.Prefs,
		MaxImageBytes: cfg.Coach.MaxImageBytes,
	}
	if cfg.FatSecret.Enabled() {
		foods, err := nutrition.New(nutrition.Options{
			ClientID:     cfg.FatSecret.ClientID,
			ClientSecret: cfg.FatSecret.ClientSecret,
			BaseURL:      cfg.FatSecret.BaseURL,
			TokenURL:     cfg.FatSecret.TokenURL,
			Cache:        shared,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("init fatsecret client")
		}
		deps.Foods = foods
	} else {
		log.Info().Msg("fatsecret credentials not set; food search disabled")
	}

	go coach.History.RunSweeper(rootCtx, cfg.Coach.RetentionSweep)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, deps, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", appVersion).
			Str("db", cfg.DB.Driver).
			Str("cache", cfg.Cache.Backend).
			Bool("fatsecret", cfg.FatSecret.Enabled()).
			Bool("s3", cfg.S3.Enabled()).
			Msg("sparky listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := shutdownOTel(ctx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
