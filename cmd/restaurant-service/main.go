package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/karan123216/Restaurant-Management-System/internal/auth"
	"github.com/karan123216/Restaurant-Management-System/internal/booking"
	"github.com/karan123216/Restaurant-Management-System/internal/cart"
	"github.com/karan123216/Restaurant-Management-System/internal/catalog"
	"github.com/karan123216/Restaurant-Management-System/internal/config"
	"github.com/karan123216/Restaurant-Management-System/internal/db"
	"github.com/karan123216/Restaurant-Management-System/internal/feedback"
	httpHandler "github.com/karan123216/Restaurant-Management-System/internal/handler/http"
	"github.com/karan123216/Restaurant-Management-System/internal/mail"
	"github.com/karan123216/Restaurant-Management-System/internal/order"
	"github.com/karan123216/Restaurant-Management-System/internal/site"
	"github.com/karan123216/Restaurant-Management-System/internal/telemetry"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	setupLogger(cfg.App)
	log.Info().Str("env", cfg.App.Env).Msg("Restaurant service starting...")

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.App.Name, cfg.Tracing.Endpoint, cfg.App.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	pg, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if cfg.Postgres.MigrateOnStart {
		if err := db.ApplyMigrations(pg.Pool); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	sqlxDB := pg.SQLX()

	var sender mail.Sender = mail.LogSender{}
	if cfg.Mail.ServerToken != "" {
		sender = mail.NewBreakerSender(mail.NewPostmarkSender(cfg.Mail.ServerToken, cfg.Mail.From))
	}

	var catalogSvc catalog.Service = catalog.NewService(catalog.NewRepository(sqlxDB))
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis is not reachable, menu cache will fall through")
		}
		catalogSvc = catalog.NewCachedService(catalogSvc, rdb, cfg.Redis.MenuTTL)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authSvc := auth.NewService(auth.NewRepository(pg.Pool), tokens)
	if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin user")
	}

	cartSvc := cart.NewService(cart.NewRepository(pg.Pool), catalogSvc)
	orderSvc := order.NewService(order.NewRepository(pg.Pool), sender)
	feedbackSvc := feedback.NewService(feedback.NewRepository(pg.Pool))
	bookingSvc := booking.NewService(booking.NewRepository(pg.Pool), sender, time.Now)
	siteSvc := site.NewService(catalogSvc, feedbackSvc, site.NewAboutRepository(pg.Pool))

	router := httpHandler.NewRouter(authSvc,
		httpHandler.NewAuthHandler(authSvc),
		httpHandler.NewSiteHandler(siteSvc),
		httpHandler.NewCatalogHandler(catalogSvc),
		httpHandler.NewCartHandler(cartSvc),
		httpHandler.NewOrderHandler(orderSvc),
		httpHandler.NewFeedbackHandler(feedbackSvc),
		httpHandler.NewBookingHandler(bookingSvc),
	)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}
	if err := sqlxDB.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close sqlx handle")
	}
	pg.Close()

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Restaurant service stopped gracefully")
}

func setupLogger(app config.AppConfig) {
	level, err := zerolog.ParseLevel(app.LogLevel)
	if err != nil || app.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if app.Env == "local" || app.Env == "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", app.Name).Logger()
}
