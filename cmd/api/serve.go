package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"translateapi/internal/auth"
	"translateapi/internal/config"
	"translateapi/internal/database"
	"translateapi/internal/database/migration"
	"translateapi/internal/extractor"
	"translateapi/internal/http/handler"
	"translateapi/internal/http/middleware"
	"translateapi/internal/llm"
	"translateapi/internal/lock"
	"translateapi/internal/logger"
	"translateapi/internal/mailer"
	"translateapi/internal/otel"
	"translateapi/internal/payment"
	"translateapi/internal/regenerator"
	"translateapi/internal/repository/postgres"
	"translateapi/internal/service"
	"translateapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	log := logger.New(os.Stdout, cfg.Location())

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	store, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	healthChecks := []handler.Check{handler.DatabaseCheck(db)}

	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Addr != "" {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer rdb.Close()
		locker = lock.NewRedis(rdb, cfg.Redis.LockTTL)
		healthChecks = append(healthChecks, redisCheck(rdb))
	} else {
		log.Warn().Msg("REDIS_ADDR not set, using in-process job locks")
	}

	var mail mailer.Mailer = mailer.Disabled{}
	if cfg.RabbitMQ.URL != "" {
		mq, err := mailer.NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		defer closeQuietly(log, "rabbitmq", mq)
		mail = mq
	} else {
		log.Warn().Msg("RABBITMQ_URL not set, outbound mail disabled")
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	users := postgres.NewUserPostgres(db)
	subs := postgres.NewSubscriptionPostgres(db)

	deps := handler.Deps{
		Translation: service.NewTranslationService(
			postgres.NewTranslationPostgres(db),
			users,
			store,
			extractor.New(),
			llm.New(cfg.LLM),
			regenerator.New(),
			locker,
			service.TranslationOptions{
				UploadsPrefix:       cfg.Storage.UploadsPrefix,
				OutputsPrefix:       cfg.Storage.OutputsPrefix,
				ChargePDFCharacters: cfg.Quota.ChargePDFCharacters,
				TranslateTimeout:    cfg.LLM.Timeout,
			},
			log,
		),
		Auth: service.NewAuthService(
			users,
			subs,
			postgres.NewResetCodePostgres(db),
			tokens,
			mail,
			service.AuthOptions{
				DefaultQuota: service.Quota{
					CharacterLimit: cfg.Quota.DefaultCharacterLimit,
					PageLimit:      cfg.Quota.DefaultPageLimit,
					FileSizeLimit:  cfg.Quota.DefaultFileSizeLimit,
				},
				ResetCodeTTL:     cfg.Auth.ResetCodeTTL,
				MaxResetAttempts: cfg.Auth.MaxResetAttempts,
			},
			log,
		),
		Checkout:     service.NewCheckoutService(users, subs, payment.NewStripe(cfg.Stripe), log),
		HealthChecks: healthChecks,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	deps.Gatherer = reg

	app := fiber.New(fiber.Config{
		ErrorHandler: handler.ErrorHandler(),
		BodyLimit:    bodyLimit(cfg),
	})

	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(prom.Handler())

	handler.RegisterRoutes(app, deps)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ":"+cfg.Port).Str("version", Version).Msg("server_start")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("server_shutdown")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func redisCheck(rdb *redis.Client) handler.Check {
	return handler.Check{
		Name: "redis",
		Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}

// bodyLimit leaves room for multipart framing around the largest allowed file.
func bodyLimit(cfg *config.AppConfig) int {
	const overhead = 1 << 20
	limit := cfg.Quota.DefaultFileSizeLimit + overhead
	if limit < fiber.DefaultBodyLimit {
		return fiber.DefaultBodyLimit
	}
	return int(limit)
}

func closeQuietly(log zerolog.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Str("resource", name).Msg("close failed")
	}
}
