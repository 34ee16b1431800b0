package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"

	"github.com/lborres/khuluma"
	fiberadapter "github.com/lborres/khuluma/adapters/fiber"
	pgxadapter "github.com/lborres/khuluma/adapters/pgx"
	"github.com/lborres/khuluma/internal/config"
	"github.com/lborres/khuluma/internal/logger"
	"github.com/lborres/khuluma/pkg/crypto"
)

const shutdownTimeout = 10 * time.Second

func accessLogFormat() string {
	format := []string{
		// Timestamp & response metadata
		"${time}|${status}|${latency}",

		// Client info
		"${ip}",

		// Request details
		"${method}|${path}|${queryParams}",

		// errors
		"${error}",
	}
	return strings.Join(format, "|") + "\n"
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger level comes from config, so fall back to a default one here
		zap.NewExample().Fatal("could not load config", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pgxadapter.Connect(ctx, pgxadapter.ConnConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		ConnectTimeout: cfg.DBConnectTimeout,
		QueryTimeout:   cfg.DBQueryTimeout,
		ProbeTimeout:   cfg.DBProbeTimeout,
		Logger:         log.Named("pgx"),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	ids, err := crypto.NewNanoID("", 0)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		AppName:      "khuluma",
		ErrorHandler: fiberadapter.ErrorHandler(log.Named("http")),
	})

	app.Use(recoverer.New())
	app.Use(requestid.New(requestid.Config{Generator: ids.MustGenerate}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins(),
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With"},
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     accessLogFormat(),
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
	}))

	_, err = khuluma.New(khuluma.Config{
		Database: pgxadapter.New(db),
		HTTP:     fiberadapter.New(app),
		SessionConfig: &khuluma.SessionConfig{
			CacheTTL:      cfg.SessionCacheTTL,
			TouchThrottle: cfg.SessionTouchThrottle,
			MaxAge:        cfg.SessionMaxAge,
			EvictOnLogout: cfg.SessionEvictOnLogout,
		},
		ListingConfig: &khuluma.ListingConfig{
			DefaultLimit: cfg.ListingDefaultLimit,
			MaxLimit:     cfg.ListingMaxLimit,
		},
		Logger: log,
	})
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr()))
		listenErr <- app.Listen(cfg.Addr(), fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
