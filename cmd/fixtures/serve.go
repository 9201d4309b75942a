package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/fixture-engine/config"
	"github.com/Dosada05/fixture-engine/db"
	"github.com/Dosada05/fixture-engine/handlers"
	"github.com/Dosada05/fixture-engine/metrics"
	"github.com/Dosada05/fixture-engine/repositories"
	api "github.com/Dosada05/fixture-engine/routes"
	"github.com/Dosada05/fixture-engine/services"
	"github.com/Dosada05/fixture-engine/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 15 * time.Second

func runServe(migrateOnStart bool) error {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("driver", cfg.DatabaseDriver))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if migrateOnStart {
		if err := db.Migrate(dbConn, db.Up); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	// Архив расписаний в Cloudflare R2 (необязательно)
	var archive storage.ArchiveStore
	if cfg.R2.Enabled() {
		archive, err = storage.NewR2ArchiveStore(context.Background(), cfg.R2)
		if err != nil {
			return fmt.Errorf("failed to initialize R2 archive: %w", err)
		}
		logger.Info("R2 schedule archive initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Info("R2 is not configured, schedule archiving disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Инициализация сервисов
	competitionService, knockoutService := services.NewServices(services.CompetitionDeps{
		Transactor:      repositories.NewTransactor(dbConn),
		CompetitionRepo: repositories.NewCompetitionRepository(dbConn),
		RoundRepo:       repositories.NewRoundRepository(dbConn),
		MatchRepo:       repositories.NewMatchRepository(dbConn),
		ResultRepo:      repositories.NewResultRepository(dbConn),
		OwnerRepo:       repositories.NewOwnerRepository(dbConn),
		Archive:         archive,
		Metrics:         metrics.NewCollector(registry),
		Logger:          logger,
	})
	logger.Info("services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		handlers.NewCompetitionHandler(competitionService, knockoutService),
		handlers.NewHealthHandler(dbConn),
		api.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:         logger,
			Metrics:        metrics.Handler(registry),
		},
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		logger.Info("server shutdown complete")
	}
	return nil
}
