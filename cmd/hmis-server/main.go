package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hmis/hmis/internal/config"
	"github.com/hmis/hmis/internal/domain/appointment"
	"github.com/hmis/hmis/internal/domain/encounter"
	"github.com/hmis/hmis/internal/domain/lab"
	"github.com/hmis/hmis/internal/domain/observations"
	"github.com/hmis/hmis/internal/domain/patient"
	"github.com/hmis/hmis/internal/domain/prescription"
	"github.com/hmis/hmis/internal/domain/reporting"
	"github.com/hmis/hmis/internal/platform/db"
	"github.com/hmis/hmis/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hmis-server",
		Short: "Hospital Management Information System API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initdbCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HMIS API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func initdbCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the schema and seed the lab test catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Init(ctx, pool); err != nil {
				return err
			}
			logger.Info().Msg("schema initialized")
			return nil
		},
	}
}

func newLogger() zerolog.Logger {
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Schema creation is idempotent, so serve always runs it.
	if err := db.Init(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize schema")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")
	txRunner := db.NewTxRunner(pool)

	// -- Register domain handlers --

	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)

	obsSvc := observations.NewService(observations.NewRepoPG(pool))
	observations.NewHandler(obsSvc).RegisterRoutes(apiV1)

	rxSvc := prescription.NewService(prescription.NewRepoPG(pool), txRunner)
	prescription.NewHandler(rxSvc).RegisterRoutes(apiV1)

	apptSvc := appointment.NewService(appointment.NewRepoPG(pool))
	appointment.NewHandler(apptSvc).RegisterRoutes(apiV1)

	labSvc := lab.NewService(lab.NewRepoPG(pool), txRunner)
	lab.NewHandler(labSvc).RegisterRoutes(apiV1)

	encSvc := encounter.NewService(encounter.NewRepoPG(pool))
	encounter.NewHandler(encSvc).RegisterRoutes(apiV1)

	reportSvc := reporting.NewService(reporting.NewRepoPG(pool))
	reporting.NewHandler(reportSvc, reporting.NewEvaluator(pool)).RegisterRoutes(apiV1)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
