package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"

	"clinic-api/internal/config"
	"clinic-api/internal/grpchealth"
	"clinic-api/internal/handler"
	"clinic-api/internal/logging"
	"clinic-api/internal/middleware"
	"clinic-api/internal/service"
	"clinic-api/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:           "clinic-api",
		Short:         "Doctor/patient appointment API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), healthcheckCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP and gRPC health servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg, logging.New(cfg.LogLevel, cfg.IsDev()))
		},
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to postgres")

	results, err := store.Migrate(ctx, pool)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logMigrations(logger, results)

	st := store.New(pool)
	svc := service.New(st, cfg.JWTSecret, cfg.TokenTTL)
	h := handler.New(svc, st, logger)

	rl := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	go rl.Janitor(ctx, time.Minute, 10*time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))

	h.Register(e, cfg.JWTSecret, rl)

	// grpc health
	hs := grpchealth.New(st, logger)
	go hs.Watch(ctx, 15*time.Second)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	go func() {
		logger.Info().Str("port", cfg.GRPCPort).Msg("grpc health listening")
		if err := hs.Serve(lis); err != nil {
			logger.Error().Err(err).Msg("grpc health stopped")
		}
	}()

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		hs.Stop()
		return fmt.Errorf("http server: %w", err)
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hs.Stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := migrateSetup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := store.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			results, err := store.Migrate(ctx, pool)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logMigrations(logger, results)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := migrateSetup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := store.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			p, closeDB, err := store.Migrator(pool)
			if err != nil {
				return err
			}
			defer closeDB()

			statuses, err := p.Status(ctx)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-30s %-10s %s\n", "VERSION", "FILE", "STATE", "APPLIED AT")
			for _, s := range statuses {
				applied := ""
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.Format(time.DateTime)
				}
				fmt.Fprintf(out, "%-10d %-30s %-10s %s\n", s.Source.Version, s.Source.Path, s.State, applied)
			}
			return nil
		},
	})
	return cmd
}

func migrateSetup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if cfg.DatabaseURL == "" {
		return nil, zerolog.Nop(), errors.New("DATABASE_URL is required")
	}
	return cfg, logging.New(cfg.LogLevel, cfg.IsDev()), nil
}

func logMigrations(logger zerolog.Logger, results []*goose.MigrationResult) {
	if len(results) == 0 {
		logger.Info().Msg("schema up to date")
		return
	}
	for _, r := range results {
		logger.Info().
			Int64("version", r.Source.Version).
			Str("file", r.Source.Path).
			Dur("took", r.Duration).
			Msg("migration applied")
	}
}

func healthcheckCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Query the gRPC health service and exit non-zero unless SERVING",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				addr = "127.0.0.1:" + cfg.GRPCPort
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
			defer cancel()
			resp, err := grpchealth.Check(ctx, addr)
			if err != nil {
				return err
			}

			b, err := protojson.Marshal(resp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("service is %s", resp.GetStatus())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "health server address (default 127.0.0.1:$GRPC_PORT)")
	return cmd
}
