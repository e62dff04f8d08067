package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/adapter/postgres"
	redis_adapter "github.com/user/price-tracker/internal/adapter/redis"
	"github.com/user/price-tracker/internal/delivery/http/handler"
	"github.com/user/price-tracker/internal/delivery/http/router"
	"github.com/user/price-tracker/internal/usecase"
)

func init() {
	serveCmd.Flags().String("port", "", "HTTP listen port")
	_ = v.BindPFlag("SERVER_PORT", serveCmd.Flags().Lookup("port"))
	serveCmd.Flags().Bool("migrate", true, "apply the database schema on startup")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Runs the HTTP API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		ctx := cmd.Context()

		// PostgreSQL
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("unable to connect to database: %w", err)
		}
		defer dbpool.Close()
		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := postgres.Migrate(ctx, dbpool); err != nil {
				return err
			}
		}
		log.Info("PostgreSQL connection pool established")

		// Redis
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("unable to connect to redis: %w", err)
		}
		log.Info("Redis connection established")

		// Repositories
		userRepo := postgres.NewUserRepo(dbpool)
		orderRepo := postgres.NewOrderRepo(dbpool)
		sessionRepo := redis_adapter.NewSessionRepo(rdb)
		fetcher, fetcherName, closeFetcher := newFetcher(cfg, log)
		defer closeFetcher()

		// Use cases
		tracker := usecase.NewTrackerUseCase(fetcher, fetcherName, log)
		auth := usecase.NewAuthenticator(userRepo, sessionRepo, usecase.AuthPolicy{
			AllowedDomains: cfg.EmailDomains(),
			AdminEmail:     cfg.AdminEmail,
			SessionTTL:     cfg.SessionTTL(),
		}, log)
		orders := usecase.NewOrderManager(orderRepo, log)

		// HTTP server
		apiHandler := handler.NewHandler(tracker, auth, orders, map[string]handler.Pinger{
			"postgres": userRepo,
			"redis":    sessionRepo,
		}, log)
		httpRouter := router.New(apiHandler, auth, router.Options{
			AllowedOrigins: cfg.CORSOrigins(),
			RequestTimeout: cfg.FetchTimeout() + 10*time.Second,
		}, log)

		server := &http.Server{
			Addr:         ":" + cfg.ServerPort,
			Handler:      httpRouter,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.FetchTimeout() + 15*time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("server started", zap.String("port", cfg.ServerPort), zap.String("fetcher", fetcherName))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("could not listen on port %s: %w", cfg.ServerPort, err)
		case <-ctx.Done():
		}

		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Info("server exiting")
		return nil
	},
}
