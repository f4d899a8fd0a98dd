package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/premuk420/Myslivec/internal/app"
	"github.com/premuk420/Myslivec/internal/config"
	"github.com/premuk420/Myslivec/internal/db"
	"github.com/premuk420/Myslivec/internal/pkg/events"
	"github.com/premuk420/Myslivec/internal/pkg/lock"
	"github.com/premuk420/Myslivec/internal/pkg/logger"
	"github.com/premuk420/Myslivec/internal/store"
)

// rootCmd runs the API server when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "myslivec",
	Short: "Hunting ground management API",
	Long: `Myslivec serves the API for hunting grounds: boundaries, members,
map points and reservations of hunting positions.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.StoreDriver != store.DriverPostgres {
			return fmt.Errorf("migrate needs STORE_DRIVER=%s", store.DriverPostgres)
		}
		pool, err := db.NewPool(cmd.Context(), poolConfig(cfg))
		if err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}
		defer pool.Close()
		return db.Migrate(cmd.Context(), pool)
	},
}

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(migrateCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Connect DB
	var pool *pgxpool.Pool
	if cfg.StoreDriver == store.DriverPostgres {
		pool, err = db.NewPool(ctx, poolConfig(cfg))
		if err != nil {
			return fmt.Errorf("failed to connect to db: %w", err)
		}
		defer pool.Close()
	} else {
		log.Warn("using in-memory store, data is lost on restart")
	}

	// Reservation locks span instances only when Redis is configured
	var locker lock.Locker
	if cfg.RedisAddr != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client, "myslivec:lock:", cfg.LockTTL)
	}

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		defer p.Close()
		publisher = p
	}

	container, err := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		StoreDriver:  cfg.StoreDriver,
		DBPool:       pool,
		JWTSecret:    cfg.JWTSecret,
		JWTTTL:       cfg.JWTAccessTokenTTL,
		PasswordCost: cfg.BcryptCost,
		Timezone:     cfg.GroundTimezone,
		Logger:       log,
		Locker:       locker,
		Publisher:    publisher,
	})
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for Ctrl+C or a listener failure
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
	return nil
}

func poolConfig(cfg *config.Config) db.PoolConfig {
	return db.PoolConfig{DSN: cfg.DBDSN, MaxConns: int32(cfg.DBMaxConns)}
}
