// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package orchestrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	"github.com/kostasense/software-back-sub000/connectors/config"
	"github.com/kostasense/software-back-sub000/connectors/registry"
	"github.com/kostasense/software-back-sub000/connectors/router"
	"github.com/kostasense/software-back-sub000/orchestrator/api"
	"github.com/kostasense/software-back-sub000/orchestrator/catalog"
	"github.com/kostasense/software-back-sub000/orchestrator/documents"
	"github.com/kostasense/software-back-sub000/orchestrator/expediente"
	"github.com/kostasense/software-back-sub000/orchestrator/requirements"
)

const dbConnectRetries = 5

// directory is what the router and the tenant listing both need
type directory interface {
	router.Directory
	api.Tenants
}

// components is the wired service graph
type components struct {
	db          *sql.DB
	redis       *redis.Client
	router      *router.Router
	expedientes *expediente.Service
	validator   *requirements.Service
	tenants     directory
}

// Run is the exported entry point for the orchestrator service.
//
// It loads configuration from CONFIG_FILE (optional) and the environment,
// connects the central database, wires the tenant router and the engines,
// and serves HTTP until SIGINT or SIGTERM. Tenant connections are closed
// after the HTTP server drains.
func Run() {
	log.Println("Starting expedientes orchestrator...")

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := initializeComponents(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize components: %v", err)
	}
	defer c.close()

	c.router.StartPeriodicHealthCheck(ctx, cfg.Router.HealthCheckInterval)

	server := api.NewServer(c.expedientes, c.validator, c.tenants, c.router, api.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
		AuthDisabled:   cfg.Auth.Disabled,
	})
	if cfg.Auth.Disabled {
		log.Println("⚠️  Authentication disabled: every request acts as admin")
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Expedientes orchestrator listening on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutdown requested: %v", context.Cause(ctx))
	case err := <-errCh:
		if err != nil {
			log.Printf("❌ HTTP server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  HTTP shutdown: %v", err)
	}
	if err := c.router.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Tenant connections shutdown: %v", err)
	}
	log.Println("Expedientes orchestrator stopped")
}

func initializeComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	db, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c := &components{db: db}

	secrets, err := config.NewSecretsManager(ctx, cfg.Secrets)
	if err != nil {
		c.close()
		return nil, fmt.Errorf("secrets manager: %w", err)
	}

	if c.tenants, err = newDirectory(ctx, cfg, db, secrets); err != nil {
		c.close()
		return nil, err
	}

	c.router = router.New(c.tenants, nil, router.Options{
		HealthCheckInterval: cfg.Router.HealthCheckInterval,
		ConnectTimeout:      cfg.Router.ConnectTimeout,
	})

	users := catalog.NewUserStore(db)
	activities := catalog.NewActivityStore(db, cfg.Catalog.CacheTTL)
	repo := expediente.NewPostgresRepository(db)
	schemas := []struct {
		name string
		init func(context.Context) error
	}{
		{"usuarios", users.InitSchema},
		{"actividades", activities.InitSchema},
		{"expedientes", repo.InitSchema},
	}
	for _, schema := range schemas {
		if err := schema.init(ctx); err != nil {
			c.close()
			return nil, fmt.Errorf("init %s schema: %w", schema.name, err)
		}
	}

	var locker expediente.Locker
	if cfg.Redis.URL != "" {
		if c.redis, err = expediente.NewRedisClient(ctx, cfg.Redis.URL); err != nil {
			c.close()
			return nil, err
		}
		locker = expediente.NewRedisLocker(c.redis, cfg.Redis.LockTTL)
		log.Println("✅ Distributed regeneration lock enabled (Redis)")
	} else {
		locker = expediente.NewLocalLocker()
		log.Println("ℹ️  REDIS_URL not set, using in-process regeneration lock")
	}

	engine := documents.NewEngine(c.router)
	log.Printf("✅ Document engine ready with %d codes", len(engine.Codes()))

	c.expedientes = expediente.NewService(users, activities, engine, c.router, repo, expediente.Options{Locker: locker})
	c.validator = requirements.NewService(users, activities, c.router, requirements.Options{})
	return c, nil
}

func newDirectory(ctx context.Context, cfg *config.Config, db *sql.DB, secrets config.SecretsManager) (directory, error) {
	if cfg.Directory.Source == config.DirectorySourceFile {
		log.Printf("✅ Tenant directory loaded from configuration (%d tenants)", len(cfg.Tenants))
		return registry.NewFileDirectory(cfg.Tenants, secrets), nil
	}

	dir, err := registry.NewPostgresDirectory(db, cfg.Directory.Table, secrets)
	if err != nil {
		return nil, err
	}
	if err := dir.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("init directory schema: %w", err)
	}
	log.Printf("✅ Tenant directory backed by table %s", cfg.Directory.Table)
	return dir, nil
}

// connectDatabase opens the central database, retrying while DNS or the
// server come up.
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	for attempt := 1; attempt <= dbConnectRetries; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			log.Printf("✅ Connected to database (attempt %d/%d)", attempt, dbConnectRetries)
			return db, nil
		}
		if attempt == dbConnectRetries {
			break
		}

		backoff := time.Duration(attempt*2) * time.Second
		log.Printf("⚠️  Database connection failed (attempt %d/%d): %v", attempt, dbConnectRetries, err)
		log.Printf("   Retrying in %v...", backoff)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("connect database after %d attempts: %w", dbConnectRetries, err)
}

func (c *components) close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Printf("⚠️  Redis close: %v", err)
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			log.Printf("⚠️  Database close: %v", err)
		}
	}
}
