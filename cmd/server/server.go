package main

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/devconnector/server/devconnector/users"
	"codeberg.org/devconnector/server/internal/auth"
	"codeberg.org/devconnector/server/internal/config"
	"codeberg.org/devconnector/server/internal/logger"
	"codeberg.org/devconnector/server/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	var (
		db    *pgxpool.Pool
		store users.Store
	)

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, accounts are kept in memory and lost on restart")
		store = users.NewMemoryStore()
	} else {
		pool, err := openDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}

		repo := users.NewRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to prepare users table: %w", err)
		}

		db, store = pool, repo
	}

	limiter, err := ratelimit.New(cfg.LoginRateLimit, cfg.RedisURL)
	if err != nil {
		if db != nil {
			db.Close()
		}

		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	logger.Info("rate limiter initialized", "rate", cfg.LoginRateLimit, "redis", cfg.RedisURL != "")

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// the login throttle keys on ClientIP, so forwarded headers count only from known proxies
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		limiter.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		if db != nil {
			db.Close()
		}

		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}

	server := &Server{
		db:       db,
		config:   cfg,
		store:    store,
		issuer:   auth.NewIssuer(store, cfg.JWTSecret),
		verifier: auth.NewVerifier(cfg.JWTSecret),
		limiter:  limiter,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}

func openDatabase(ctx context.Context, url string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// releases the limiter and database connections
func (s *Server) Close() {
	s.limiter.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown

	if s.db != nil {
		s.db.Close()
	}
}
