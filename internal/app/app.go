// Package app wires configuration, storage and HTTP routing into a runnable
// server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/isdelr/salonx-be/internal/api"
	"github.com/isdelr/salonx-be/internal/auth"
	"github.com/isdelr/salonx-be/internal/config"
	"github.com/isdelr/salonx-be/internal/database"
	"github.com/isdelr/salonx-be/internal/gate"
	"github.com/isdelr/salonx-be/internal/monitoring"
	"github.com/isdelr/salonx-be/internal/redis"
	"github.com/isdelr/salonx-be/internal/services"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// App owns the HTTP server and every resource it depends on.
type App struct {
	cfg       *config.Config
	db        *sql.DB
	redis     *goredis.Client
	scheduler *monitoring.Scheduler
	srv       *http.Server
}

// New opens the database, applies migrations and builds the router.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a := &App{cfg: cfg, db: db}

	if err := database.Migrate(ctx, db); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	codec := auth.NewCodec(cfg.TokenSecret, cfg.TokenTTL)
	if !codec.Configured() {
		log.Warn().Msg("TOKEN_SECRET is not set, logins will fail with a server configuration error")
	}
	log.Info().Dur("token_ttl", codec.TTL()).Msg("Session tokens configured")

	var revoker auth.Revoker = auth.NopRevoker{}
	if cfg.RedisURL != "" {
		client, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = client
		revoker = auth.NewRedisRevoker(client)
		log.Info().Msg("Token revocation backed by Redis")
	} else {
		log.Warn().Msg("REDIS_URL is not set, logout will not revoke tokens")
	}

	policy := gate.DefaultPolicy()
	if cfg.RoutesFile != "" {
		if policy, err = gate.LoadPolicy(cfg.RoutesFile); err != nil {
			a.close()
			return nil, err
		}
	}
	routeGate, err := gate.New(policy)
	if err != nil {
		a.close()
		return nil, err
	}
	log.Info().
		Strs("matcher", routeGate.Policy().Matcher).
		Strs("public", routeGate.Policy().Public).
		Msg("Route gate loaded")

	eventService := services.NewEventService(db)
	userService := services.NewUserService(db, codec, revoker, eventService)

	a.scheduler, err = monitoring.NewScheduler(eventService, cfg.EventRetention, cfg.PruneSchedule)
	if err != nil {
		a.close()
		return nil, err
	}

	router := api.NewRouter(api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Cookies:        auth.CookieOptions{Secure: cfg.CookieSecure, SameSite: cfg.CookieSameSite},
		UniformErrors:  cfg.UniformErrors,
	}, db, routeGate, codec, revoker, userService, eventService)

	a.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

// Run starts the background scheduler and serves HTTP until Shutdown is
// called.
func (a *App) Run() error {
	a.scheduler.Run()

	log.Info().Int("port", a.cfg.ServerPort).Msg("Server starting")
	if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, stops the scheduler and releases the
// database and Redis connections.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.srv.Shutdown(ctx)
	a.scheduler.Stop()
	a.close()
	return err
}

func (a *App) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close redis client")
		}
	}
	if err := a.db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
}
