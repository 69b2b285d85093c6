package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roomgrid/internal/booking"
	"roomgrid/internal/bookingapi"
	"roomgrid/internal/config"
	"roomgrid/internal/metrics"
	"roomgrid/internal/server"
	"roomgrid/internal/session"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("ROOMGRID_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	client := bookingapi.New(cfg.Backend.BaseURL, cfg.Backend.APIKey)
	if cfg.Backend.RateLimitRPS > 0 {
		burst := cfg.Backend.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		client.UseRateLimit(cfg.Backend.RateLimitRPS, burst)
	}

	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.Backend.CacheTTLSeconds > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		client.UseRedisCache(rdb, time.Duration(cfg.Backend.CacheTTLSeconds)*time.Second)
	}

	normalizer, err := booking.New(cfg.Timezone.Backend, cfg.Grid.Durations, cfg.Grid.DayEndHour)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build time normalizer")
	}

	metrics.Register()

	sess := session.New(client, normalizer, logger, session.Options{
		DayStartHour:    cfg.Grid.DayStartHour,
		DayEndHour:      cfg.Grid.DayEndHour,
		DefaultCapacity: cfg.Grid.DefaultCapacity,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the session; failures surface in the API error state instead of
	// aborting startup.
	startupCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	if err := sess.LoadRooms(startupCtx); err != nil {
		logger.Warn().Err(err).Msg("initial room load failed")
	}
	if err := sess.LoadEquipment(startupCtx); err != nil {
		logger.Warn().Err(err).Msg("initial equipment load failed")
	}
	if err := sess.RefreshBookings(startupCtx); err != nil {
		logger.Warn().Err(err).Msg("initial bookings load failed")
	}
	cancel()

	if cfg.Monitoring.HealthCheckPort > 0 {
		go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, client, rdb, &logger)
	}
	if cfg.Monitoring.PrometheusEnabled {
		port := cfg.Monitoring.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go startMetricsServer(ctx, port, &logger)
	}

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: server.New(sess, logger).Handler(),
	}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Str("addr", cfg.Server.ListenAddr).Msg("roomgrid started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("roomgrid stopped")
}

func startHealthServer(ctx context.Context, port int, client *bookingapi.Client, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := client.HealthCheck(ctxPing); err != nil {
			http.Error(w, "backend not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
