package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"docport/internal/access"
	accesshandler "docport/internal/access/handler"
	accessmetrics "docport/internal/access/metrics"
	sessionstore "docport/internal/access/store/session"
	"docport/internal/apiclient"
	"docport/internal/platform/config"
	"docport/internal/platform/health"
	"docport/internal/platform/httpserver"
	"docport/internal/platform/logger"
	platformmw "docport/internal/platform/middleware"
	"docport/internal/platform/redis"
	"docport/internal/portal"
	"docport/internal/sentinel"
	"docport/internal/servicetoken"
)

// main wires the public portal: every request is resolved to a tenant by
// hostname, gated by subdomain session, then rendered from the data API's
// internal surface. The portal holds no tenant data of its own.
func main() {
	cfg := config.PortalFromEnv()
	log := logger.New()

	if cfg.ServiceTokenSecret == "" {
		log.Error("DOCPORT_SERVICE_SECRET is required")
		os.Exit(1)
	}

	log.Info("initializing docport-portal",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"parent_domain", cfg.ParentDomain,
		"api_url", cfg.APIBaseURL,
	)

	signer := servicetoken.New(cfg.ServiceTokenSecret)
	client := apiclient.New(cfg.APIBaseURL)
	directory := apiclient.NewDirectory(client, signer)

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var sessions access.SessionStore
	if redisClient != nil {
		sessions = sessionstore.NewRedis(redisClient.Client)
		defer redisClient.Close()
	} else {
		log.Warn("REDIS_URL not set, sessions are process-local")
		sessions = sessionstore.NewInMemory()
	}

	metrics := accessmetrics.New()
	resolver := access.NewResolver(directory, cfg.ParentDomain)
	gate := access.NewGate(sessions)
	gating := access.NewMiddleware(resolver, gate, log, access.WithMetrics(metrics))
	issuer := access.NewIssuer(directory, sessions, cfg.SessionTTL, access.WithIssuerMetrics(metrics))

	router := chi.NewRouter()
	router.Use(platformmw.Recovery(log))
	router.Use(platformmw.RequestID)
	router.Use(platformmw.Logger(log))
	router.Use(platformmw.Timeout(30 * time.Second))
	router.Use(platformmw.Tracing("docport-portal"))
	router.Use(gating.Handler)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("data_api", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// Not-found is the healthy answer; only transport failures matter.
		_, err := directory.FindByCustomDomain(ctx, "healthcheck.invalid")
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		return nil
	})
	healthHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	accesshandler.New(issuer, cfg.SecureCookies, log).Register(router)
	portal.New(directory, log).Register(router)

	srv := httpserver.New(cfg.Addr, router)
	sweeper := access.NewSweeper(sessions, cfg.SweepInterval, log,
		access.WithSweeperMetrics(metrics),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		return httpserver.Shutdown(srv, 10*time.Second)
	})

	g.Go(func() error {
		if err := sweeper.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if redisClient != nil {
		g.Go(func() error {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					redisClient.RecordPoolStats()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("portal terminated", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
