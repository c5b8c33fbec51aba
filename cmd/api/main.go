package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	credentialshandler "docport/internal/credentials/handler"
	credentialsservice "docport/internal/credentials/service"
	credentialsstore "docport/internal/credentials/store"
	fileshandler "docport/internal/files/handler"
	filesservice "docport/internal/files/service"
	pageshandler "docport/internal/pages/handler"
	pagesservice "docport/internal/pages/service"
	pagesstore "docport/internal/pages/store"
	"docport/internal/platform/config"
	"docport/internal/platform/database"
	"docport/internal/platform/health"
	"docport/internal/platform/httpserver"
	"docport/internal/platform/logger"
	platformmw "docport/internal/platform/middleware"
	"docport/internal/servicetoken"
	tenanthandler "docport/internal/tenant/handler"
	tenantmetrics "docport/internal/tenant/metrics"
	tenantservice "docport/internal/tenant/service"
	tenantstore "docport/internal/tenant/store"
)

// main wires the data API: tenant registration and domain management, page
// CRUD with the on-disk mirror, credentials, file attachments, and the
// service-token-guarded internal surface the portal resolves against.
func main() {
	cfg := config.APIFromEnv()
	log := logger.New()

	if cfg.ServiceTokenSecret == "" {
		log.Error("DOCPORT_SERVICE_SECRET is required")
		os.Exit(1)
	}

	log.Info("initializing docport-api",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"parent_domain", cfg.ParentDomain,
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var (
		tenants     tenantstore.Directory
		pages       pagesstore.Store
		credentials credentialsstore.Store
	)
	if pool != nil {
		tenants = tenantstore.NewPostgres(pool.DB())
		pages = pagesstore.NewPostgres(pool.DB())
		credentials = credentialsstore.NewPostgres(pool.DB())
		defer pool.Close()
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		tenants = tenantstore.NewInMemory()
		pages = pagesstore.NewInMemory()
		credentials = credentialsstore.NewInMemory()
	}

	fs := afero.NewOsFs()
	tenantSvc := tenantservice.New(tenants, tenantservice.WithMetrics(tenantmetrics.New()))
	pagesSvc := pagesservice.New(pages, pagesservice.NewMirror(fs, cfg.DocsMirrorRoot))
	credentialsSvc := credentialsservice.New(credentials)
	filesSvc := filesservice.New(fs, cfg.FilesRoot)

	signer := servicetoken.New(cfg.ServiceTokenSecret)

	router := chi.NewRouter()
	router.Use(platformmw.Recovery(log))
	router.Use(platformmw.RequestID)
	router.Use(platformmw.Logger(log))
	router.Use(platformmw.Timeout(30 * time.Second))
	router.Use(platformmw.ContentTypeJSON)
	router.Use(platformmw.Tracing("docport-api"))

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}
	healthHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	tenantHandler := tenanthandler.New(tenantSvc, log)
	tenantHandler.Register(router)
	tenantHandler.RegisterInternal(router, signer)

	pagesHandler := pageshandler.New(pagesSvc, log)
	pagesHandler.RegisterInternal(router, signer)

	router.Group(func(r chi.Router) {
		r.Use(tenanthandler.RequireAPIKey(tenantSvc))
		pagesHandler.Register(r)
		credentialshandler.New(credentialsSvc, log).Register(r)
		fileshandler.New(filesSvc, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	if err := httpserver.Shutdown(srv, 10*time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
