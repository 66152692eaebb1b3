// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command portfolio runs the portfolio API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/portfolio-api/internal/analytics"
	"github.com/olegiv/portfolio-api/internal/cache"
	"github.com/olegiv/portfolio-api/internal/captcha"
	"github.com/olegiv/portfolio-api/internal/config"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/geoip"
	"github.com/olegiv/portfolio-api/internal/handler/api"
	"github.com/olegiv/portfolio-api/internal/imaging"
	"github.com/olegiv/portfolio-api/internal/logging"
	"github.com/olegiv/portfolio-api/internal/mail"
	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/scheduler"
	"github.com/olegiv/portfolio-api/internal/server"
	"github.com/olegiv/portfolio-api/internal/service"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/token"
	"github.com/olegiv/portfolio-api/internal/version"
	"github.com/olegiv/portfolio-api/internal/webhook"
)

var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Portfolio API server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JWT_SECRET           Access token secret (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  JWT_REFRESH_SECRET   Refresh token secret (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORT                 Server port (default: 5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NODE_ENV             development|production|test (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DB_PATH              SQLite database path (default: ./data/portfolio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_EMAIL          Seed admin email\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PASSWORD       Seed admin password\n")
		_, _ = fmt.Fprintf(os.Stderr, "  REDIS_URL            Redis URL for refresh tokens and caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_URL             Public site URL for sitemap.xml (default: http://localhost:3000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WEBHOOK_URL          Endpoint receiving signed change events (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  HCAPTCHA_SECRET      Require hCaptcha on contact submissions (optional)\n")
	}
	flag.Parse()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("portfolio %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		JSON:       cfg.IsProduction(),
		Output:     os.Stdout,
		EventLogDB: db,
	})
	slog.SetDefault(logger)
	logger.Info("starting portfolio api", "version", info.Version, "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := store.Seed(ctx, db, store.SeedOptions{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		AdminName:     cfg.AdminName,
	}, logger); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	appCache := cache.New(cache.Config{RedisURL: cfg.RedisURL, Prefix: cfg.CachePrefix}, logger)
	defer func() { _ = appCache.Close() }()

	tokens := token.NewService(token.Config{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTExpire.Std(),
		RefreshTTL:    cfg.JWTRefreshExpire.Std(),
		Issuer:        "portfolio-api",
	}, appCache)

	// Created before the bus so it stops after the bus has drained.
	var hooks *webhook.Sender
	if cfg.WebhookEnabled() {
		whCfg := webhook.DefaultConfig(cfg.WebhookURL, cfg.WebhookSecret)
		whCfg.Events = cfg.WebhookEvents
		hooks = webhook.NewSender(whCfg, logger)
		hooks.Start(context.WithoutCancel(ctx))
		defer hooks.Stop()
	}

	bus := events.NewDispatcher(logger, events.DefaultConfig())
	bus.Start(ctx)
	defer bus.Stop()
	bus.Subscribe(events.LogSubscriber(logger))
	if hooks != nil {
		bus.Subscribe(hooks.HandleEvent)
		logger.Info("webhook notifications enabled", "url", cfg.WebhookURL)
	}

	geo := &geoip.Lookup{}
	if cfg.GeoIPEnabled() {
		if geo, err = geoip.NewLookup(cfg.GeoIPDBPath); err != nil {
			return fmt.Errorf("loading geoip database: %w", err)
		}
		defer func() { _ = geo.Close() }()
	}

	if cfg.MailEnabled() {
		notifier := mail.NewNotifier(mail.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			To:       cfg.NotifyEmail,
		}, logger)
		bus.Subscribe(notifier.HandleEvent)
		logger.Info("contact notifications enabled", "to", cfg.NotifyEmail)
	}

	collector := analytics.NewCollector(db, logger)
	bus.Subscribe(collector.HandleEvent)

	var verifier captcha.Verifier
	if cfg.CaptchaEnabled() {
		verifier = captcha.NewHCaptcha(cfg.HCaptchaSecret, logger)
		logger.Info("contact captcha enabled")
	}

	processor := imaging.NewProcessor(cfg.UploadsDir)
	authService := service.NewAuthService(db, tokens, logger)
	handler := api.NewHandler(db, api.Services{
		Auth:         authService,
		Users:        service.NewUserService(db, logger),
		Projects:     service.NewProjectService(db, processor, bus, logger),
		Categories:   service.NewCategoryService(db),
		Catalog:      service.NewServiceCatalog(db),
		Contacts:     service.NewContactService(db, geo, bus, logger),
		Gallery:      service.NewGalleryService(db, processor),
		Testimonials: service.NewTestimonialService(db, processor),
		Settings:     service.NewSettingsService(db, appCache, bus, logger),
		SocialLinks:  service.NewSocialLinkService(db),
		Images:       service.NewImageService(db, processor, bus, logger),
		Dashboard:    service.NewDashboardService(db),
		Analytics:    collector,
		Captcha:      verifier,
	}, api.Options{
		Environment: cfg.Env,
		Version:     info.Version,
		UploadsDir:  cfg.UploadsDir,
		TrustProxy:  cfg.TrustProxy,
		SiteURL:     cfg.SiteURL,
		Logger:      logger,
	})

	var metrics *middleware.Metrics
	if cfg.MetricsEnabled {
		metrics = middleware.NewMetrics()
	}

	sched := scheduler.New(logger)
	if err := sched.Add(scheduler.Job{
		Name:     "analytics-flush",
		Schedule: scheduler.EveryFiveMinutes,
		Run:      collector.Flush,
	}); err != nil {
		return err
	}
	if geo.IsEnabled() {
		if err := sched.Add(scheduler.Job{
			Name:     "geoip-reload",
			Schedule: scheduler.Weekly,
			Run:      func(context.Context) error { return geo.Reload() },
		}); err != nil {
			return err
		}
	}
	sched.Start()

	srvCfg := server.Config{
		Addr:          cfg.ServerAddr(),
		CORSOrigins:   cfg.CORSOrigins,
		UploadsDir:    cfg.UploadsDir,
		TrustProxy:    cfg.TrustProxy,
		IsDevelopment: cfg.IsDevelopment(),
	}
	srv := server.New(srvCfg, server.NewRouter(srvCfg, handler, authService, metrics, logger))

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srvCfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			sched.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	sched.Stop()
	if err := collector.Flush(shutdownCtx); err != nil {
		logger.Error("final analytics flush failed", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
