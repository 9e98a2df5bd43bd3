package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ideauto/magicauth/config"
	"github.com/ideauto/magicauth/internal/email"
	"github.com/ideauto/magicauth/internal/health"
	"github.com/ideauto/magicauth/internal/infrastructure/postgres"
	"github.com/ideauto/magicauth/internal/janitor"
	ctxlog "github.com/ideauto/magicauth/internal/log"
	"github.com/ideauto/magicauth/internal/metrics"
	"github.com/ideauto/magicauth/internal/session"
	"github.com/ideauto/magicauth/internal/token"
	httptransport "github.com/ideauto/magicauth/internal/transport/http"
	"github.com/ideauto/magicauth/internal/transport/http/handler"
	"github.com/ideauto/magicauth/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewConsumedTokenRepository(pool)

	codec := token.NewCodec([]byte(cfg.JWTSecret), cfg.SessionTTLDays)
	cookies := session.NewCookiePolicy(cfg.SessionTTLDays, cfg.CookieSecure)
	sender := email.NewSender(email.ProviderConfig{
		Provider:     cfg.EmailProvider,
		ResendAPIKey: cfg.ResendAPIKey,
		ResendFrom:   cfg.ResendFrom,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUser:     cfg.SMTPUser,
		SMTPPassword: cfg.SMTPPassword,
		SMTPFrom:     cfg.SMTPFrom,
	}, logger)

	provisioner := usecase.NewUserProvisioner(userRepo, logger)
	issuer := usecase.NewMagicLinkIssuer(codec, sender, cfg.AllowedEmailDomains, cfg.MagicLinkBase, logger)
	verifier := usecase.NewAuthVerifier(codec, provisioner, tokenRepo, logger)
	authHandler := handler.NewAuthHandler(issuer, verifier, cookies, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	jan := janitor.New(tokenRepo, cfg.JanitorSpec, logger)
	if err := jan.Start(ctx); err != nil {
		stop()
		log.Fatalf("janitor: %v", err)
	}

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, authHandler, verifier),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	jan.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
