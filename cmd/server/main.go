package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"medgate/internal/authgate/gatekeeper"
	"medgate/internal/authgate/handler"
	"medgate/internal/authgate/identity"
	"medgate/internal/authgate/metrics"
	"medgate/internal/authgate/notify"
	"medgate/internal/authgate/service"
	"medgate/internal/authgate/store/authorization"
	"medgate/internal/authgate/store/nonce"
	"medgate/internal/authgate/token"
	"medgate/internal/authgate/workers/cleanup"
	"medgate/internal/platform/config"
	"medgate/internal/platform/health"
	"medgate/internal/platform/logger"
	httptransport "medgate/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal/authgate packages.
func main() {
	configPath := flag.String("config", "medgate.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger config may itself be broken, so report on stderr directly.
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("initializing medgate",
		"addr", cfg.Server.Addr,
		"base_url", cfg.Server.BaseURL,
		"allowed_domain", cfg.Auth.AllowedDomain,
	)

	codec, err := token.New(cfg.Auth.SigningSecret, cfg.Auth.ApprovalTTL, cfg.Auth.SessionTTL)
	if err != nil {
		log.Error("token codec init failed", "error", err)
		os.Exit(1)
	}

	verifier, err := identity.NewGoogleVerifier(cfg.Auth.GoogleClientID, cfg.Auth.AllowedDomain)
	if err != nil {
		log.Error("identity verifier init failed", "error", err)
		os.Exit(1)
	}

	notifier, err := notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, cfg.Admin.Email)
	if err != nil {
		log.Error("notifier init failed", "error", err)
		os.Exit(1)
	}

	healthHandler := health.New(envName())

	var authzStore authorization.Store
	var nonceStore nonce.Store
	if cfg.Store.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		authzStore = authorization.NewRedisStore(client)
		nonceStore = nonce.NewRedisStore(client)
		healthHandler.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(ctx).Err()
		})
		log.Info("using redis stores", "addr", cfg.Store.RedisAddr)
	} else {
		authzStore = authorization.NewInMemoryStore()
		nonceStore = nonce.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	m := metrics.New()

	gate, err := service.New(
		verifier,
		codec,
		notifier,
		authzStore,
		nonceStore,
		cfg.Server.BaseURL,
		service.WithLogger(log),
		service.WithMetrics(m),
	)
	if err != nil {
		log.Error("service init failed", "error", err)
		os.Exit(1)
	}

	authHandler := handler.New(gate, log, cfg.Auth.SessionTTL)
	gk := gatekeeper.New(
		codec,
		cfg.Gatekeeper.ProtectedPrefixes,
		cfg.Gatekeeper.SigninPath,
		log,
		gatekeeper.WithMetrics(m),
	)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		AuthHandler: authHandler,
		Gatekeeper:  gk,
		Health:      healthHandler,
		Logger:      log,
	})

	sweeper, err := cleanup.New(authzStore, nonceStore,
		cleanup.WithInterval(cfg.Cleanup.Interval),
		cleanup.WithLogger(log),
	)
	if err != nil {
		log.Error("cleanup worker init failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := sweeper.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func envName() string {
	if env := os.Getenv("MEDGATE_ENV"); env != "" {
		return env
	}
	return "development"
}
