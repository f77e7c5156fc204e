package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/shopease/api/internal/di"
	"github.com/shopease/api/internal/handlers"
	"github.com/shopease/api/internal/payments"
	"github.com/shopease/api/internal/platform/auth"
	"github.com/shopease/api/internal/platform/config"
	pfirestore "github.com/shopease/api/internal/platform/firestore"
	"github.com/shopease/api/internal/platform/idempotency"
	"github.com/shopease/api/internal/platform/jobs"
	"github.com/shopease/api/internal/platform/observability"
	"github.com/shopease/api/internal/platform/secrets"
	firestoreRepo "github.com/shopease/api/internal/repositories/firestore"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	envValues, err := config.EnvironmentValues()
	if err != nil {
		logger.Fatal("failed to read environment values", zap.Error(err))
	}

	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
	)
	if err != nil {
		var missing *config.MissingSecretsError
		if errors.As(err, &missing) {
			logger.Fatal("missing required secrets", zap.Strings("secrets", missing.RedactedNames()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	firestoreClient, err := firestoreProvider.Client(ctx)
	if err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	registry, err := firestoreRepo.NewRegistry(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise repositories", zap.Error(err))
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.Notifications.ProjectID)
	if err != nil {
		logger.Fatal("failed to initialise pubsub client", zap.Error(err))
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logger.Warn("pubsub close error", zap.Error(err))
		}
	}()

	notifier, err := jobs.NewPubSubEmailNotifier(pubsubClient.Topic(cfg.Notifications.Topic), cfg.Notifications.Sender)
	if err != nil {
		logger.Fatal("failed to initialise email notifier", zap.Error(err))
	}

	paymentsLogger := logger.Named("payments")
	gateway, err := payments.NewRazorpayGateway(payments.RazorpayGatewayConfig{
		KeyID:     cfg.Gateway.KeyID,
		KeySecret: cfg.Gateway.KeySecret,
		Currency:  cfg.Gateway.Currency,
		Logger: func(ctx context.Context, event string, fields map[string]any) {
			zFields := make([]zap.Field, 0, len(fields))
			for k, v := range fields {
				zFields = append(zFields, zap.Any(k, v))
			}
			paymentsLogger.Debug(event, zFields...)
		},
	})
	if err != nil {
		logger.Fatal("failed to initialise payment gateway", zap.Error(err))
	}

	verifier, err := payments.NewSignatureVerifier(cfg.Gateway.KeySecret)
	if err != nil {
		logger.Fatal("failed to initialise signature verifier", zap.Error(err))
	}

	container, err := di.NewContainer(ctx, cfg, registry, di.Dependencies{
		Gateway:  gateway,
		Verifier: verifier,
		Notifier: notifier,
		Logger:   logger.Named("services"),
	})
	if err != nil {
		logger.Fatal("failed to build service container", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := container.Close(closeCtx); err != nil {
			logger.Warn("container close error", zap.Error(err))
		}
	}()

	jwtVerifier, err := auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal("failed to initialise jwt verifier", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(jwtVerifier)

	idempotencyStore := idempotency.NewFirestoreStore(firestoreClient)
	idempotencyMiddleware := idempotency.Middleware(
		idempotencyStore,
		idempotency.WithLogger(observability.NewPrintfAdapter(logger.Named("idempotency"))),
	)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(cfg.Firestore.ProjectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(cfg.Firestore.ProjectID),
		idempotencyMiddleware,
	}

	orderHandlers := handlers.NewOrderHandlers(authenticator, container.Services.Orders)
	couponHandlers := handlers.NewCouponHandlers(authenticator, container.Services.Coupons)
	adminOrderHandlers := handlers.NewAdminOrderHandlers(container.Services.Orders)
	adminCouponHandlers := handlers.NewAdminCouponHandlers(container.Services.Coupons)
	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthRepository(registry.Health()),
		handlers.WithHealthVersion(strings.TrimSpace(envValues["API_BUILD_VERSION"])),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithCouponRoutes(couponHandlers.Routes),
		handlers.WithAdminMiddlewares(authenticator.RequireAuth(auth.RoleAdmin)),
		handlers.WithAdminOrderRoutes(adminOrderHandlers.Routes),
		handlers.WithAdminCouponRoutes(adminCouponHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	var sweepWG sync.WaitGroup
	sweepWG.Add(1)
	go func() {
		defer sweepWG.Done()
		runCouponSweep(sweepCtx, logger.Named("sweep"), cfg.Sweep, container.Services.Coupons)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("shopease api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	sweepCancel()
	sweepWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// runCouponSweep expires overdue coupons once at startup and then on every
// tick, aligned to the configured timezone's midnight when the interval is a
// whole day.
func runCouponSweep(ctx context.Context, logger *zap.Logger, cfg config.SweepConfig, coupons couponSweeper) {
	if coupons == nil {
		return
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	location := time.UTC
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		loaded, err := time.LoadLocation(tz)
		if err != nil {
			logger.Warn("invalid sweep timezone; falling back to UTC", zap.String("timezone", tz), zap.Error(err))
		} else {
			location = loaded
		}
	}

	sweep := func() {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		expired, err := coupons.ExpireDue(runCtx)
		if err != nil {
			logger.Error("coupon expiry sweep failed", zap.Error(err))
			return
		}
		if expired > 0 {
			logger.Info("coupon expiry sweep completed", zap.Int("expired", expired))
		}
	}

	sweep()

	// Align daily sweeps with local midnight so expiry flips with the
	// business day rather than process start time.
	if interval == 24*time.Hour {
		now := time.Now().In(location)
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, location).AddDate(0, 0, 1)
		select {
		case <-time.After(time.Until(next)):
			sweep()
		case <-ctx.Done():
			return
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			return
		}
	}
}

type couponSweeper interface {
	ExpireDue(ctx context.Context) (int, error)
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		if env == nil {
			return ""
		}
		if value, ok := env[key]; ok {
			return strings.TrimSpace(value)
		}
		return ""
	}

	envLabel := strings.ToLower(lookup("API_ENVIRONMENT"))
	if envLabel == "" {
		envLabel = "local"
	}
	defaultProject := lookup("API_SECRET_DEFAULT_PROJECT_ID")
	if defaultProject == "" {
		defaultProject = lookup("API_FIRESTORE_PROJECT_ID")
	}
	fallbackPath := lookup("API_SECRET_FALLBACK_FILE")
	if fallbackPath == "" {
		fallbackPath = ".secrets.local"
	}
	credentialsFile := lookup("API_GOOGLE_CREDENTIALS_FILE")

	opts := []secrets.Option{
		secrets.WithEnvironment(envLabel),
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithFallbackFile(fallbackPath),
	}
	if defaultProject != "" {
		opts = append(opts, secrets.WithDefaultProject(defaultProject))
	}
	if credentialsFile != "" {
		opts = append(opts, secrets.WithClientOptions(option.WithCredentialsFile(credentialsFile)))
	}

	return secrets.NewFetcher(ctx, opts...)
}
