package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/mru-labs/merchant-os/internal/adapter/ai/gemini"
	"github.com/mru-labs/merchant-os/internal/adapter/cache"
	"github.com/mru-labs/merchant-os/internal/adapter/external/payment"
	"github.com/mru-labs/merchant-os/internal/adapter/grpc/server"
	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/handlers"
	"github.com/mru-labs/merchant-os/internal/adapter/http/fiber/middleware"
	"github.com/mru-labs/merchant-os/internal/adapter/queue"
	"github.com/mru-labs/merchant-os/internal/adapter/storage/postgres"
	"github.com/mru-labs/merchant-os/internal/adapter/vault"
	wsAdapter "github.com/mru-labs/merchant-os/internal/adapter/websocket"
	"github.com/mru-labs/merchant-os/internal/domain"
	"github.com/mru-labs/merchant-os/internal/infrastructure/circuitbreaker"
	"github.com/mru-labs/merchant-os/internal/observability/telemetry"
	"github.com/mru-labs/merchant-os/internal/ports"
	"github.com/mru-labs/merchant-os/internal/seed"
	"github.com/mru-labs/merchant-os/internal/service/auth"
	"github.com/mru-labs/merchant-os/internal/service/catalog"
	"github.com/mru-labs/merchant-os/internal/service/dashboard"
	"github.com/mru-labs/merchant-os/internal/service/email"
	"github.com/mru-labs/merchant-os/internal/service/events"
	"github.com/mru-labs/merchant-os/internal/service/health"
	"github.com/mru-labs/merchant-os/internal/service/insight"
	"github.com/mru-labs/merchant-os/internal/service/ledger"
	"github.com/mru-labs/merchant-os/internal/service/order"
	"github.com/mru-labs/merchant-os/internal/service/store"
	"github.com/mru-labs/merchant-os/internal/service/voice"
	"github.com/mru-labs/merchant-os/internal/service/wallet"
	"github.com/mru-labs/merchant-os/pkg/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting MRU Merchant OS",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server exited gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.App.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging.level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// 3. Resolve secrets from Vault
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault, logger)
		if err != nil {
			return fmt.Errorf("vault: %w", err)
		}
		if err := vault.Resolve(ctx, secrets, cfg, logger); err != nil {
			return err
		}
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry.ServiceName, cfg.App.Version, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			return fmt.Errorf("tracer: %w", err)
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer postgres.Close(db)

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db, logger); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}

	// 6. Initialize Cache (Redis, or in-process when no Redis is configured)
	var appCache ports.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		appCache = redisCache
	} else {
		logger.Warn("No redis.url configured, using in-process cache")
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue and realtime hub
	messageQueue, err := queue.New(cfg.Queue, logger)
	if err != nil {
		return fmt.Errorf("queue: %w", err)
	}
	defer messageQueue.Close()

	wsHub := wsAdapter.NewHub(logger)
	publisher := events.NewPublisher(messageQueue, wsHub, nil, logger)

	// 8. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	vendorRepo := postgres.NewVendorRepository(db, logger)
	ledgerRepo := postgres.NewLedgerRepository(db, logger)
	productRepo := postgres.NewProductRepository(db, logger)
	orderRepo := postgres.NewOrderRepository(db, logger)
	walletRepo := postgres.NewWalletRepository(db, logger)
	voiceRepo := postgres.NewVoiceTransactionRepository(db, logger)

	// 9. Initialize Services (Business Logic Layer)
	clock, err := ledgerClock(cfg.Ledger)
	if err != nil {
		return err
	}

	ledgerService := ledger.NewService(ledgerRepo, appCache, publisher, ledger.Options{
		VATRate:  cfg.Ledger.VATRate,
		CacheTTL: cfg.Cache.LedgerViewTTL,
		Clock:    clock,
	}, logger)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenDuration, cfg.JWT.RefreshTokenDuration, appCache, logger)
	authService := auth.NewService(userRepo, vendorRepo, jwtService, cfg.Voice.DefaultCurrency, logger)
	catalogService := catalog.NewService(productRepo, publisher, logger)
	walletService := wallet.NewService(walletRepo, ledgerRepo, clock, cfg.Voice.DefaultCurrency, logger)
	dashboardService := dashboard.NewService(ledgerService, productRepo, orderRepo, walletRepo, cfg.Voice.DefaultCurrency, logger)

	// 10. Initialize Gemini client (voice parsing and store generation)
	var llm ports.TextGenerator
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, gemini.Options{
			APIKey:   cfg.Gemini.APIKey,
			Model:    cfg.Gemini.Model,
			Endpoint: cfg.Gemini.Endpoint,
			Timeout:  cfg.Gemini.Timeout,
		}, circuitbreaker.New("gemini", cfg.CircuitBreaker, logger), logger)
		if err != nil {
			return fmt.Errorf("gemini: %w", err)
		}
		llm = geminiClient
	} else {
		logger.Warn("No Gemini API key configured, voice parsing is disabled and store generation returns a placeholder")
	}

	parser := voice.NewTranscriptParser(llm, cfg.Voice.StrictSchema, logger)
	sessions := voice.NewSessionStore(appCache, cfg.Cache.VoiceSessionTTL)
	voiceAssistant := voice.NewAssistant(parser, sessions, ledgerService, catalogService, walletService, voiceRepo, publisher, voice.AssistantOptions{
		DefaultLocale:   cfg.Voice.DefaultLocale,
		DefaultCurrency: cfg.Voice.DefaultCurrency,
		Clock:           clock,
	}, logger)
	storeGenerator := store.NewGenerator(llm, logger)

	// 11. Payments and notifications
	var (
		payments ports.PaymentGateway
		stripe   *payment.StripeService
	)
	if cfg.Payment.Stripe.SecretKey != "" {
		stripe = payment.NewStripeService(payment.Options{
			APIKey:        cfg.Payment.Stripe.SecretKey,
			WebhookSecret: cfg.Payment.Stripe.WebhookSecret,
		}, circuitbreaker.New("stripe", cfg.CircuitBreaker, logger), logger)
		payments = stripe
	}

	emailProvider := cfg.Notification.Email.Provider
	if emailProvider == "sendgrid" && cfg.Notification.Email.APIKey == "" {
		logger.Warn("No SendGrid API key configured, order emails are logged only")
		emailProvider = "log"
	}
	emailService, err := email.NewService(email.Config{
		Provider:       emailProvider,
		FromEmail:      cfg.Notification.Email.From,
		FromName:       cfg.Notification.Email.FromName,
		SendGridAPIKey: cfg.Notification.Email.APIKey,
	}, logger)
	if err != nil {
		return fmt.Errorf("email: %w", err)
	}

	orderService := order.NewService(orderRepo, vendorRepo, payments, emailService, publisher, cfg.Payment.Stripe.Currency, logger)

	// 12. Demo fixtures: insights always, ledger seeding on registration when enabled
	fixtures, err := seed.Load()
	if err != nil {
		return fmt.Errorf("fixtures: %w", err)
	}
	insightService := insight.NewService(fixtures.Insights, appCache, cfg.Cache.InsightTTL, logger)

	var demoSeeder handlers.DemoSeeder
	if cfg.App.SeedDemo {
		demoSeeder = seed.NewSeeder(fixtures, ledgerRepo, walletRepo, clock, logger)
	}

	// 13. Health checks
	healthService := health.NewService(&health.Config{
		Version:  cfg.App.Version,
		DB:       sqlDB,
		Cache:    appCache,
		Queue:    messageQueue,
		Degraded: map[string]bool{"queue": true},
	}, logger)

	// 14. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	app.Use(middleware.Tracing())
	app.Use(middleware.Metrics())
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(circuitbreaker.New("http", cfg.CircuitBreaker, logger)))
	}

	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	routes := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService, demoSeeder, logger),
		Voice:     handlers.NewVoiceHandler(voiceAssistant, logger),
		Ledger:    handlers.NewLedgerHandler(ledgerService, logger),
		Products:  handlers.NewProductHandler(catalogService, logger),
		Orders:    handlers.NewOrderHandler(orderService, logger),
		Dashboard: handlers.NewDashboardHandler(dashboardService, walletService, insightService, logger),
		Store:     handlers.NewStoreHandler(storeGenerator, logger),
		Updates:   handlers.NewUpdatesHandler(wsHub, logger),
	}
	if stripe != nil {
		routes.Payments = handlers.NewPaymentWebhookHandler(stripe, orderService, logger)
	}
	handlers.RegisterRoutes(app, routes, authService)

	// 15. Start everything and wait for a signal
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		wsHub.Run(gctx)
		return nil
	})

	startBackgroundWorkers(messageQueue, logger)

	g.Go(func() error {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	var grpcServer *server.GRPCServer
	if cfg.GRPC.Enabled {
		grpcServer = server.NewGRPCServer(authService, logger)
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}

		g.Go(func() error {
			grpcServer.WatchReadiness(gctx, 10*time.Second, func(ctx context.Context) bool {
				return healthService.Ready(ctx).Ready
			})
			return nil
		})
		g.Go(func() error {
			logger.Info("Starting gRPC Server", zap.Int("port", cfg.GRPC.Port))
			return grpcServer.Serve(lis)
		})
	}

	// Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if grpcServer != nil {
			grpcServer.Stop()
		}
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// ledgerClock returns the reference clock for "today": pinned when ledger.reference_date is set.
func ledgerClock(cfg config.LedgerConfig) (func() time.Time, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid ledger.timezone: %w", err)
		}
		loc = l
	}
	if cfg.ReferenceDate != "" {
		return ledger.FixedClock(cfg.ReferenceDate, loc)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}

// startBackgroundWorkers subscribes audit loggers to the domain event stream.
func startBackgroundWorkers(mq ports.MessageQueue, logger *zap.Logger) {
	logger.Info("Starting background workers")

	subjects := []string{
		domain.SubjectVoiceConfirmed,
		domain.SubjectOrderStatusChanged,
		domain.SubjectProductStockAdjusted,
	}
	for _, subject := range subjects {
		subject := subject
		err := mq.Subscribe(subject, func(msg []byte) error {
			logger.Debug("Event received", zap.String("subject", subject), zap.Int("bytes", len(msg)))
			return nil
		})
		if err != nil {
			logger.Warn("Failed to subscribe", zap.String("subject", subject), zap.Error(err))
		}
	}
}
