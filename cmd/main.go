package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"carga-platform/internal/carriers"
	"carga-platform/internal/chat"
	"carga-platform/internal/config"
	"carga-platform/internal/events"
	"carga-platform/internal/listings"
	"carga-platform/internal/profiles"
	"carga-platform/internal/shipments"
	"carga-platform/internal/stats"
	"carga-platform/internal/store"
	mongostore "carga-platform/internal/store/mongo"
	pgstore "carga-platform/internal/store/postgres"
	"carga-platform/internal/tracking"
	"carga-platform/migrations"
	"carga-platform/pkg/db"
	"carga-platform/pkg/identity"
	"carga-platform/pkg/kafka"
	"carga-platform/pkg/logging"
	"carga-platform/pkg/metrics"
	mongoclient "carga-platform/pkg/mongo"
	rredis "carga-platform/pkg/redis"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── 1. Config and logging ──
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	m := metrics.New("carga")

	// ── 2. Record store ──
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		fatal(logger, "store unavailable", err)
	}
	if cfg.SeedDemo {
		if err := store.Seed(ctx, st, logger); err != nil {
			fatal(logger, "seeding failed", err)
		}
	}

	// ── 3. Redis (optional) ──
	var locker listings.Locker = listings.NewLocalLocker()
	var redisClient *rredis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = rredis.NewClient(ctx, cfg.RedisAddr, logger)
		if err != nil {
			fatal(logger, "redis unavailable", err)
		}
		locker = redisClient
	}

	// ── 4. WebSocket hub and Kafka (optional) ──
	wsHub := tracking.NewHub(logger, m)
	var publisher events.Publisher = wsHub
	var kafkaClient *kafka.Client
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaClient = kafka.NewClient(brokers, logger)
		if err := kafkaClient.EnsureTopics(ctx, kafka.TopicListingAccepted); err != nil {
			fatal(logger, "kafka unavailable", err)
		}
		publisher = events.NewKafkaPublisher(kafkaClient, m)
		tracking.NewFeed(kafkaClient, wsHub, logger).Start(ctx, instanceID())
	}

	// ── 5. Identity ──
	verifier, err := newVerifier(cfg, logger)
	if err != nil {
		fatal(logger, "identity provider misconfigured", err)
	}
	auth := identity.NewMiddleware(verifier, logger, m)

	// ── 6. Services ──
	listingSvc := listings.NewService(st, locker, publisher, m, logger)
	shipmentSvc := shipments.NewService(st)
	carrierSvc := carriers.NewService(st)
	profileSvc := profiles.NewService(st, logger)
	statsSvc := stats.NewService(st)
	responder := chat.NewResponder(st)

	// ── 7. HTTP router ──
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(logging.RequestLogger(logger))
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"carga-platform"}`))
	})
	r.Handle("/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"Carga Platform API v2.0","status":"ok"}`))
		})
		r.Method(http.MethodGet, "/stats", stats.NewHandler(statsSvc, logger))
		r.Mount("/cargas", listings.NewHandler(listingSvc, auth, logger).Routes())
		r.Mount("/envios", shipments.NewHandler(shipmentSvc, logger).Routes())
		r.Mount("/transportistas", carriers.NewHandler(carrierSvc, logger).Routes())
		r.Mount("/auth", profiles.NewHandler(profileSvc, auth, logger).Routes())
		r.With(auth.OptionalAuth).Method(http.MethodPost, "/chat", chat.NewHandler(responder, logger))
		r.Mount("/ws", wsHub.Routes())
	})

	// ── 8. Start server ──
	srv := &http.Server{Addr: cfg.Addr(), Handler: r}

	go func() {
		logger.Info("carga-platform listening", "addr", cfg.Addr(), "store", cfg.StoreDriver, "identity", cfg.IdentityMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server failed", err)
		}
	}()

	// ── 9. Graceful shutdown ──
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	cancel() // stop consumers

	if kafkaClient != nil {
		if err := kafkaClient.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("redis close", "error", err)
		}
	}
	if err := st.Close(shutCtx); err != nil {
		logger.Error("store close", "error", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := db.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, migrations.FS); err != nil {
			database.Close()
			return nil, err
		}
		return pgstore.New(database), nil
	case config.DriverMongo:
		client, err := mongoclient.NewClient(ctx, mongoclient.Config{URI: cfg.MongoURL, Database: cfg.DBName})
		if err != nil {
			return nil, err
		}
		return mongostore.New(ctx, client)
	default:
		return store.NewMemory(), nil
	}
}

func newVerifier(cfg *config.Config, logger *slog.Logger) (identity.Verifier, error) {
	if cfg.IdentityMode == config.IdentityJWT {
		return identity.NewJWTVerifier(cfg.SupabaseJWTSecret)
	}
	return identity.NewHTTPVerifier(identity.HTTPConfig{
		BaseURL:    cfg.SupabaseURL,
		ServiceKey: cfg.SupabaseServiceKey,
		Timeout:    cfg.IdentityTimeout,
	}, logger)
}

// instanceID names this process's consumer group so every instance sees
// every acceptance.
func instanceID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return uuid.NewString()
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
