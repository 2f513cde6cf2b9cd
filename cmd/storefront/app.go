package main

import (
	"context"
	"database/sql"
	"fmt"

	"candlebliss_storefront/config"
	"candlebliss_storefront/internal/clients"
	"candlebliss_storefront/internal/domain"
	"candlebliss_storefront/internal/repository"
	"candlebliss_storefront/internal/session"
	"candlebliss_storefront/internal/usecase"
	"candlebliss_storefront/pkg/db"
	redispkg "candlebliss_storefront/pkg/redis"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// app owns the connections and the use cases built on top of them.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	redis *redis.Client
	db    *sql.DB

	sessions session.Store
	cache    session.Cache
	auditor  *usecase.Auditor
	auth     clients.AuthClient

	storefront usecase.StorefrontUseCase
	customers  usecase.CustomerUseCase
	exchanges  usecase.ExchangeUseCase
	products   usecase.ProductUseCase
	warehouse  usecase.WarehouseUseCase
}

func newApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*app, error) {
	a := &app{cfg: cfg, log: logger}

	if cfg.RedisURL != "" {
		client, err := redispkg.Connect(ctx, redispkg.DefaultConfig(cfg.RedisURL))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.redis = client
		store := session.NewRedisStore(client, cfg.SessionTTLDuration(), logger)
		a.sessions, a.cache = store, store.Cache()
		logger.Info("Session store: redis")
	} else {
		store := session.NewMemoryStore(cfg.SessionTTLDuration())
		a.sessions, a.cache = store, store.Cache()
		logger.Info("Session store: in-memory")
	}

	var auditRepo domain.AuditRepository
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.db = database
		if err := repository.EnsureAuditSchema(ctx, database); err != nil {
			a.Close()
			return nil, err
		}
		auditRepo = repository.NewPostgresAuditRepository(database, logger)
		logger.Info("Audit trail: postgres")
	} else {
		auditRepo = repository.NewLogAuditRepository(logger, 200)
		logger.Info("Audit trail: log")
	}
	a.auditor = usecase.NewAuditor(auditRepo, logger)

	base, timeout := cfg.APIBaseURL, cfg.APITimeoutDuration()
	products := clients.NewProductHTTPClient(base, timeout, logger)
	categories := clients.NewCategoryHTTPClient(base, timeout, logger)
	details := clients.NewProductDetailHTTPClient(base, timeout, logger)
	orders := clients.NewOrderHTTPClient(base, timeout, logger)
	a.auth = clients.NewAuthHTTPClient(base, timeout, logger)
	logger.Infof("API clients initialized for %s", base)

	cacheTTL := cfg.ProductCacheTTLDuration()
	a.storefront = usecase.NewStorefrontUseCase(products, categories, clients.NewCartHTTPClient(base, timeout, logger), a.cache, cacheTTL, logger)
	a.customers = usecase.NewCustomerUseCase(clients.NewUserHTTPClient(base, timeout, logger), orders, logger)
	a.exchanges = usecase.NewExchangeUseCase(orders, details, a.cache, cacheTTL, a.auditor, logger)
	a.products = usecase.NewProductUseCase(products, details, clients.NewPriceHTTPClient(base, timeout, logger), categories, a.cache, cacheTTL, a.auditor, logger)
	a.warehouse = usecase.NewWarehouseUseCase(products, clients.NewInventoryHTTPClient(base, timeout, logger), a.cache, cacheTTL, a.auditor, logger)
	logger.Info("Use cases initialized.")

	return a, nil
}

// checks are the probes shared by GET /health and the gRPC health service.
func (a *app) checks() map[string]func(ctx context.Context) error {
	checks := map[string]func(ctx context.Context) error{}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	if a.db != nil {
		checks["database"] = a.db.PingContext
	}
	return checks
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Errorf("Error closing redis connection: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Errorf("Error closing database connection: %v", err)
		} else {
			a.log.Info("Database connection closed.")
		}
	}
}
