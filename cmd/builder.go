package cmd

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"ecommerce/api"
	"ecommerce/api/health"
	apiorder "ecommerce/api/order"
	apipayment "ecommerce/api/payment"
	apipromotion "ecommerce/api/promotion"
	orderapp "ecommerce/application/order"
	paymentapp "ecommerce/application/payment"
	promotionapp "ecommerce/application/promotion"
	"ecommerce/config"
	"ecommerce/domain/catalog"
	"ecommerce/domain/order"
	"ecommerce/domain/payment"
	"ecommerce/domain/promotion"
	"ecommerce/domain/shared"
	paymentinfra "ecommerce/infrastructure/payment"
	"ecommerce/infrastructure/persistence/memory"
	"ecommerce/infrastructure/persistence/mysql"
	"ecommerce/infrastructure/persistence/retry"
	"ecommerce/pkg/logger"
	"ecommerce/pkg/metrics"
)

// repositories 一种存储后端提供的全部依赖
type repositories struct {
	promotions promotion.Repository
	orders     order.Repository
	payments   payment.Repository
	products   catalog.Catalog
	uowFactory shared.UnitOfWorkFactory
	checkers   map[string]health.Checker
	closers    []func() error
}

// AppBuilder builds an App
type AppBuilder struct {
	cfg       *config.Config
	products  []catalog.Product
	verifiers *payment.VerifierRegistry
	metrics   *metrics.Metrics
}

func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:      cfg,
		products: memory.DemoProducts(),
	}
}

// WithProducts 替换启动时写入目录的商品
func (b *AppBuilder) WithProducts(products []catalog.Product) *AppBuilder {
	b.products = products
	return b
}

// WithVerifiers 替换按配置生成的回调校验器
func (b *AppBuilder) WithVerifiers(v *payment.VerifierRegistry) *AppBuilder {
	b.verifiers = v
	return b
}

// Build 组装存储、应用服务、控制器和 HTTP 服务，调用前需要先初始化 logger
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	logger.Info("Building application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("storage", b.cfg.Database.Type))

	repos, err := b.initStorage(ctx)
	if err != nil {
		return nil, err
	}

	verifiers := b.verifiers
	if verifiers == nil {
		verifiers = paymentinfra.NewRegistry(b.cfg.Payment.CallbackSecrets)
	}
	if b.cfg.Metrics.Enabled {
		b.metrics = metrics.New()
	}

	promotionService := promotionapp.NewApplicationService(repos.promotions, repos.products, repos.uowFactory)
	orderService := orderapp.NewApplicationService(repos.orders, repos.products, repos.uowFactory)
	paymentService := paymentapp.NewApplicationService(repos.payments, repos.orders, repos.products, verifiers, repos.uowFactory)

	router := api.NewRouter(b.cfg, api.Controllers{
		Health:    health.NewController(b.cfg, repos.checkers),
		Promotion: apipromotion.NewController(promotionService, b.metrics),
		Order:     apiorder.NewController(orderService, b.metrics),
		Payment:   apipayment.NewController(paymentService, b.metrics),
	}, b.metrics)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	return &App{
		config:  b.cfg,
		router:  router,
		server:  server,
		closers: repos.closers,
	}, nil
}

func (b *AppBuilder) initStorage(ctx context.Context) (*repositories, error) {
	retryConfig := retry.FromAppConfig(b.cfg)

	switch b.cfg.Database.Type {
	case "mysql":
		return b.initMySQL(ctx, retryConfig)
	case "mock", "":
		logger.Info("Using in-memory persistence layer", zap.Int("products", len(b.products)))
		store := memory.NewStore()
		return &repositories{
			promotions: memory.NewPromotionRepository(store),
			orders:     memory.NewOrderRepository(store),
			payments:   memory.NewPaymentRepository(store),
			products:   memory.NewProductCatalog(b.products...),
			uowFactory: memory.NewUnitOfWorkFactory(store, retryConfig),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %q", b.cfg.Database.Type)
	}
}

func (b *AppBuilder) initMySQL(ctx context.Context, retryConfig retry.Config) (*repositories, error) {
	logger.Info("Using MySQL/GORM persistence layer")

	db, err := NewMySQLConfig(b.cfg).Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if b.cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(ctx, db); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}

	products := mysql.NewProductRepository(db)
	if err := b.seedProducts(ctx, db, products); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &repositories{
		promotions: mysql.NewPromotionRepository(db),
		orders:     mysql.NewOrderRepository(db),
		payments:   mysql.NewPaymentRepository(db),
		products:   products,
		uowFactory: mysql.NewUnitOfWorkFactory(db, retryConfig),
		checkers:   map[string]health.Checker{"database": sqlDB},
		closers:    []func() error{sqlDB.Close},
	}, nil
}

func (b *AppBuilder) seedProducts(ctx context.Context, db *gorm.DB, products *mysql.ProductRepository) error {
	if len(b.products) == 0 {
		return nil
	}
	if err := products.Seed(ctx, b.products); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	logger.Info("Product catalog seeded",
		zap.Int("products", len(b.products)),
		zap.String("database", db.Migrator().CurrentDatabase()))
	return nil
}
