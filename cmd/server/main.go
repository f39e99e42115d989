// RetailCore backend server.
//
// @title           RetailCore API
// @version         1.0
// @description     Multi-branch retail inventory and point-of-sale backend.
//
// @contact.name   RetailCore Team
//
// @license.name  MIT
//
// @host      localhost:8080
// @BasePath  /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/retailcore/backend/docs"
	catalogapp "github.com/retailcore/backend/internal/application/catalog"
	eventapp "github.com/retailcore/backend/internal/application/event"
	identityapp "github.com/retailcore/backend/internal/application/identity"
	inventoryapp "github.com/retailcore/backend/internal/application/inventory"
	partnerapp "github.com/retailcore/backend/internal/application/partner"
	procurementapp "github.com/retailcore/backend/internal/application/procurement"
	salesapp "github.com/retailcore/backend/internal/application/sales"
	transferapp "github.com/retailcore/backend/internal/application/transfer"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/infrastructure/cache"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/retailcore/backend/internal/infrastructure/event"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/infrastructure/notification"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
	"github.com/retailcore/backend/internal/infrastructure/printing"
	"github.com/retailcore/backend/internal/infrastructure/scheduler"
	"github.com/retailcore/backend/internal/infrastructure/storage"
	"github.com/retailcore/backend/internal/infrastructure/telemetry"
	"github.com/retailcore/backend/internal/interfaces/http/handler"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
	"github.com/retailcore/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry providers no-op when disabled, so the wiring below is
	// unconditional and the config flag decides at runtime.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer provider shutdown failed", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("meter provider shutdown failed", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("failed to register database tracing", zap.Error(err))
		}
	}
	if cfg.Telemetry.Enabled {
		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("retailcore/db"), telemetry.DefaultDBMetricsConfig(), log)
		if err != nil {
			log.Warn("failed to initialize database metrics", zap.Error(err))
		} else if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
			log.Warn("failed to register database metrics plugin", zap.Error(err))
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	recordRepo := persistence.NewGormInventoryRecordRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	adjustmentRepo := persistence.NewGormAdjustmentRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	stockTransferRepo := persistence.NewGormStockTransferRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Events flow through the transactional outbox: workflow repositories
	// persist them in the same transaction as the aggregate, and the
	// processor republishes them on the in-memory bus after commit.
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)

	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	procurementScope := persistence.NewGormProcurementTransactionScope(db.DB)
	procurementScope.SetOutboxEventSaver(outboxPublisher)
	transferScope := persistence.NewGormTransferTransactionScope(db.DB)
	transferScope.SetOutboxEventSaver(outboxPublisher)
	salesScope := persistence.NewGormSalesTransactionScope(db.DB)
	salesScope.SetOutboxEventSaver(outboxPublisher)
	purchaseOrderRepo.SetOutboxEventSaver(outboxPublisher)
	stockTransferRepo.SetOutboxEventSaver(outboxPublisher)
	saleRepo.SetOutboxEventSaver(outboxPublisher)

	// Redis backs the token blacklist and the event idempotency store.
	// Both degrade to in-memory when redis is unreachable.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	var tokenBlacklist auth.TokenBlacklist
	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	pingCancel()

	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("failed to create idempotency store", zap.Error(err))
	}

	// Application services
	conflictRetries := cfg.Inventory.ConflictRetries

	productService := catalogapp.NewProductService(productRepo, categoryRepo, conflictRetries)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	branchService := partnerapp.NewBranchService(branchRepo, userRepo, conflictRetries)
	supplierService := partnerapp.NewSupplierService(supplierRepo, conflictRetries)
	ledgerService := inventoryapp.NewLedgerService(recordRepo, movementRepo, conflictRetries)
	adjustmentService := inventoryapp.NewAdjustmentService(inventoryScope, adjustmentRepo, conflictRetries)
	purchaseOrderService := procurementapp.NewPurchaseOrderService(
		purchaseOrderRepo, productRepo, supplierRepo, branchRepo,
		procurementScope, cfg.Procurement.AutoApproveThresholdAmount(), conflictRetries,
	)
	transferService := transferapp.NewTransferService(
		stockTransferRepo, productRepo, branchRepo, recordRepo,
		transferScope, conflictRetries,
	)
	saleService := salesapp.NewSaleService(
		saleRepo, productRepo, branchRepo,
		salesScope, cfg.Sales.TaxRateAmount(), conflictRetries,
	)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, branchRepo, log, conflictRetries)
	userService.SetNotifier(notification.NewLogNotifier(log))
	roleService := identityapp.NewRoleService(roleRepo, userRepo, log)

	if err := roleService.SeedSystemRoles(ctx); err != nil {
		log.Warn("failed to seed system roles", zap.Error(err))
	}

	// Object storage for product images
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Warn("failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Info("object storage disabled, product image uploads unavailable")
		objectStorage = storage.NewStubObjectStorage()
	}
	productService.SetObjectStorage(objectStorage)

	// Receipt rendering
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		Headless:   true,
		DisableGPU: true,
		NoSandbox:  true,
	})
	if err != nil {
		log.Warn("failed to initialize PDF renderer, receipts unavailable", zap.Error(err))
	} else {
		defer renderer.Close()
		receiptPrinter, err := printing.NewReceiptPrinter(renderer, printing.ReceiptPrinterConfig{
			StoreName: cfg.App.Name,
		}, log)
		if err != nil {
			log.Warn("failed to initialize receipt printer", zap.Error(err))
		} else {
			saleService.SetReceiptRenderer(receiptPrinter)
		}
	}

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	lowStockHandler := inventoryapp.NewLowStockHandler(log)
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		businessMetrics, err = telemetry.NewBusinessMetrics(
			meterProvider.Meter("retailcore/business"),
			telemetry.NewGormBranchStockProvider(db.DB),
			telemetry.NewGormBranchProvider(db.DB),
			log,
		)
		if err != nil {
			log.Warn("failed to initialize business metrics", zap.Error(err))
		} else {
			lowStockHandler.WithMetrics(businessMetrics)
			businessMetrics.StartPeriodicCollection(ctx, time.Minute)
			defer businessMetrics.Stop()
		}
	}
	eventBus.Subscribe(event.NewIdempotentHandler(lowStockHandler, idempotencyStore, log))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			log.Warn("event bus shutdown failed", zap.Error(err))
		}
	}()

	productService.SetEventPublisher(eventBus)
	categoryService.SetEventPublisher(eventBus)
	branchService.SetEventPublisher(eventBus)
	supplierService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)
	ledgerService.SetEventPublisher(eventBus)
	adjustmentService.SetEventPublisher(eventBus)

	if cfg.Event.ProcessorEnabled {
		// The scheduler owns outbox cleanup when it is running; the
		// processor's inline cleanup only covers deployments without it.
		processorCfg := event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled && !cfg.Scheduler.Enabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  time.Hour,
		}
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorCfg, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := outboxProcessor.Stop(stopCtx); err != nil {
				log.Warn("outbox processor shutdown failed", zap.Error(err))
			}
		}()
	}

	// Background jobs: reorder-point scan and outbox cleanup
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewBackgroundJobExecutor(ledgerService, outboxRepo, scheduler.JobExecutorConfig{
			OutboxRetention: cfg.Event.CleanupRetention,
		}, log)
		schedulerCfg := scheduler.DefaultSchedulerConfig()
		schedulerCfg.JobTimeout = cfg.Scheduler.JobTimeout
		schedulerCfg.RetryAttempts = cfg.Scheduler.RetryAttempts
		schedulerCfg.RetryDelay = cfg.Scheduler.RetryDelay
		sched := scheduler.NewScheduler(schedulerCfg, executor, log)
		if err := sched.Start(ctx); err != nil {
			log.Fatal("failed to start scheduler", zap.Error(err))
		}
		triggerCfg := scheduler.DefaultTickerTriggerConfig()
		triggerCfg.ReorderScanInterval = cfg.Scheduler.ReorderScanInterval
		trigger := scheduler.NewTickerTrigger(triggerCfg, sched, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("failed to start job trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer stopCancel()
			if err := trigger.Stop(stopCtx); err != nil {
				log.Warn("job trigger shutdown failed", zap.Error(err))
			}
			if err := sched.Stop(stopCtx); err != nil {
				log.Warn("scheduler shutdown failed", zap.Error(err))
			}
		}()
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))

	// Routes registered before the JWT middleware stay public.
	engine.GET("/health", healthHandler(db, log))

	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	})

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:     cfg.Swagger.Enabled,
				RequireAuth: cfg.Swagger.RequireAuth,
				AllowedIPs:  cfg.Swagger.AllowedIPs,
			}, jwtMiddleware),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	engine.Use(jwtMiddleware)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	branchHandler := handler.NewBranchHandler(branchService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	inventoryHandler := handler.NewInventoryHandler(ledgerService, adjustmentService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(purchaseOrderService)
	transferHandler := handler.NewTransferHandler(transferService)
	saleHandler := handler.NewSaleHandler(saleService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	authGroup := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authGroup.Use(middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return c.ClientIP()
		}))
	}
	authGroup.
		POST("/login", authHandler.Login).
		POST("/refresh", authHandler.Refresh).
		POST("/logout", authHandler.Logout).
		GET("/me", authHandler.Me).
		PUT("/password", authHandler.ChangePassword)

	catalogGroup := router.NewDomainGroup("catalog", "/catalog")
	catalogGroup.
		GET("/categories", middleware.RequirePermission(identity.CapabilityProductRead), categoryHandler.List).
		POST("/categories", middleware.RequirePermission(identity.CapabilityProductManage), categoryHandler.Create).
		GET("/categories/:id", middleware.RequirePermission(identity.CapabilityProductRead), categoryHandler.Get).
		PUT("/categories/:id", middleware.RequirePermission(identity.CapabilityProductManage), categoryHandler.Update).
		DELETE("/categories/:id", middleware.RequirePermission(identity.CapabilityProductManage), categoryHandler.Delete).
		GET("/products", middleware.RequirePermission(identity.CapabilityProductRead), productHandler.List).
		POST("/products", middleware.RequirePermission(identity.CapabilityProductManage), productHandler.Create).
		GET("/products/sku/:sku", middleware.RequirePermission(identity.CapabilityProductRead), productHandler.GetBySKU).
		GET("/products/barcode/:barcode", middleware.RequirePermission(identity.CapabilityProductRead), productHandler.GetByBarcode).
		GET("/products/:id", middleware.RequirePermission(identity.CapabilityProductRead), productHandler.Get).
		PUT("/products/:id", middleware.RequirePermission(identity.CapabilityProductManage), productHandler.Update).
		POST("/products/:id/activate", middleware.RequirePermission(identity.CapabilityProductManage), productHandler.Activate).
		POST("/products/:id/deactivate", middleware.RequirePermission(identity.CapabilityProductManage), productHandler.Deactivate).
		POST("/products/:id/image/upload", middleware.RequirePermission(identity.CapabilityProductManage), productHandler.InitiateImageUpload).
		POST("/products/:id/image/confirm", middleware.RequirePermission(identity.CapabilityProductManage), productHandler.ConfirmImageUpload).
		PUT("/products/:id/low-stock-threshold", middleware.RequirePermission(identity.CapabilityProductManage), productHandler.SetLowStockThreshold)

	partnerGroup := router.NewDomainGroup("partner", "/partner")
	partnerGroup.
		GET("/branches", branchHandler.List).
		POST("/branches", middleware.RequirePermission(identity.CapabilityBranchManage), branchHandler.Create).
		GET("/branches/:id", branchHandler.Get).
		PUT("/branches/:id", middleware.RequirePermission(identity.CapabilityBranchManage), branchHandler.Update).
		POST("/branches/:id/activate", middleware.RequirePermission(identity.CapabilityBranchManage), branchHandler.Activate).
		POST("/branches/:id/deactivate", middleware.RequirePermission(identity.CapabilityBranchManage), branchHandler.Deactivate).
		PUT("/branches/:id/manager", middleware.RequirePermission(identity.CapabilityBranchManage), branchHandler.AssignManager).
		GET("/suppliers", supplierHandler.List).
		POST("/suppliers", middleware.RequirePermission(identity.CapabilitySupplierManage), supplierHandler.Create).
		GET("/suppliers/:id", supplierHandler.Get).
		PUT("/suppliers/:id", middleware.RequirePermission(identity.CapabilitySupplierManage), supplierHandler.Update).
		POST("/suppliers/:id/activate", middleware.RequirePermission(identity.CapabilitySupplierManage), supplierHandler.Activate).
		POST("/suppliers/:id/deactivate", middleware.RequirePermission(identity.CapabilitySupplierManage), supplierHandler.Deactivate)

	inventoryGroup := router.NewDomainGroup("inventory", "/inventory")
	inventoryGroup.
		GET("/records", middleware.RequirePermission(identity.CapabilityInventoryRead), inventoryHandler.ListRecords).
		GET("/records/:branch_id/:product_id", middleware.RequirePermission(identity.CapabilityInventoryRead), inventoryHandler.GetRecord).
		PUT("/records/reorder-point", middleware.RequirePermission(identity.CapabilityInventoryAdjust), inventoryHandler.SetReorderPoint).
		PUT("/records/bin-location", middleware.RequirePermission(identity.CapabilityInventoryAdjust), inventoryHandler.SetBinLocation).
		GET("/low-stock/:branch_id", middleware.RequirePermission(identity.CapabilityInventoryRead), inventoryHandler.ListLowStock).
		GET("/movements", middleware.RequirePermission(identity.CapabilityInventoryRead), inventoryHandler.ListMovements).
		POST("/adjustments", middleware.RequirePermission(identity.CapabilityInventoryAdjust), inventoryHandler.Adjust).
		GET("/adjustments", middleware.RequireAnyPermission(identity.CapabilityInventoryAdjust, identity.CapabilityInventoryAudit), inventoryHandler.AdjustmentHistory)

	procurementGroup := router.NewDomainGroup("procurement", "/procurement")
	procurementGroup.
		GET("/orders", middleware.RequirePermission(identity.CapabilityProcurementRead), purchaseOrderHandler.List).
		POST("/orders", middleware.RequirePermission(identity.CapabilityProcurementCreate), purchaseOrderHandler.Create).
		GET("/orders/number/:number", middleware.RequirePermission(identity.CapabilityProcurementRead), purchaseOrderHandler.GetByNumber).
		GET("/orders/:id", middleware.RequirePermission(identity.CapabilityProcurementRead), purchaseOrderHandler.Get).
		POST("/orders/:id/approve", middleware.RequirePermission(identity.CapabilityProcurementApprove), purchaseOrderHandler.Approve).
		POST("/orders/:id/reject", middleware.RequirePermission(identity.CapabilityProcurementApprove), purchaseOrderHandler.Reject).
		POST("/orders/:id/cancel", middleware.RequireAnyPermission(identity.CapabilityProcurementCreate, identity.CapabilityProcurementApprove), purchaseOrderHandler.Cancel).
		POST("/orders/:id/receive", middleware.RequirePermission(identity.CapabilityProcurementReceive), purchaseOrderHandler.Receive)

	transferGroup := router.NewDomainGroup("transfers", "/transfers")
	transferGroup.
		GET("", middleware.RequirePermission(identity.CapabilityTransferRead), transferHandler.List).
		POST("", middleware.RequirePermission(identity.CapabilityTransferRequest), transferHandler.Request).
		GET("/number/:number", middleware.RequirePermission(identity.CapabilityTransferRead), transferHandler.GetByNumber).
		GET("/:id", middleware.RequirePermission(identity.CapabilityTransferRead), transferHandler.Get).
		POST("/:id/approve", middleware.RequirePermission(identity.CapabilityTransferApprove), transferHandler.Approve).
		POST("/:id/reject", middleware.RequirePermission(identity.CapabilityTransferApprove), transferHandler.Reject).
		POST("/:id/cancel", middleware.RequirePermission(identity.CapabilityTransferRequest), transferHandler.Cancel).
		POST("/:id/ship", middleware.RequirePermission(identity.CapabilityTransferShip), transferHandler.Ship).
		POST("/:id/receive", middleware.RequirePermission(identity.CapabilityTransferReceive), transferHandler.Receive)

	salesGroup := router.NewDomainGroup("sales", "/sales")
	salesGroup.
		GET("", middleware.RequirePermission(identity.CapabilitySalesRead), saleHandler.List).
		POST("/checkout", middleware.RequirePermission(identity.CapabilitySalesCreate), saleHandler.Checkout).
		GET("/number/:number", middleware.RequirePermission(identity.CapabilitySalesRead), saleHandler.GetByNumber).
		GET("/summary/:branch_id", middleware.RequirePermission(identity.CapabilitySalesRead), saleHandler.DailySummary).
		GET("/:id", middleware.RequirePermission(identity.CapabilitySalesRead), saleHandler.Get).
		POST("/:id/cancel", middleware.RequirePermission(identity.CapabilitySalesCancel), saleHandler.Cancel).
		GET("/:id/receipt", middleware.RequirePermission(identity.CapabilitySalesRead), saleHandler.Receipt)

	identityGroup := router.NewDomainGroup("identity", "/identity")
	identityGroup.
		GET("/users", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.List).
		POST("/users", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.Create).
		GET("/users/:id", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.Get).
		PUT("/users/:id", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.Update).
		PUT("/users/:id/role", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.AssignRole).
		PUT("/users/:id/branch", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.TransferBranch).
		PUT("/users/:id/password", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.ResetPassword).
		POST("/users/:id/activate", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.Activate).
		POST("/users/:id/deactivate", middleware.RequirePermission(identity.CapabilityUserManage), userHandler.Deactivate).
		GET("/roles", middleware.RequirePermission(identity.CapabilityRoleManage), roleHandler.List).
		POST("/roles", middleware.RequirePermission(identity.CapabilityRoleManage), roleHandler.Create).
		GET("/roles/:id", middleware.RequirePermission(identity.CapabilityRoleManage), roleHandler.Get).
		PUT("/roles/:id", middleware.RequirePermission(identity.CapabilityRoleManage), roleHandler.Update).
		DELETE("/roles/:id", middleware.RequirePermission(identity.CapabilityRoleManage), roleHandler.Delete).
		PUT("/roles/:id/capabilities", middleware.RequirePermission(identity.CapabilityRoleManage), roleHandler.SetCapabilities)

	systemGroup := router.NewDomainGroup("system", "/system")
	systemGroup.
		GET("/ping", systemHandler.Ping).
		GET("/info", systemHandler.GetSystemInfo).
		GET("/outbox/stats", middleware.RequirePermission(identity.CapabilityRoleManage), outboxHandler.GetStats).
		GET("/outbox/dead", middleware.RequirePermission(identity.CapabilityRoleManage), outboxHandler.GetDeadLetterEntries).
		POST("/outbox/dead/retry-all", middleware.RequirePermission(identity.CapabilityRoleManage), outboxHandler.RetryAllDeadEntries).
		GET("/outbox/:id", middleware.RequirePermission(identity.CapabilityRoleManage), outboxHandler.GetEntry).
		POST("/outbox/:id/retry", middleware.RequirePermission(identity.CapabilityRoleManage), outboxHandler.RetryDeadEntry)

	r.Register(authGroup).
		Register(catalogGroup).
		Register(partnerGroup).
		Register(inventoryGroup).
		Register(procurementGroup).
		Register(transferGroup).
		Register(salesGroup).
		Register(identityGroup).
		Register(systemGroup)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.App.Port),
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	cancel()

	log.Info("server stopped")
}

// healthHandler reports liveness including database connectivity.
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
