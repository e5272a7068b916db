package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/config"
	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/handler"
	"github.com/Pavel0504/crm-master-owl/internal/middleware"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting crm-master-owl service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate schema", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Background stock and deadline scans.
	scanCtx, stopScans := context.WithCancel(context.Background())
	go runAlertTicker(scanCtx, services.Alert, cfg.Alerts.ScanInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	stopScans()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func runAlertTicker(ctx context.Context, alerts *service.AlertService, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	alerts.RunScans(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			alerts.RunScans(ctx)
		}
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)

			authorized.GET("/shop", h.Shop.Get)
			authorized.PUT("/shop", h.Shop.Save)

			materials := authorized.Group("/materials")
			{
				materials.GET("", h.Material.List)
				materials.POST("", h.Material.Create)
				materials.GET("/:id", h.Material.Get)
				materials.PUT("/:id", h.Material.Update)
				materials.PUT("/:id/archive", h.Material.Archive)
				materials.DELETE("/:id", h.Material.Delete)
			}
			materialCategories := authorized.Group("/material-categories")
			{
				materialCategories.GET("", h.Material.ListCategories)
				materialCategories.POST("", h.Material.CreateCategory)
				materialCategories.PUT("/:id", h.Material.UpdateCategory)
				materialCategories.DELETE("/:id", h.Material.DeleteCategory)
			}

			inventory := authorized.Group("/inventory")
			{
				inventory.GET("", h.Inventory.List)
				inventory.POST("", h.Inventory.Create)
				inventory.GET("/:id", h.Inventory.Get)
				inventory.PUT("/:id", h.Inventory.Update)
				inventory.DELETE("/:id", h.Inventory.Delete)
			}
			inventoryCategories := authorized.Group("/inventory-categories")
			{
				inventoryCategories.GET("", h.Inventory.ListCategories)
				inventoryCategories.POST("", h.Inventory.CreateCategory)
				inventoryCategories.PUT("/:id", h.Inventory.UpdateCategory)
				inventoryCategories.DELETE("/:id", h.Inventory.DeleteCategory)
			}

			products := authorized.Group("/products")
			{
				products.GET("", h.Product.List)
				products.POST("", h.Product.Create)
				products.POST("/cost-preview", h.Product.CostPreview)
				products.GET("/:id", h.Product.Get)
				products.PUT("/:id", h.Product.Update)
				products.DELETE("/:id", h.Product.Delete)
			}
			productCategories := authorized.Group("/product-categories")
			{
				productCategories.GET("", h.Product.ListCategories)
				productCategories.POST("", h.Product.CreateCategory)
				productCategories.PUT("/:id", h.Product.UpdateCategory)
				productCategories.GET("/:id/inventory", h.Product.CategoryInventory)
				productCategories.DELETE("/:id", h.Product.DeleteCategory)
			}

			orders := authorized.Group("/orders")
			{
				orders.GET("", h.Order.List)
				orders.POST("", h.Order.Create)
				orders.GET("/export", h.Order.Export)
				orders.GET("/:id", h.Order.Get)
				orders.PUT("/:id", h.Order.Update)
				orders.DELETE("/:id", h.Order.Delete)
			}

			clients := authorized.Group("/clients")
			{
				clients.GET("", h.Client.List)
				clients.POST("", h.Client.Create)
				clients.GET("/:id", h.Client.Get)
				clients.GET("/:id/stats", h.Client.Stats)
				clients.PUT("/:id", h.Client.Update)
				clients.DELETE("/:id", h.Client.Delete)
			}

			suppliers := authorized.Group("/suppliers")
			{
				suppliers.GET("", h.Supplier.List)
				suppliers.POST("", h.Supplier.Create)
				suppliers.GET("/:id", h.Supplier.Get)
				suppliers.PUT("/:id", h.Supplier.Update)
				suppliers.DELETE("/:id", h.Supplier.Delete)
			}
			supplierCategories := authorized.Group("/supplier-categories")
			{
				supplierCategories.GET("", h.Supplier.ListCategories)
				supplierCategories.POST("", h.Supplier.CreateCategory)
				supplierCategories.PUT("/:id", h.Supplier.UpdateCategory)
				supplierCategories.DELETE("/:id", h.Supplier.DeleteCategory)
			}

			purchases := authorized.Group("/purchases")
			{
				purchases.GET("", h.Purchase.List)
				purchases.POST("", h.Purchase.Create)
				purchases.POST("/from-material", h.Purchase.CreateFromMaterial)
				purchases.GET("/:id", h.Purchase.Get)
				purchases.PUT("/:id", h.Purchase.Update)
				purchases.DELETE("/:id", h.Purchase.Delete)
			}

			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", h.Task.List)
				tasks.POST("", h.Task.Create)
				tasks.GET("/:id", h.Task.Get)
				tasks.PUT("/:id", h.Task.Update)
				tasks.PUT("/:id/complete", h.Task.Complete)
				tasks.DELETE("/:id", h.Task.Delete)
			}
			authorized.PUT("/checklist-items/:itemId", h.Task.CompleteChecklistItem)

			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/sales", h.Dashboard.Sales)
				dashboard.GET("/expenses", h.Dashboard.Expenses)
				dashboard.GET("/material-expenses", h.Dashboard.MaterialExpenses)
				dashboard.GET("/profit", h.Dashboard.Profit)
				dashboard.GET("/export", h.Dashboard.Export)
			}

			authorized.GET("/notifications", h.Notification.List)
		}
	}
}
