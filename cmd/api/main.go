// estore-apis 后台服务入口
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	categoryhttp "github.com/annaylee/estore-apis/internal/category/interfaces/http"
	orderhttp "github.com/annaylee/estore-apis/internal/order/interfaces/http"
	producthttp "github.com/annaylee/estore-apis/internal/product/interfaces/http"
	userhttp "github.com/annaylee/estore-apis/internal/user/interfaces/http"

	categoryapp "github.com/annaylee/estore-apis/internal/category/application"
	orderapp "github.com/annaylee/estore-apis/internal/order/application"
	productapp "github.com/annaylee/estore-apis/internal/product/application"
	userapp "github.com/annaylee/estore-apis/internal/user/application"

	categorymysql "github.com/annaylee/estore-apis/internal/category/infrastructure/persistence/mysql"
	"github.com/annaylee/estore-apis/internal/order/infrastructure/adapters"
	"github.com/annaylee/estore-apis/internal/order/infrastructure/messaging"
	ordermysql "github.com/annaylee/estore-apis/internal/order/infrastructure/persistence/mysql"
	productmysql "github.com/annaylee/estore-apis/internal/product/infrastructure/persistence/mysql"
	"github.com/annaylee/estore-apis/internal/product/infrastructure/storage"
	usermysql "github.com/annaylee/estore-apis/internal/user/infrastructure/persistence/mysql"

	categorydomain "github.com/annaylee/estore-apis/internal/category/domain"
	orderdomain "github.com/annaylee/estore-apis/internal/order/domain"
	productdomain "github.com/annaylee/estore-apis/internal/product/domain"
	userdomain "github.com/annaylee/estore-apis/internal/user/domain"

	"github.com/annaylee/estore-apis/pkg/cache"
	"github.com/annaylee/estore-apis/pkg/config"
	"github.com/annaylee/estore-apis/pkg/db"
	"github.com/annaylee/estore-apis/pkg/logger"
	"github.com/annaylee/estore-apis/pkg/metrics"
	"github.com/annaylee/estore-apis/pkg/middleware"
	"github.com/annaylee/estore-apis/pkg/mq"
	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "database init failed", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&categorydomain.Category{},
		&productdomain.Product{},
		&userdomain.User{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&messaging.OutboxMessage{},
	); err != nil {
		logger.Fatal(ctx, "auto migrate failed", "error", err)
	}

	// Redis 可选，未启用时商品读缓存退化为直查数据库
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.New(cache.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxPoolSize:  cfg.Redis.MaxPoolSize,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			logger.Fatal(ctx, "redis init failed", "error", err)
		}
		defer redisCache.Close()
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.ServiceName)
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "metrics register failed", "error", err)
		}
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "metrics server failed", "error", err)
		}
	}

	// 仓储
	categoryRepo := categorymysql.NewCategoryRepository(database.DB)
	productRepo := productmysql.NewProductRepository(database.DB)
	userRepo := usermysql.NewUserRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)

	// 应用服务
	categorySvc := categoryapp.NewCategoryService(categoryRepo)
	productCache := productapp.NewReadCache(redisCache)
	productCommands := productapp.NewProductCommandService(productRepo, categoryRepo, productCache)
	productQueries := productapp.NewProductQueryService(productRepo, productCache)
	userSvc := userapp.NewUserService(userRepo, cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)

	productReader := adapters.NewProductCatalogReader(productQueries)
	userReader := adapters.NewUserDirectoryReader(userSvc)

	// Kafka 可选，未配置 broker 时订单事件仅落 outbox 表
	var publisher orderdomain.EventPublisher = messaging.NewOutboxPublisher(database.DB)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		if err != nil {
			logger.Fatal(ctx, "kafka producer init failed", "error", err)
		}
		defer producer.Close()

		relay := messaging.NewOutboxRelay(database.DB, producer, cfg.Kafka.OrderTopic, time.Duration(cfg.Kafka.RelayInterval)*time.Second)
		go relay.Start(ctx)
	}

	orderCommands := orderapp.NewOrderCommandService(orderRepo, productReader, database, publisher, m)
	orderQueries := orderapp.NewOrderQueryService(orderRepo, productReader, userReader)

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		logger.Fatal(ctx, "uploads storage init failed", "error", err)
	}

	router := buildRouter(cfg, m, uploads,
		categoryhttp.NewCategoryHandler(categorySvc),
		producthttp.NewProductHandler(productCommands, productQueries, uploads),
		userhttp.NewUserHandler(userSvc),
		orderhttp.NewOrderHandler(orderCommands, orderQueries),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server started", "addr", srv.Addr, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "HTTP server shutdown failed", "error", err)
	}
	logger.Info(context.Background(), "server exited")
}

// buildRouter 组装 gin 路由：public 无鉴权，authed 要求登录，admin 要求管理员
func buildRouter(cfg *config.Config, m *metrics.Metrics, uploads *storage.LocalStorage,
	categoryHandler *categoryhttp.CategoryHandler,
	productHandler *producthttp.ProductHandler,
	userHandler *userhttp.UserHandler,
	orderHandler *orderhttp.OrderHandler,
) *gin.Engine {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Uploads.MaxSizeMB) << 20
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinLoggingMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	if m != nil {
		router.Use(middleware.GinMetricsMiddleware(m))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName, "version": cfg.Version})
	})
	// 上传的商品图片静态托管
	router.Static("/public/uploads", uploads.Dir())

	api := router.Group(cfg.APIPrefix)
	public := api.Group("")
	authed := api.Group("", middleware.RequireAuth(cfg.Auth.Secret))
	admin := api.Group("", middleware.RequireAuth(cfg.Auth.Secret), middleware.RequireAdmin())

	categoryHandler.RegisterRoutes(authed, admin)
	productHandler.RegisterRoutes(authed, admin)
	userHandler.RegisterRoutes(public, authed, admin)
	orderHandler.RegisterRoutes(authed, admin)

	return router
}
