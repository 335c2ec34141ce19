package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-food-storefront/configs"
	"golang-food-storefront/internal/handlers"
	"golang-food-storefront/internal/middleware"
	"golang-food-storefront/internal/repositories"
	"golang-food-storefront/internal/services"
	"golang-food-storefront/pkg/auth"
	"golang-food-storefront/pkg/cache"
	"golang-food-storefront/pkg/database"
	"golang-food-storefront/pkg/logger"
	"golang-food-storefront/pkg/messaging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	config := configs.LoadConfig()
	log := logger.New(config.Logging.Level, config.Logging.Format)

	gin.SetMode(config.Server.Mode)

	db, err := database.NewDatabase(config.Database.PostgresURL, config.Database.MongoURL, config.Database.MongoDBName, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to databases")
	}
	defer db.Close()

	var redisCache *cache.RedisCache
	if config.Redis.URL != "" {
		redisCache, err = cache.NewRedisCache(config.Redis.URL, config.Redis.Password, config.Redis.DB)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer redisCache.Close()
		log.Info("Connected to Redis successfully")
	}

	cartStore, err := newCartStore(config.Store, db, redisCache)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize cart store")
	}
	log.WithField("driver", config.Store.Driver).Info("Cart store ready")

	kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers)
	defer kafkaProducer.Close()
	orderPublisher := messaging.NewOrderEventPublisher(kafkaProducer, config.Kafka.OrderTopic)

	jwtManager := auth.NewJWTManager(config.Session.Secret, config.Session.TokenTTLHours)

	// Services
	cartSessions := services.NewCartSessions(cartStore, log)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	if config.Store.SessionIdleTTL > 0 {
		go cartSessions.RunJanitor(janitorCtx, config.Store.SessionIdleTTL/2, config.Store.SessionIdleTTL)
	}
	checkoutService := services.NewCheckoutService(cartSessions, orderPublisher, log)

	var menuService handlers.MenuServiceInterface
	if db.MongoDB != nil {
		var menuCache services.Cache
		if redisCache != nil {
			menuCache = redisCache
		}
		menuService = services.NewMenuService(repositories.NewProductRepository(db.MongoDB), menuCache, log)
	}

	// Middleware
	sessionMiddleware := middleware.NewSessionMiddleware(jwtManager)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(jwtManager, cartSessions)
	cartHandler := handlers.NewCartHandler(cartSessions, checkoutService, menuService)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if redisCache != nil {
			if err := redisCache.Ping(c.Request.Context()); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":     status,
			"service":    "golang-food-storefront",
			"cart_store": config.Store.Driver,
			"menu":       menuService != nil,
		})
	})

	api := router.Group("/api/v1")
	sessionHandler.RegisterRoutes(api, sessionMiddleware)
	cartHandler.RegisterRoutes(api, sessionMiddleware)
	if menuService != nil {
		handlers.NewMenuHandler(menuService).RegisterRoutes(api)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(config.Server.Host, config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	waitForShutdown(srv, log)
}

func newCartStore(cfg configs.StoreConfig, db *database.Database, redisCache *cache.RedisCache) (repositories.CartStore, error) {
	switch cfg.Driver {
	case configs.StoreMemory:
		return repositories.NewMemoryCartStore(), nil
	case configs.StoreFile:
		return repositories.NewFileCartStore(cfg.FileDir)
	case configs.StoreRedis:
		if redisCache == nil {
			return nil, errors.New("redis cart store requires REDIS_URL")
		}
		return repositories.NewRedisCartStore(redisCache, cfg.TTL), nil
	case configs.StorePostgres:
		if db.Postgres == nil {
			return nil, errors.New("postgres cart store requires POSTGRES_URL")
		}
		return repositories.NewPostgresCartStore(db.Postgres), nil
	case configs.StoreMongo:
		if db.MongoDB == nil {
			return nil, errors.New("mongo cart store requires a reachable MONGO_URL")
		}
		return repositories.NewMongoCartStore(db.MongoDB), nil
	default:
		return nil, fmt.Errorf("unknown cart store %q", cfg.Driver)
	}
}

func waitForShutdown(srv *http.Server, log logrus.FieldLogger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}
