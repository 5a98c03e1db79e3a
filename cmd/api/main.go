package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockflow-pos-api/internal/backend"
	"stockflow-pos-api/internal/cache"
	"stockflow-pos-api/internal/config"
	"stockflow-pos-api/internal/handler"
	"stockflow-pos-api/internal/localstore"
	"stockflow-pos-api/internal/middleware"
	"stockflow-pos-api/internal/offline"
	"stockflow-pos-api/internal/repository"
	"stockflow-pos-api/internal/router"
	"stockflow-pos-api/internal/service"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting StockFlow POS API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize the on-device store (queue, snapshot, sync log)
	store, err := localstore.NewSQLiteStore(cfg.LocalStore.Path)
	if err != nil {
		log.Fatalf("Failed to initialize local store: %v", err)
	}
	defer store.Close()
	log.Println("Local store initialized")

	syncLog, err := repository.NewSQLiteSyncLogRepository(store.DB())
	if err != nil {
		log.Fatalf("Failed to initialize sync log: %v", err)
	}

	// Initialize the hosted MySQL backend. Startup must succeed even while
	// the backend is unreachable, so a failed ping is only a warning.
	mysqlDB, err := sql.Open("mysql", cfg.Backend.DSN())
	if err != nil {
		log.Fatalf("Failed to open MySQL: %v", err)
	}
	defer mysqlDB.Close()

	mysqlDB.SetMaxOpenConns(10)
	mysqlDB.SetMaxIdleConns(5)
	mysqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := mysqlDB.Ping(); err != nil {
		log.Printf("Warning: MySQL ping failed, starting offline: %v", err)
	} else {
		log.Println("MySQL backend initialized")
	}

	hostedBackend := backend.NewMySQLBackend(mysqlDB, cfg.Backend.AtomicDecrement)

	// Initialize Redis client (optional)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddress(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v", err)
		redisClient = nil
	} else {
		log.Println("Redis client initialized")
	}
	cancel()

	var tokenService *service.TokenService
	if redisClient != nil {
		tokenService = service.NewTokenService(redisClient)
	}

	var readCache cache.Cache
	var memCache *cache.MemoryCache
	if cfg.Cache.Type == "redis" && redisClient != nil {
		readCache = cache.NewRedisCache(redisClient)
		log.Println("Redis cache initialized")
	} else {
		memCache = cache.NewMemoryCache()
		readCache = memCache
		log.Println("Memory cache initialized")
	}

	// Offline subsystem: durable queue, product snapshot, sync engine
	queue := offline.NewQueue(store)
	snapshot := offline.NewProductCache(store)
	engine := offline.NewEngine(queue, hostedBackend, syncLog)

	monitor := offline.NewMonitor(
		hostedBackend.Ping,
		func(ctx context.Context) {
			engine.Sync(ctx, offline.TriggerOnline)
		},
		offline.MonitorConfig{
			Interval:     cfg.Sync.ProbeInterval,
			ProbeTimeout: cfg.Sync.ProbeTimeout,
		},
	)
	monitor.Start(context.Background())
	defer monitor.Stop()

	// Initialize services
	posService := service.NewPOSService(hostedBackend, queue, monitor.Online)
	catalogService := service.NewCatalogService(hostedBackend, snapshot, readCache)
	forecastService := service.NewForecastService(hostedBackend)

	// Initialize handlers
	healthHandler := handler.New(hostedBackend.Ping)
	posHandler := handler.NewPOSHandler(posService, catalogService)
	productHandler := handler.NewProductHandler(catalogService)
	salesHandler := handler.NewSalesHandler(hostedBackend)
	syncHandler := handler.NewSyncHandler(engine, queue, monitor, syncLog)
	forecastHandler := handler.NewForecastHandler(forecastService)

	var authHandler *handler.AuthHandler
	if tokenService != nil {
		authHandler = handler.NewAuthHandler(tokenService, hostedBackend)
	}

	// Create auth middleware with injected dependencies (NO GLOBALS!)
	authMiddleware := middleware.NewAuthMiddleware(middleware.AuthConfig{
		Sessions: tokenService,
	})

	// Create router
	r := router.New(router.Config{
		Handler:         healthHandler,
		AuthHandler:     authHandler,
		POSHandler:      posHandler,
		ProductHandler:  productHandler,
		SalesHandler:    salesHandler,
		SyncHandler:     syncHandler,
		ForecastHandler: forecastHandler,
		AuthMiddleware:  authMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if memCache != nil {
		memCache.Close()
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
