package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ksivaceg/product-management-portal-backend/common/logger"
	"github.com/ksivaceg/product-management-portal-backend/common/middleware"
	"github.com/ksivaceg/product-management-portal-backend/consumer"
	"github.com/ksivaceg/product-management-portal-backend/controllers"
	"github.com/ksivaceg/product-management-portal-backend/database"
	"github.com/ksivaceg/product-management-portal-backend/pkg/aws"
	"github.com/ksivaceg/product-management-portal-backend/repository"
	"github.com/ksivaceg/product-management-portal-backend/routes"
	"github.com/ksivaceg/product-management-portal-backend/services"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	logger.Initialize(os.Getenv("APP_ENV"))
	defer logger.Log.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	// --- 1. Infrastructure clients ---

	awsCfg, err := aws.LoadAWSConfig(context.Background())
	if err != nil {
		zap.L().Fatal("Failed to load AWS config", zap.Error(err))
	}
	objectStore := aws.NewObjectStore(awsCfg)
	queue := aws.NewQueue(awsCfg, cfg.QueueURL)

	var publisher aws.SNSPublisher
	if cfg.EventsTopicARN != "" {
		publisher = aws.NewSNSClient(awsCfg)
	}

	metrics, err := aws.NewMetricsClient(context.Background())
	if err != nil {
		zap.L().Warn("CloudWatch metrics unavailable", zap.Error(err))
		metrics = nil
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Failed to parse REDIS_URL, caching disabled", zap.Error(err))
		} else {
			redisClient = redis.NewClient(redisOpts)
		}
	}

	mongo := database.NewMongo(cfg.MongoURI, cfg.MongoDatabase)

	// --- 2. Dependency injection ---

	attributeRepo := repository.NewAttributeRepository(mongo, cfg.AttributesCollection)
	jobRepo := repository.NewJobRepository(mongo, cfg.JobsCollection)
	productRepo := repository.NewProductRepository(mongo, cfg.ProductsCollection)

	attributeService := services.NewAttributeService(attributeRepo)
	productService := services.NewProductService(productRepo, attributeRepo)
	enrichmentService := services.NewEnrichmentService(productRepo, attributeRepo)
	uploadService := services.NewUploadService(objectStore, services.UploadConfig{
		Bucket:    cfg.UploadBucket,
		KeyPrefix: cfg.UploadPrefix,
		URLExpiry: cfg.UploadURLExpiry,
	})
	jobService := services.NewJobService(queue, jobRepo, objectStore, services.JobServiceConfig{
		UploadBucket:    cfg.UploadBucket,
		ResultsBucket:   cfg.ResultsBucket,
		ResultURLExpiry: cfg.ResultURLExpiry,
		MaxPreviewRows:  cfg.MaxPreviewRows,
	})
	ingestionService := services.NewIngestionService(
		objectStore,
		jobRepo,
		attributeRepo,
		services.NewRowProcessor(services.NewCellValidator(cfg.ShortTextMaxLength)),
		publisher,
		metrics,
		services.IngestionConfig{
			ResultsBucket: cfg.ResultsBucket,
			ResultsPrefix: cfg.ResultsPrefix,
			EventsTopic:   cfg.EventsTopicARN,
		},
	)

	cache := controllers.NewCacheManager(redisClient)
	attributeController := controllers.NewAttributeController(attributeService)
	productController := controllers.NewProductController(productService, cache, metrics)
	uploadController := controllers.NewUploadController(uploadService)
	jobController := controllers.NewJobController(jobService)
	enrichmentController := controllers.NewEnrichmentController(enrichmentService)

	// --- 3. Queue consumer ---

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	ingestionConsumer := consumer.New(queue, ingestionService, metrics)
	go ingestionConsumer.Start(consumerCtx)

	// --- 4. HTTP server and middleware ---

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.Metrics(metrics))
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), controllers.DefaultContextTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, attributeController, productController, uploadController, jobController, enrichmentController)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if _, err := mongo.Database(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DEGRADED", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 5. Graceful shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Catalog portal backend starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down catalog portal backend...")

	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}
	if err := mongo.Close(shutdownCtx); err != nil {
		zap.L().Error("Failed to close MongoDB", zap.Error(err))
	}

	zap.L().Info("Catalog portal backend stopped gracefully")
}
