package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prodledger/prodledger/internal/api/handlers"
	"github.com/prodledger/prodledger/internal/application"
	"github.com/prodledger/prodledger/internal/domain"
	"github.com/prodledger/prodledger/internal/infrastructure/media"
	mongoRepo "github.com/prodledger/prodledger/internal/infrastructure/mongodb"
	"github.com/prodledger/prodledger/internal/infrastructure/notify"
	"github.com/prodledger/prodledger/internal/platform/config"
	"github.com/prodledger/prodledger/internal/platform/logging"
	"github.com/prodledger/prodledger/internal/platform/metrics"
	"github.com/prodledger/prodledger/internal/platform/middleware"
	"github.com/prodledger/prodledger/internal/platform/mongodb"
	"github.com/prodledger/prodledger/internal/platform/token"
	"github.com/prodledger/prodledger/internal/platform/tracing"
)

const serviceName = "prodledger-api"

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logging.New(logging.DefaultConfig(serviceName)).WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(cfg.LogLevel)
	logConfig.Environment = cfg.Environment
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting prodledger API")

	ctx := context.Background()

	// OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = cfg.Tracing.OTLPEndpoint
	tracingConfig.SampleRate = cfg.Tracing.SampleRate
	tracingConfig.Environment = cfg.Environment
	tracingConfig.Enabled = cfg.Tracing.Enabled

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		if cfg.Tracing.Enabled {
			logger.Info("Tracing initialized", "endpoint", cfg.Tracing.OTLPEndpoint)
		}
	}

	// Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))

	// MongoDB
	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", cfg.MongoDB.Database)

	// Repositories
	userRepo := mongoRepo.NewUserRepository(mongoClient, logger, m)
	productRepo := mongoRepo.NewProductRepository(mongoClient, logger, m)
	shipmentRepo := mongoRepo.NewShipmentRepository(mongoClient, logger, m)
	uow := mongoRepo.NewUnitOfWork(mongoClient)

	indexCtx, cancelIndex := context.WithTimeout(ctx, 30*time.Second)
	defer cancelIndex()
	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		productRepo.EnsureIndexes,
		shipmentRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.WithError(err).Error("Failed to create indexes")
			os.Exit(1)
		}
	}

	// Admin notification channel
	var notifier domain.Notifier
	if cfg.Kafka.Enabled {
		notifier = notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic, logger, m)
		logger.Info("Kafka notifier initialized", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.NotificationsTopic)
	} else {
		notifier = notify.NewLogNotifier(logger)
	}
	defer notifier.Close()

	// Media store
	mediaStore := media.NewCloudinaryStore(media.Config{
		CloudName: cfg.Media.CloudName,
		APIKey:    cfg.Media.APIKey,
		APISecret: cfg.Media.APISecret,
		BaseURL:   cfg.Media.BaseURL,
	}, logger, m)

	// Token manager
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, serviceName)

	// Application services
	shipmentService := application.NewShipmentService(shipmentRepo, productRepo, userRepo, uow, notifier, logger, m)
	productService := application.NewProductService(productRepo, mediaStore, logger)
	userService := application.NewUserService(userRepo, logger)
	authService := application.NewAuthService(userRepo, tokens, logger)
	reportService := application.NewReportService(shipmentRepo, logger)

	// Router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.TracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// Public routes
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", handlers.Login(authService, logger))
		auth.POST("/reset-password", handlers.ResetPassword(authService, logger))
	}

	// Authenticated routes
	api := router.Group("/api")
	api.Use(middleware.Authenticate(tokens))
	{
		api.GET("/myshipments", handlers.ListMyShipments(shipmentService, logger))
		api.GET("/myproducts", handlers.ListMyProducts(productService, logger))
		api.GET("/profile", handlers.GetProfile(userService, logger))
		api.PUT("/profile", handlers.UpdateProfile(userService, logger))

		shipments := api.Group("/shipments")
		{
			shipments.POST("", handlers.CreateShipment(shipmentService, logger))
			shipments.GET("/:id", handlers.GetShipment(shipmentService, logger))
			shipments.PUT("/:id/edit", handlers.EditShipment(shipmentService, logger))
		}

		products := api.Group("/products")
		{
			products.POST("", handlers.CreateProduct(productService, logger))
			products.GET("/:id", handlers.GetProduct(productService, logger))
			products.PUT("/:id", handlers.UpdateProduct(productService, logger))
			products.DELETE("/:id", handlers.DeleteProduct(productService, logger))
		}

		// Admin reconciliation surface
		admin := api.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("/shipments", handlers.ListAllShipments(shipmentService, logger))
			admin.PUT("/shipments/:id", handlers.TransitionShipment(shipmentService, logger))
			admin.GET("/products", handlers.ListAllProducts(productService, logger))
			admin.GET("/reports", handlers.SenderReport(reportService, logger))
			admin.GET("/stats/weekly", handlers.WeeklyStats(reportService, logger))

			admin.GET("/users", handlers.ListUsers(userService, logger))
			admin.POST("/users", handlers.CreateUser(userService, logger))
			admin.GET("/users/:id", handlers.GetUser(userService, logger))
			admin.PUT("/users/:id", handlers.UpdateUser(userService, logger))
			admin.DELETE("/users/:id", handlers.DeleteUser(userService, logger))
		}
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}
