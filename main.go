package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"household-help-server/config"
	"household-help-server/database"
	"household-help-server/jobs"
	"household-help-server/middleware"
	"household-help-server/routes"
	"household-help-server/services"
	"household-help-server/utils"
	ws "household-help-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.Load()
	cfg := config.AppConfig

	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.RegisterValidators()

	if err := database.Initialize(cfg.Database); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	db := database.GetDB()

	ctx, shutdown := utils.NewShutdownManager(context.Background(), 15*time.Second)
	shutdown.Register(func(context.Context) error {
		return database.Close()
	})

	if cfg.Server.SeedTestData {
		if err := seedTestWorkers(db); err != nil {
			log.Printf("⚠️ Seeding test workers failed: %v", err)
		}
	}

	var workerCache services.WorkerCache
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Invalid REDIS_URL:", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("⚠️ Redis unreachable, worker listings will hit the database: %v", err)
		}
		workerCache = services.NewRedisWorkerCache(client, time.Duration(cfg.Redis.WorkerCacheTTL)*time.Second)
		shutdown.Register(func(context.Context) error {
			return client.Close()
		})
		log.Println("✅ Worker cache enabled")
	}

	// WebSocket hub for live booking events
	hub := ws.NewHub()
	go hub.Run(ctx)

	var push services.PushSender
	if cfg.Push.Enabled {
		push = services.NewExpoPushClient(cfg.Push.ExpoURL)
	}

	media, err := services.NewMediaService(cfg.Cloudinary)
	if err != nil {
		log.Fatal("Failed to initialize media service:", err)
	}

	jwtService := services.NewJWTService(db, cfg.JWT)
	workerService := services.NewWorkerService(db, workerCache)
	notificationService := services.NewNotificationService(db, hub, push)

	rateLimiter := middleware.NewRateLimiter()
	go rateLimiter.RunCleanup(ctx, 10*time.Minute)

	deps := &routes.Dependencies{
		DB:            db,
		JWTSecret:     cfg.JWT.Secret,
		Auth:          services.NewAuthService(db, jwtService),
		JWT:           jwtService,
		Workers:       workerService,
		Analytics:     services.NewWorkerAnalyticsService(db, workerService),
		Bookings:      services.NewBookingService(db, notificationService),
		Reviews:       services.NewReviewService(db, workerCache),
		Notifications: notificationService,
		Media:         media,
		Hub:           hub,
		RateLimiter:   rateLimiter,
	}

	// Start token cleanup job
	cleanupJob := jobs.NewTokenCleanupJob(jwtService, cfg.Jobs.TokenCleanupSchedule)
	if err := cleanupJob.Start(); err != nil {
		log.Fatal("Failed to start token cleanup job:", err)
	}
	shutdown.Register(cleanupJob.Stop)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware(rateLimiter))
	router.Use(middleware.AuditLogMiddleware())

	routes.RegisterRoutes(router, deps)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	shutdown.Register(server.Shutdown)

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	shutdown.Wait(ctx)
}
