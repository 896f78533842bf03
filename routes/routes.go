package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"household-help-server/middleware"
	"household-help-server/models"
	"household-help-server/services"
	"household-help-server/websocket"
)

// Dependencies holds everything the HTTP handlers need
type Dependencies struct {
	DB            *gorm.DB
	JWTSecret     string
	Auth          *services.AuthService
	JWT           *services.JWTService
	Workers       *services.WorkerService
	Analytics     *services.WorkerAnalyticsService
	Bookings      *services.BookingService
	Reviews       *services.ReviewService
	Notifications *services.NotificationService
	Media         services.ImageUploader
	Hub           *websocket.Hub
	RateLimiter   *middleware.RateLimiter
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps *Dependencies) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	authRequired := middleware.AuthMiddleware(deps.DB, deps.JWTSecret)

	apiV1 := router.Group("/api/v1")
	{
		RegisterAuthRoutes(apiV1.Group("/auth"), deps, authRequired)
		RegisterWorkerRoutes(apiV1.Group("/workers"), deps, authRequired)
		RegisterBookingRoutes(apiV1.Group("/bookings", authRequired), deps)
		RegisterReviewRoutes(apiV1.Group("/reviews"), deps, authRequired)
		RegisterNotificationRoutes(apiV1.Group("/notifications", authRequired), deps)
		RegisterAdminWorkerRoutes(apiV1.Group("/admin", authRequired, middleware.RequireRole(models.RoleAdmin)), deps)

		apiV1.GET("/ws", middleware.WebSocketAuthMiddleware(deps.DB, deps.JWTSecret), serveWebSocket(deps))
	}
}
