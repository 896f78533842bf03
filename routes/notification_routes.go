package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"household-help-server/models"
	"household-help-server/services"
	"household-help-server/websocket"
)

// RegisterNotificationRoutes registers in-app notification and device token routes
func RegisterNotificationRoutes(router *gin.RouterGroup, deps *Dependencies) {
	h := &notificationHandler{notifications: deps.Notifications}

	router.GET("", h.list)
	router.POST("/:id/read", h.markRead)
	router.POST("/push-token", h.registerPushToken)
}

type notificationHandler struct {
	notifications *services.NotificationService
}

func (h *notificationHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.notifications.ListForUser(c.Request.Context(), c.GetUint("user_id"), limit)
	if err != nil {
		respondError(c, err, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
		"count":   len(notifications),
	})
}

func (h *notificationHandler) markRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), c.GetUint("user_id"), id); err != nil {
		respondError(c, err, "Failed to update notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Notification marked as read",
	})
}

func (h *notificationHandler) registerPushToken(c *gin.Context) {
	var req models.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, err := h.notifications.RegisterPushToken(c.Request.Context(), c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err, "Failed to register push token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Push token registered",
		"data":    token,
	})
}

func serveWebSocket(deps *Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The upgrader writes its own error response
		_ = websocket.ServeWebSocket(deps.Hub, c.Writer, c.Request, c.GetUint("user_id"), c.GetString("user_role"))
	}
}
