package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"household-help-server/models"
	"household-help-server/services"
)

// RegisterReviewRoutes registers review routes
func RegisterReviewRoutes(router *gin.RouterGroup, deps *Dependencies, authRequired gin.HandlerFunc) {
	h := &reviewHandler{reviews: deps.Reviews}

	router.POST("", authRequired, h.create)
	router.GET("/worker/:workerId", h.forWorker)
}

type reviewHandler struct {
	reviews *services.ReviewService
}

func (h *reviewHandler) create(c *gin.Context) {
	var req models.ReviewCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Review submitted successfully",
		"data":    review,
	})
}

func (h *reviewHandler) forWorker(c *gin.Context) {
	workerID, ok := parseIDParam(c, "workerId")
	if !ok {
		return
	}
	respondReviews(c, h.reviews, workerID)
}

func respondReviews(c *gin.Context, reviews *services.ReviewService, workerID uint) {
	list, err := reviews.GetReviewsByWorker(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, err, "Failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    list,
		"count":   len(list),
	})
}
