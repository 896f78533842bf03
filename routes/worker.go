package routes

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"household-help-server/models"
	"household-help-server/services"
)

const maxPhotoSize = 5 << 20

// RegisterWorkerRoutes registers worker directory and profile routes
func RegisterWorkerRoutes(router *gin.RouterGroup, deps *Dependencies, authRequired gin.HandlerFunc) {
	h := &workerHandler{
		workers:   deps.Workers,
		analytics: deps.Analytics,
		reviews:   deps.Reviews,
		media:     deps.Media,
	}

	// Public routes
	router.GET("", h.list)
	router.GET("/search", h.search)

	// Protected routes
	router.GET("/profile", authRequired, h.myProfile)
	router.POST("/profile", authRequired, h.createProfile)
	router.POST("/profile/photo", authRequired, h.uploadPhoto)
	router.GET("/profile/stats", authRequired, h.stats)

	router.GET("/:id", h.get)
	router.GET("/:id/reviews", h.reviewsFor)
}

type workerHandler struct {
	workers   *services.WorkerService
	analytics *services.WorkerAnalyticsService
	reviews   *services.ReviewService
	media     services.ImageUploader
}

func (h *workerHandler) list(c *gin.Context) {
	filter := services.WorkerFilter{
		City:     strings.TrimSpace(c.Query("city")),
		Category: strings.TrimSpace(c.Query("category")),
	}
	if raw := c.Query("min_rating"); raw != "" {
		minRating, ok := parseFloatQuery(c, "min_rating", raw)
		if !ok {
			return
		}
		filter.MinRating = &minRating
	}

	workers, err := h.workers.GetAllWorkers(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to fetch workers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    workers,
		"count":   len(workers),
	})
}

func (h *workerHandler) search(c *gin.Context) {
	search := services.WorkerSearch{
		Term:     c.Query("q"),
		City:     c.Query("city"),
		Category: strings.TrimSpace(c.Query("category")),
	}
	var ok bool
	if raw := c.Query("min_rating"); raw != "" {
		if search.MinRating, ok = parseFloatQuery(c, "min_rating", raw); !ok {
			return
		}
	}
	if raw := c.Query("max_rate"); raw != "" {
		if search.MaxRate, ok = parseFloatQuery(c, "max_rate", raw); !ok {
			return
		}
	}

	workers, err := h.workers.SearchWorkers(c.Request.Context(), search)
	if err != nil {
		respondError(c, err, "Failed to search workers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    workers,
		"count":   len(workers),
	})
}

func (h *workerHandler) get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	worker, err := h.workers.GetWorkerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to fetch worker profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    worker,
	})
}

func (h *workerHandler) reviewsFor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondReviews(c, h.reviews, id)
}

func (h *workerHandler) myProfile(c *gin.Context) {
	worker, err := h.workers.GetWorkerByUserID(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err, "Failed to fetch worker profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    worker,
	})
}

func (h *workerHandler) createProfile(c *gin.Context) {
	var req models.WorkerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	worker, err := h.workers.CreateWorkerProfile(c.Request.Context(), c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err, "Failed to create worker profile")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Worker profile created successfully",
		"data":    worker,
	})
}

func (h *workerHandler) uploadPhoto(c *gin.Context) {
	userID := c.GetUint("user_id")
	ctx := c.Request.Context()

	if _, err := h.workers.GetWorkerByUserID(ctx, userID); err != nil {
		respondError(c, err, "Failed to fetch worker profile")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request data",
			"message": "A photo file is required in the 'photo' field",
		})
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"success": false,
			"error":   "File too large",
			"message": "Profile photos must be 5MB or smaller",
		})
		return
	}
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Unsupported file type",
			"message": "Profile photos must be JPEG, PNG or WebP",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err, "Failed to read uploaded photo")
		return
	}
	defer file.Close()

	url, err := h.media.UploadProfileImage(ctx, userID, fileHeader.Filename, file)
	if err != nil {
		respondError(c, err, "Failed to upload photo")
		return
	}

	worker, err := h.workers.SetProfileImage(ctx, userID, url)
	if err != nil {
		respondError(c, err, "Failed to save profile photo")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile photo updated successfully",
		"data":    worker,
	})
}

func (h *workerHandler) stats(c *gin.Context) {
	stats, err := h.analytics.GetWorkerStats(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err, "Failed to fetch worker stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

func parseFloatQuery(c *gin.Context, name, raw string) (float64, bool) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid " + name,
			"message": name + " must be a non-negative number",
		})
		return 0, false
	}
	return value, true
}
