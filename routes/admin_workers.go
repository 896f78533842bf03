package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"household-help-server/models"
	"household-help-server/services"
)

// RegisterAdminWorkerRoutes registers admin worker management routes. Callers must attach the admin role check.
func RegisterAdminWorkerRoutes(router *gin.RouterGroup, deps *Dependencies) {
	h := &adminWorkerHandler{workers: deps.Workers}

	router.PATCH("/workers/:id/verification", h.setVerification)
}

type adminWorkerHandler struct {
	workers *services.WorkerService
}

func (h *adminWorkerHandler) setVerification(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.VerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	worker, err := h.workers.SetVerificationStatus(c.Request.Context(), id, req.Status, req.PoliceVerification)
	if err != nil {
		respondError(c, err, "Failed to update verification status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Worker verification status updated to " + string(worker.VerificationStatus),
		"data":    worker,
	})
}
