package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"household-help-server/services"
	"household-help-server/utils"
)

// respondError maps a service error onto the standard error envelope
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	label := "Internal server error"

	switch {
	case errors.Is(err, services.ErrUnauthenticated), errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrInvalidRefreshToken):
		status, label = http.StatusUnauthorized, "Unauthenticated"
	case errors.Is(err, services.ErrNotFound):
		status, label = http.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrUnauthorized):
		status, label = http.StatusForbidden, "Forbidden"
	case errors.Is(err, services.ErrInvalidState):
		status, label = http.StatusBadRequest, "Invalid state"
	case errors.Is(err, services.ErrConflict):
		status, label = http.StatusConflict, "Conflict"
	case errors.Is(err, services.ErrValidation):
		status, label = http.StatusBadRequest, "Validation failed"
	case errors.Is(err, services.ErrMediaNotConfigured):
		status, label = http.StatusServiceUnavailable, "Service unavailable"
	}

	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{
			"success": false,
			"error":   label,
			"message": message,
		})
		return
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   label,
		"message": err.Error(),
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request data",
		"message": "Request body failed validation",
		"details": utils.ParseErrors(err),
	})
}

// parseIDParam reads a positive numeric path parameter, writing a 400 when it is malformed
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid " + name,
			"message": name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
