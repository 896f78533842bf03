package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"household-help-server/models"
	"household-help-server/services"
)

// RegisterBookingRoutes registers booking routes. All of them require authentication.
func RegisterBookingRoutes(router *gin.RouterGroup, deps *Dependencies) {
	h := &bookingHandler{bookings: deps.Bookings}

	router.POST("", h.create)
	router.GET("/mine", h.mine)
	router.GET("/worker", h.forWorker)
	router.PATCH("/:id/status", h.updateStatus)
}

type bookingHandler struct {
	bookings *services.BookingService
}

func (h *bookingHandler) create(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), c.GetUint("user_id"), req)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking created successfully",
		"data":    booking,
	})
}

func (h *bookingHandler) mine(c *gin.Context) {
	bookings, err := h.bookings.GetUserBookings(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
		"count":   len(bookings),
	})
}

func (h *bookingHandler) forWorker(c *gin.Context) {
	bookings, err := h.bookings.GetWorkerBookings(c.Request.Context(), c.GetUint("user_id"))
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    bookings,
		"count":   len(bookings),
	})
}

func (h *bookingHandler) updateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.bookings.UpdateBookingStatus(c.Request.Context(), c.GetUint("user_id"), id, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update booking status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking status updated",
		"data":    booking,
	})
}
