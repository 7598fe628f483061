package handlers

import (
	"net/http"
	"strings"

	"mobilemech/middleware"
	"mobilemech/models"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
)

// CreateBookingHandler handles POST /bookings (customer).
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := hb.Bookings.CreateBooking(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBookingHandler handles GET /bookings/:id (owner or admin).
func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	b, err := hb.Bookings.GetBooking(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// MyBookingsHandler handles GET /bookings/mine (customer).
func (hb *HandlerBundle) MyBookingsHandler(c *gin.Context) {
	page, limit := pageParams(c)
	result, err := hb.Bookings.ListMyBookings(c.Request.Context(), middleware.IdentityFrom(c), page, limit)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListBookingsHandler handles GET /bookings (admin).
func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	dr, err := dateRangeParams(c)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	filter := models.BookingFilter{
		CustomerID: strings.TrimSpace(c.Query("customerId")),
		ServiceID:  strings.TrimSpace(c.Query("serviceId")),
		Status:     models.BookingStatus(strings.TrimSpace(c.Query("status"))),
		DateRange:  dr,
	}
	page, limit := pageParams(c)
	result, err := hb.Bookings.ListBookings(c.Request.Context(), middleware.IdentityFrom(c), filter, page, limit)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateBookingStatusHandler handles PATCH /bookings/:id/status (admin).
func (hb *HandlerBundle) UpdateBookingStatusHandler(c *gin.Context) {
	var req models.StatusUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := hb.Bookings.UpdateStatus(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req.Status)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler handles PATCH|PUT /bookings/:id/cancel (owner or admin).
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	b, err := hb.Bookings.CancelBooking(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBookingDetailsHandler handles PATCH /bookings/:id (owner or admin, Pending only).
func (hb *HandlerBundle) UpdateBookingDetailsHandler(c *gin.Context) {
	var req models.BookingDetailsUpdate
	if !bindJSON(c, &req) {
		return
	}
	b, err := hb.Bookings.UpdateDetails(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateServiceStatusHandler handles PATCH /bookings/:id/service-status (admin).
func (hb *HandlerBundle) UpdateServiceStatusHandler(c *gin.Context) {
	var req models.ServiceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := hb.Bookings.UpdateServiceStatus(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req.ServiceStatus)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
