package handlers

import (
	"net/http"

	"mobilemech/middleware"
	"mobilemech/models"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
)

// CreateCustomBookingHandler handles POST /bookings/custom (admin).
func (hb *HandlerBundle) CreateCustomBookingHandler(c *gin.Context) {
	var req models.CustomBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := hb.Verification.CreatePendingVerification(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// PreviewCustomBookingHandler handles GET /bookings/verify-custom-booking/:token.
func (hb *HandlerBundle) PreviewCustomBookingHandler(c *gin.Context) {
	preview, err := hb.Verification.Preview(c.Request.Context(), c.Param("token"))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// ResolveCustomBookingHandler handles POST /bookings/verify-custom-booking/:token.
func (hb *HandlerBundle) ResolveCustomBookingHandler(c *gin.Context) {
	var req models.VerificationResponse
	if !bindJSON(c, &req) {
		return
	}
	b, err := hb.Verification.Resolve(c.Request.Context(), middleware.IdentityFrom(c), c.Param("token"), req)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// AssignCustomerHandler handles PATCH /bookings/:id/assign-customer (admin).
func (hb *HandlerBundle) AssignCustomerHandler(c *gin.Context) {
	var req models.AssignCustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := hb.Verification.AssignCustomer(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
