package handlers

import (
	"net/http"
	"strings"

	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
)

// ListServicesHandler handles GET /services.
func (hb *HandlerBundle) ListServicesHandler(c *gin.Context) {
	services, err := hb.Catalog.ListServices(c.Request.Context())
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetServiceHandler handles GET /services/:id.
func (hb *HandlerBundle) GetServiceHandler(c *gin.Context) {
	svc, err := hb.Catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// CreateServiceHandler handles POST /services (admin).
func (hb *HandlerBundle) CreateServiceHandler(c *gin.Context) {
	var input models.Service
	if !bindJSON(c, &input) {
		return
	}
	svc, err := hb.Catalog.CreateService(c.Request.Context(), input)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateServiceHandler handles PUT /services/:id (admin).
func (hb *HandlerBundle) UpdateServiceHandler(c *gin.Context) {
	var req models.ServiceUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	svc, err := hb.Catalog.UpdateService(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// ServiceAvailabilityHandler handles GET /services/:id/availability?date=YYYY-MM-DD.
func (hb *HandlerBundle) ServiceAvailabilityHandler(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		utils.WriteError(c, apperr.NewValidation("date query parameter is required"))
		return
	}
	times, source, err := hb.Availability.Resolve(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.Header("X-Availability-Source", string(source))
	c.JSON(http.StatusOK, times)
}
