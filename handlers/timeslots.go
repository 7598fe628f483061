package handlers

import (
	"net/http"
	"strings"

	"mobilemech/middleware"
	"mobilemech/models"
	"mobilemech/services/apperr"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
)

// AvailableSlotsHandler handles GET /timeslots/available/:serviceId?date=YYYY-MM-DD.
func (hb *HandlerBundle) AvailableSlotsHandler(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		utils.WriteError(c, apperr.NewValidation("date query parameter is required"))
		return
	}
	serviceID := c.Param("serviceId")
	if _, err := hb.Catalog.GetService(c.Request.Context(), serviceID); err != nil {
		utils.WriteError(c, err)
		return
	}
	times, err := hb.Slots.FindAvailable(c.Request.Context(), serviceID, date)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, times)
}

// CreateSlotHandler handles POST /timeslots (admin).
func (hb *HandlerBundle) CreateSlotHandler(c *gin.Context) {
	var req models.CreateSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	slots, err := hb.Slots.CreateSlot(c.Request.Context(), req, createdBy(c))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slots": slots, "count": len(slots)})
}

// BulkCreateSlotsHandler handles POST /timeslots/bulk (admin).
func (hb *HandlerBundle) BulkCreateSlotsHandler(c *gin.Context) {
	var req models.BulkCreateSlotsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := hb.Slots.CreateBulkSlots(c.Request.Context(), req, createdBy(c))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListSlotsHandler handles GET /timeslots (admin).
func (hb *HandlerBundle) ListSlotsHandler(c *gin.Context) {
	filter, ok := slotFilter(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	result, err := hb.Slots.FindWithFilters(c.Request.Context(), filter, page, limit)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSlotHandler handles GET /timeslots/:id (admin).
func (hb *HandlerBundle) GetSlotHandler(c *gin.Context) {
	slot, err := hb.Slots.GetSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// UpdateSlotHandler handles PUT /timeslots/:id (admin).
func (hb *HandlerBundle) UpdateSlotHandler(c *gin.Context) {
	var req models.UpdateSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	slot, err := hb.Slots.UpdateSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteSlotHandler handles DELETE /timeslots/:id (admin).
func (hb *HandlerBundle) DeleteSlotHandler(c *gin.Context) {
	if err := hb.Slots.DeleteSlot(c.Request.Context(), c.Param("id")); err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Time slot deleted"})
}

// BulkDeleteSlotsHandler handles DELETE /timeslots/bulk (admin).
func (hb *HandlerBundle) BulkDeleteSlotsHandler(c *gin.Context) {
	var req models.BulkDeleteSlotsRequest
	if !bindJSON(c, &req) {
		return
	}
	deleted, err := hb.Slots.DeleteSlots(c.Request.Context(), req.IDs)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// SlotStatisticsHandler handles GET /timeslots/statistics (admin).
func (hb *HandlerBundle) SlotStatisticsHandler(c *gin.Context) {
	filter, ok := slotFilter(c)
	if !ok {
		return
	}
	stats, err := hb.Slots.Statistics(c.Request.Context(), filter)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func slotFilter(c *gin.Context) (models.SlotFilter, bool) {
	dr, err := dateRangeParams(c)
	if err != nil {
		utils.WriteError(c, err)
		return models.SlotFilter{}, false
	}
	isAvailable, err := boolParam(c, "isAvailable")
	if err != nil {
		utils.WriteError(c, err)
		return models.SlotFilter{}, false
	}
	isBooked, err := boolParam(c, "isBooked")
	if err != nil {
		utils.WriteError(c, err)
		return models.SlotFilter{}, false
	}
	return models.SlotFilter{
		ServiceID:   strings.TrimSpace(c.Query("serviceId")),
		DateRange:   dr,
		IsAvailable: isAvailable,
		IsBooked:    isBooked,
	}, true
}

// createdBy names the admin for slot audit fields.
func createdBy(c *gin.Context) string {
	if id := middleware.IdentityFrom(c); id.UserID != "" {
		return id.UserID
	}
	return "admin"
}
