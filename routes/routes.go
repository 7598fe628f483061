package routes

import (
	"net/http"
	"time"

	"mobilemech/handlers"
	"mobilemech/middleware"
	"mobilemech/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterServiceRoutes registers catalog and availability endpoints.
func RegisterServiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth middleware.Auth) {
	api := r.Group("/services")
	{
		api.GET("", hb.ListServicesHandler)
		api.GET("/:id", hb.GetServiceHandler)
		api.GET("/:id/availability", hb.ServiceAvailabilityHandler)

		admin := api.Group("")
		admin.Use(auth.Admin())
		admin.POST("", hb.CreateServiceHandler)
		admin.PUT("/:id", hb.UpdateServiceHandler)
	}
}

// RegisterTimeslotRoutes registers slot inventory endpoints.
func RegisterTimeslotRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth middleware.Auth) {
	api := r.Group("/timeslots")
	{
		api.GET("/available/:serviceId", hb.AvailableSlotsHandler)

		admin := api.Group("")
		admin.Use(auth.Admin())
		admin.GET("", hb.ListSlotsHandler)
		admin.GET("/statistics", hb.SlotStatisticsHandler)
		admin.POST("", hb.CreateSlotHandler)
		admin.POST("/bulk", hb.BulkCreateSlotsHandler)
		admin.DELETE("/bulk", hb.BulkDeleteSlotsHandler)
		admin.GET("/:id", hb.GetSlotHandler)
		admin.PUT("/:id", hb.UpdateSlotHandler)
		admin.DELETE("/:id", hb.DeleteSlotHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint. The process is live
// whenever it answers; "degraded" means a dependency failed its last ping.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		deps := utils.GetHealthStatus()
		status := "ok"
		if !deps.Healthy() {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       status,
			"time":         time.Now().UTC().Format(time.RFC3339),
			"dependencies": deps,
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth middleware.Auth) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Availability-Source"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterServiceRoutes(r, hb, auth)
	RegisterTimeslotRoutes(r, hb, auth)
	RegisterBookingRoutes(r, hb, auth)
}
