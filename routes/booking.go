package routes

import (
	"mobilemech/handlers"
	"mobilemech/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the booking lifecycle and custom booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth middleware.Auth) {
	booking := r.Group("/bookings")
	{
		// Public token links; a signed-in customer is bound on confirmation.
		booking.GET("/verify-custom-booking/:token", hb.PreviewCustomBookingHandler)
		booking.POST("/verify-custom-booking/:token", auth.Optional(), hb.ResolveCustomBookingHandler)

		customer := booking.Group("")
		customer.Use(auth.Required())
		customer.POST("", hb.CreateBookingHandler)
		customer.GET("/mine", hb.MyBookingsHandler)
		customer.GET("/:id", hb.GetBookingHandler)
		customer.PATCH("/:id", hb.UpdateBookingDetailsHandler)
		customer.PATCH("/:id/cancel", hb.CancelBookingHandler)
		customer.PUT("/:id/cancel", hb.CancelBookingHandler)

		admin := booking.Group("")
		admin.Use(auth.Admin())
		admin.GET("", hb.ListBookingsHandler)
		admin.POST("/custom", hb.CreateCustomBookingHandler)
		admin.PATCH("/:id/status", hb.UpdateBookingStatusHandler)
		admin.PATCH("/:id/service-status", hb.UpdateServiceStatusHandler)
		admin.PATCH("/:id/assign-customer", hb.AssignCustomerHandler)
	}
}
