// Package server assembles repositories, services and routes into a gin engine.
package server

import (
	"time"

	bookingRepo "mobilemech/database/repository/booking"
	catalogRepo "mobilemech/database/repository/catalog"
	timeslotRepo "mobilemech/database/repository/timeslot"
	userRepo "mobilemech/database/repository/user"
	"mobilemech/handlers"
	"mobilemech/middleware"
	"mobilemech/routes"
	"mobilemech/services/availability"
	"mobilemech/services/booking"
	"mobilemech/services/catalog"
	"mobilemech/services/notification"
	"mobilemech/services/payment"
	"mobilemech/services/timeslot"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Repositories is the storage layer, backed by MongoDB or memory.
type Repositories struct {
	TimeSlots timeslotRepo.TimeSlotRepository
	Bookings  bookingRepo.BookingRepository
	Services  catalogRepo.ServiceRepository
	Users     userRepo.UserRepository
}

// Options carries the optional integrations.
type Options struct {
	Cache           *redis.Client
	CatalogCacheTTL time.Duration
	Payments        payment.PaymentService
	Notifier        notification.NotificationService
	AdminToken      string
	MaxRequestsMin  int
	PublicBaseURL   string
	ExpiryDays      int
	Clock           func() time.Time
}

// NewHandlerBundle wires every service over repos.
func NewHandlerBundle(repos Repositories, opts Options) *handlers.HandlerBundle {
	catalogSvc := &catalog.DefaultCatalogService{
		Repo:  repos.Services,
		Cache: opts.Cache,
		TTL:   opts.CatalogCacheTTL,
	}
	slotSvc := &timeslot.DefaultSlotService{
		Repo:    repos.TimeSlots,
		Catalog: catalogSvc,
	}

	payments := opts.Payments
	if payments == nil {
		payments = payment.Disabled{}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = &notification.DefaultNotificationService{Mailer: notification.LogMailer{}, Users: repos.Users}
	}

	bookingSvc := &booking.DefaultBookingService{
		Bookings:      repos.Bookings,
		Users:         repos.Users,
		Slots:         slotSvc,
		Catalog:       catalogSvc,
		Payments:      payments,
		Notifier:      notifier,
		PublicBaseURL: opts.PublicBaseURL,
		ExpiryDays:    opts.ExpiryDays,
		Clock:         opts.Clock,
	}

	return &handlers.HandlerBundle{
		Catalog: catalogSvc,
		Slots:   slotSvc,
		Availability: &availability.DefaultAvailabilityService{
			Catalog:  catalogSvc,
			Slots:    slotSvc,
			Bookings: repos.Bookings,
		},
		Bookings:     bookingSvc,
		Verification: bookingSvc,
	}
}

// New builds the HTTP engine.
func New(repos Repositories, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(opts.MaxRequestsMin))

	hb := NewHandlerBundle(repos, opts)
	routes.RegisterRoutes(r, hb, middleware.Auth{AdminToken: opts.AdminToken})
	return r
}
