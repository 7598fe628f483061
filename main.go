package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobilemech/config"
	"mobilemech/cron"
	"mobilemech/database"
	bookingRepo "mobilemech/database/repository/booking"
	catalogRepo "mobilemech/database/repository/catalog"
	"mobilemech/database/repository/memory"
	timeslotRepo "mobilemech/database/repository/timeslot"
	userRepo "mobilemech/database/repository/user"
	"mobilemech/metrics"
	"mobilemech/server"
	"mobilemech/services/notification"
	"mobilemech/services/payment"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.InitJWT(cfg.JWTSecret)
	metrics.Register()

	repos := initRepositories(cfg)

	mailer := notification.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	notifier := &notification.DefaultNotificationService{Mailer: mailer, Users: repos.Users}

	var worker *asynq.Server
	if config.UseRedis() {
		queue := asynq.NewClient(cron.QueueRedisOpt())
		defer queue.Close()
		notifier.Queue = queue
		worker = cron.InitEmailWorker(mailer)
	} else {
		logger.Info("Redis not configured; emails are sent inline")
	}

	cache := utils.InitCache()
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, cache, database.MongoClient, time.Minute)

	router := server.New(repos, server.Options{
		Cache:           cache,
		CatalogCacheTTL: cfg.CatalogCacheTTL,
		Payments:        payment.NewStripePaymentService(cfg.StripeKey, cfg.PaymentCurrency),
		Notifier:        notifier,
		AdminToken:      cfg.AdminToken,
		MaxRequestsMin:  cfg.MaxRequestsPerMin,
		PublicBaseURL:   cfg.PublicBaseURL,
		ExpiryDays:      cfg.VerificationExpiryDays,
	})

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("MongoDB disconnect failed", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

// initRepositories selects the storage driver from STORE_DRIVER.
func initRepositories(cfg config.Config) server.Repositories {
	logger := utils.GetLogger()

	if cfg.StoreDriver == "memory" {
		logger.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return server.Repositories{
			TimeSlots: store.TimeSlots(),
			Bookings:  store.Bookings(),
			Services:  store.Services(),
			Users:     store.Users(),
		}
	}

	database.InitDB()
	db := database.Database()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for name, ensure := range map[string]func(context.Context) error{
		"timeslots": func(ctx context.Context) error { return timeslotRepo.EnsureIndexes(ctx, db) },
		"bookings":  func(ctx context.Context) error { return bookingRepo.EnsureIndexes(ctx, db) },
		"services":  func(ctx context.Context) error { return catalogRepo.EnsureIndexes(ctx, db) },
		"users":     func(ctx context.Context) error { return userRepo.EnsureIndexes(ctx, db) },
	} {
		if err := ensure(ctx); err != nil {
			// The unique slot index is what enforces slot uniqueness.
			logger.Fatal("Failed to create indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	return server.Repositories{
		TimeSlots: timeslotRepo.NewMongoTimeSlotRepo(db),
		Bookings:  bookingRepo.NewMongoBookingRepo(db),
		Services:  catalogRepo.NewMongoServiceRepo(db),
		Users:     userRepo.NewMongoUserRepo(db),
	}
}
