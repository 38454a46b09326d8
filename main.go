package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"litfund-backend/config"
	"litfund-backend/controllers"
	"litfund-backend/models"
	"litfund-backend/routes"
	"litfund-backend/services"
	"litfund-backend/utils"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env not found or couldn't load it; continuing with environment variables")
	}

	jwtSecret := os.Getenv("IDENTITY_JWT_SECRET")
	if jwtSecret == "" {
		logrus.Fatal("IDENTITY_JWT_SECRET environment variable is not set")
	}

	identityURL := os.Getenv("IDENTITY_API_URL")
	identityKey := os.Getenv("IDENTITY_SERVICE_KEY")
	if identityURL == "" || identityKey == "" {
		logrus.Fatal("IDENTITY_API_URL and IDENTITY_SERVICE_KEY must be set")
	}

	if err := config.ConnectDatabase(); err != nil {
		logrus.WithError(err).Fatal("database connect failed")
	}
	db := config.DB
	logrus.Info("database connection established, migrations applied")

	// External collaborators
	provider := services.NewHTTPIdentityProvider(identityURL, identityKey)
	mailer := utils.SMTPMailer{}
	crm := services.NewCRMService(os.Getenv("CRM_WEBHOOK_URL"))

	// Services
	trashService := services.NewTrashService(db)
	submissionService := services.NewSubmissionService(db, trashService, crm)
	testimonialService := services.NewTestimonialService(db, trashService)
	resetService := services.NewPasswordResetService(db, provider, mailer)
	adminService := services.NewAdminService(db, provider)
	blogService := services.NewBlogService(db)
	contentService := services.NewContentService(db)
	analyticsService := services.NewAnalyticsService(db)

	// Controllers
	authController := controllers.NewAuthController(resetService, adminService, provider)
	submissionController := controllers.NewSubmissionController(submissionService)
	testimonialController := controllers.NewTestimonialController(testimonialService)
	blogController := controllers.NewBlogController(blogService)
	contentController := controllers.NewContentController(contentService)
	analyticsController := controllers.NewAnalyticsController(analyticsService)
	adminController := controllers.NewAdminController(adminService, trashService, resetService)

	router := routes.SetupRouter(
		authController,
		submissionController,
		testimonialController,
		blogController,
		contentController,
		analyticsController,
		adminController,
		adminService,
		jwtSecret,
	)

	// Daily retention sweep: purge trash past the 7-day window and drop
	// stale reset tokens. The same sweep is reachable manually via
	// POST /api/admin/trash/purge.
	scheduler := cron.New()
	_, err := scheduler.AddFunc("0 3 * * *", func() {
		if _, err := trashService.PurgeExpired(&models.FormSubmission{}); err != nil {
			logrus.WithError(err).Error("scheduled submission purge failed")
		}
		if _, err := trashService.PurgeExpired(&models.Testimonial{}); err != nil {
			logrus.WithError(err).Error("scheduled testimonial purge failed")
		}
		if _, err := resetService.CleanupStale(context.Background()); err != nil {
			logrus.WithError(err).Error("scheduled reset token cleanup failed")
		}
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to schedule retention sweep")
	}
	scheduler.Start()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("shutdown signal received, shutting down server")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}

	logrus.Info("server stopped gracefully")
}
