package server

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gasline/gasline-api/internal/config"
	"github.com/gasline/gasline-api/internal/handlers"
	"github.com/gasline/gasline-api/internal/middleware"
	"github.com/gasline/gasline-api/internal/models"
	"github.com/gasline/gasline-api/internal/services"
	"github.com/gasline/gasline-api/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Options configures New.
type Options struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Metrics bool
}

// New builds the Fiber application with all routes registered.
func New(opts Options) *fiber.App {
	db, cfg := opts.DB, opts.Cfg

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	if opts.Metrics {
		prometheus := fiberprometheus.New("gasline")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)
	}

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	api.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	secret := cfg.JWTSecret

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	userHandler := &handlers.UserHandler{DB: db, Cfg: cfg}
	agencyHandler := &handlers.AgencyHandler{DB: db}
	adminHandler := &handlers.AdminHandler{DB: db}
	customerHandler := &handlers.CustomerHandler{DB: db}
	staffHandler := &handlers.DeliveryStaffHandler{DB: db}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/logout", middleware.Protected(secret), authHandler.Logout)
	auth.Get("/me", middleware.Protected(secret), authHandler.Me)
	auth.Post("/profile-picture", middleware.Protected(secret), authHandler.ProfilePicture)

	// User self-service routes
	user := api.Group("/user", middleware.Protected(secret))
	user.Post("/apply-agency", userHandler.ApplyAgency)
	user.Post("/apply-customer", userHandler.ApplyCustomer)
	user.Post("/apply-delivery-staff", userHandler.ApplyDeliveryStaff)
	user.Get("/application-status", userHandler.ApplicationStatus)
	user.Get("/agencies", userHandler.ListAgencies)

	// Agency routes
	agency := api.Group("/agency", middleware.RequireRoles(secret, models.RoleAgency))
	agency.Get("/details", agencyHandler.Details)
	agency.Get("/customers", agencyHandler.Customers)
	agency.Get("/customers/pending", agencyHandler.PendingCustomers)
	agency.Put("/customers/:registrationId/status", agencyHandler.UpdateCustomerStatus)
	agency.Get("/delivery-staff/pending", agencyHandler.PendingDeliveryStaff)
	agency.Put("/delivery-staff/:registrationId/status", agencyHandler.UpdateDeliveryStaffStatus)

	// Admin routes
	admin := api.Group("/admin", middleware.RequireRoles(secret, models.RoleAdmin))
	admin.Get("/agencies/pending", adminHandler.PendingAgencies)
	admin.Put("/agencies/:registrationId/status", adminHandler.UpdateAgencyStatus)

	// Customer routes
	customer := api.Group("/customer", middleware.RequireRoles(secret, models.RoleCustomer))
	customer.Get("/details", customerHandler.Details)

	// Delivery staff routes
	staff := api.Group("/delivery-staff", middleware.RequireRoles(secret, models.RoleDeliveryStaff))
	staff.Get("/details", staffHandler.Details)
	staff.Get("/assignments", staffHandler.Assignments)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	return app
}
