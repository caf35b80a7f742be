package routes

import (
	"os"

	"ferry-booking/constants"
	"ferry-booking/controllers/auth"
	"ferry-booking/controllers/booking"
	"ferry-booking/controllers/payment"
	"ferry-booking/controllers/schedule"
	"ferry-booking/controllers/user"
	"ferry-booking/httpServices/paymentgw"
	ssoService "ferry-booking/httpServices/sso"
	"ferry-booking/logger"
	"ferry-booking/middleware"
	"ferry-booking/services/bookingstate"
	"ferry-booking/services/capacity"
	"ferry-booking/services/paymentrecon"
	"ferry-booking/services/slipparser"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	ssoClient := ssoService.NewClient(os.Getenv("SSO_BASE_URL"))
	gatewayClient := paymentgw.NewClient(os.Getenv("PAYMENT_GATEWAY_BASE_URL"))
	asyncLogger := logger.NewAsyncLogger(db)

	capacityService := capacity.NewService(db)
	bookingService := bookingstate.NewService(db, capacityService)
	reconService := paymentrecon.NewService(db, gatewayClient, bookingService)
	slipService := slipparser.NewService(db)

	authController := auth.NewAuthController(ssoClient, db, asyncLogger)
	bookingController := booking.NewBookingController(db, asyncLogger, bookingService)
	scheduleController := schedule.NewScheduleController(db, asyncLogger, capacityService)
	paymentController := payment.NewPaymentController(db, asyncLogger, reconService, slipService)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "ferry-booking",
			"status":  "ok",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/get-service-token", authController.GetServiceToken)
	api.Post("/login", authController.Login)
	api.Post("/register", authController.Register)

	/*=============================================================================
	| Protected Routes
	===============================================================================*/
	authGroup := api.Group("/auth").Use(middleware.RequireAnyPermission())
	authGroup.Get("/profile", user.GetUserInfo)
	authGroup.Post("/logout", authController.LogOut)

	/*=============================================================================
	| Schedule Routes
	===============================================================================*/
	scheduleGroup := api.Group("/schedule")

	scheduleGroup.Get("/:id/dates", middleware.RequireAnyPermission(), scheduleController.ListDates)

	scheduleGroup.Post("/ferry", middleware.RequirePermissions(
		constants.PermAdminFull,
	), scheduleController.CreateFerry)

	scheduleGroup.Post("/route", middleware.RequirePermissions(
		constants.PermAdminFull,
	), scheduleController.CreateRoute)

	scheduleGroup.Post("/create", middleware.RequirePermissions(
		constants.PermAdminFull,
	), scheduleController.CreateSchedule)

	scheduleGroup.Post("/dates/add", middleware.RequirePermissions(
		constants.PermAdminFull,
	), scheduleController.AddDate)

	scheduleGroup.Post("/dates/generate", middleware.RequirePermissions(
		constants.PermAdminFull,
	), scheduleController.GenerateDates)

	scheduleGroup.Post("/dates/delete", middleware.RequirePermissions(
		constants.PermAdminFull,
	), scheduleController.DeleteDate)

	scheduleGroup.Post("/dates/status", middleware.RequireAnyPermission(
		constants.StaffPermissions...,
	), scheduleController.SetDateStatus)

	scheduleGroup.Post("/status", middleware.RequirePermissions(
		constants.PermAdminFull,
	), scheduleController.SetScheduleStatus)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")

	bookingGroup.Post("/checkout", middleware.RequireAnyPermission(), bookingController.Checkout)
	bookingGroup.Get("/my", middleware.RequireAnyPermission(), bookingController.MyBookings)
	bookingGroup.Get("/:id", middleware.RequireAnyPermission(), bookingController.Show)

	bookingGroup.Post("/transition", middleware.RequireAnyPermission(
		constants.StaffPermissions...,
	), bookingController.Transition)

	bookingGroup.Post("/check-in", middleware.RequireAnyPermission(
		constants.StaffPermissions...,
	), bookingController.CheckIn)

	bookingGroup.Post("/complete", middleware.RequireAnyPermission(
		constants.StaffPermissions...,
	), bookingController.Complete)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	paymentGroup := api.Group("/payment")

	paymentGroup.Post("/refund", middleware.RequireAnyPermission(), paymentController.RequestRefund)
	paymentGroup.Get("/refund/:id/status", middleware.RequireAnyPermission(), paymentController.RefundStatus)
	paymentGroup.Post("/refund/cancel", middleware.RequireAnyPermission(), paymentController.CancelRefund)

	paymentGroup.Post("/refund/manual-complete", middleware.RequireAnyPermission(
		constants.AdminPermissions...,
	), paymentController.CompleteManualRefund)

	paymentGroup.Post("/slip/parse", middleware.RequireAnyPermission(
		constants.StaffPermissions...,
	), paymentController.ParsePayoutSlip)

	paymentGroup.Get("/slip/:request_id", middleware.RequireAnyPermission(
		constants.StaffPermissions...,
	), paymentController.GetSlipRequest)
}
