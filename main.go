package main

import (
	"fmt"
	"os"
	"time"

	"ferry-booking/database"
	"ferry-booking/httpServices/notifier"
	"ferry-booking/httpServices/paymentgw"
	"ferry-booking/logger"
	"ferry-booking/routes"
	"ferry-booking/scheduler"
	"ferry-booking/services/bookingstate"
	"ferry-booking/services/capacity"
	"ferry-booking/services/notification"
	"ferry-booking/services/paymentrecon"
	"ferry-booking/services/slipparser"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       50 * 1024 * 1024, // 50MB body limit
	})
	env := godotenv.Load()
	if env != nil {
		logger.Error("Error loading .env file", env)
		fmt.Println("Error loading .env file", env)
	}
	logger.Success("Server is running on ip: " + os.Getenv("APP_HOST") + " port: " + os.Getenv("APP_PORT") +
		"\n\t\t\t\t\t\t******************************************************************************************\n")

	db, err := database.InitDB()
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     os.Getenv("FRONTEND_URL"),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, db)

	// Background jobs: reminders, payment expiry, refund polling and cleanup
	gatewayClient := paymentgw.NewClient(os.Getenv("PAYMENT_GATEWAY_BASE_URL"))
	notifierClient := notifier.NewClient(os.Getenv("NOTIFIER_BASE_URL"))

	capacityService := capacity.NewService(db)
	bookingService := bookingstate.NewService(db, capacityService)
	notificationService := notification.NewService(db, notifierClient)
	reconService := paymentrecon.NewService(db, gatewayClient, bookingService)
	slipService := slipparser.NewService(db)

	jobs := scheduler.New(capacityService, notificationService, reconService, slipService)
	jobs.Start()
	defer jobs.Stop()

	app_host := os.Getenv("APP_HOST")
	app_port := os.Getenv("APP_PORT")
	app.Listen(app_host + ":" + app_port)
}
