package booking

import (
	"fmt"

	"ferry-booking/apperrors"
	"ferry-booking/database"
	"ferry-booking/logger"
	bookingModel "ferry-booking/models/booking"
	"ferry-booking/services"
	"ferry-booking/services/bookingstate"
	"ferry-booking/types"
	bookingTypes "ferry-booking/types/booking"
	"ferry-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB          *gorm.DB
	Logger      *logger.AsyncLogger
	Machine     *bookingstate.Service
	Permissions *services.PermissionService
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, asyncLogger *logger.AsyncLogger, machine *bookingstate.Service) *BookingController {
	return &BookingController{
		DB:          db,
		Logger:      asyncLogger,
		Machine:     machine,
		Permissions: services.NewPermissionService(),
	}
}

// currentUser resolves the authenticated user from the JWT claims.
func currentUser(c *fiber.Ctx) (uint, error) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("invalid user claims")
	}

	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return 0, fmt.Errorf("user UUID not found in token")
	}

	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return 0, err
	}
	return userInfo.ID, nil
}

// actorFromRequest builds the audit actor for a request.
func actorFromRequest(c *fiber.Ctx, actorType bookingModel.ActorType, userID uint) bookingstate.Actor {
	return bookingstate.Actor{
		Type: actorType,
		ID:   userID,
		IP:   c.IP(),
	}
}

// serviceError translates a service error into the HTTP response.
func serviceError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	if status == fiber.StatusInternalServerError {
		logger.Error("Request failed", err)
		return c.Status(status).JSON(types.ApiResponse{
			Status:  status,
			Message: "Internal server error",
			Data:    nil,
		})
	}
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: err.Error(),
		Data:    nil,
	})
}

// Checkout creates a pending booking with tickets, vehicles and a pending
// payment
func (bc *BookingController) Checkout(c *fiber.Ctx) error {
	var req bookingTypes.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	userID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	booking, err := bc.Machine.Checkout(req, userID, actorFromRequest(c, bookingModel.ActorCustomer, userID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// MyBookings lists the authenticated user's bookings, newest first
func (bc *BookingController) MyBookings(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var bookings []bookingModel.Booking
	err = database.DB.Preload("Tickets").Preload("Vehicles").
		Preload("Schedule").Preload("Schedule.Route").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		logger.Error("Failed to load bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings fetched successfully",
		Data:    bookings,
	})
}

// Show returns one booking with its tickets, vehicles and audit trail
func (bc *BookingController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	var booking bookingModel.Booking
	err = database.DB.Preload("Tickets").Preload("Vehicles").
		Preload("Schedule").Preload("Schedule.Route").Preload("User").
		First(&booking, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to load booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	var logs []bookingModel.BookingLog
	if err := database.DB.Where("booking_id = ?", booking.ID).Order("created_at ASC").Find(&logs).Error; err != nil {
		logger.Error("Failed to load booking logs", err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking fetched successfully",
		Data: fiber.Map{
			"booking": booking,
			"history": logs,
		},
	})
}

// Transition applies an operator-requested status change
func (bc *BookingController) Transition(c *fiber.Ctx) error {
	var req bookingTypes.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	userID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	actorType := bookingModel.ActorOperator
	if bc.Permissions.IsAdmin(c) {
		actorType = bookingModel.ActorAdmin
	}

	actor := actorFromRequest(c, actorType, userID)
	booking, err := bc.Machine.Transition(req.BookingID, bookingModel.BookingStatus(req.Status), actor, req.Reason)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking status updated",
		Data:    booking,
	})
}

// CheckIn marks one ticket as checked in
func (bc *BookingController) CheckIn(c *fiber.Ctx) error {
	var req bookingTypes.CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	userID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	ticket, err := bc.Machine.CheckIn(req.TicketID, actorFromRequest(c, bookingModel.ActorOperator, userID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Ticket checked in",
		Data:    ticket,
	})
}

// Complete finishes a booking once every ticket is checked in
func (bc *BookingController) Complete(c *fiber.Ctx) error {
	var req bookingTypes.CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	userID, err := currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	booking, err := bc.Machine.CompleteIfCheckedIn(req.BookingID, actorFromRequest(c, bookingModel.ActorOperator, userID))
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking completed",
		Data:    booking,
	})
}
