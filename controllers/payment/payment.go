package payment

import (
	"fmt"

	"ferry-booking/apperrors"
	"ferry-booking/logger"
	bookingModel "ferry-booking/models/booking"
	"ferry-booking/services/bookingstate"
	"ferry-booking/services/paymentrecon"
	"ferry-booking/services/slipparser"
	"ferry-booking/types"
	paymentTypes "ferry-booking/types/payment"
	"ferry-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentController handles refund requests and payout slip parsing
type PaymentController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
	Recon  *paymentrecon.Service
	Slips  *slipparser.Service
}

// NewPaymentController creates a new payment controller
func NewPaymentController(db *gorm.DB, asyncLogger *logger.AsyncLogger, recon *paymentrecon.Service, slips *slipparser.Service) *PaymentController {
	return &PaymentController{
		DB:     db,
		Logger: asyncLogger,
		Recon:  recon,
		Slips:  slips,
	}
}

func (pc *PaymentController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	pc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (pc *PaymentController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

func (pc *PaymentController) currentActor(c *fiber.Ctx, actorType bookingModel.ActorType) (bookingstate.Actor, error) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return bookingstate.Actor{}, fmt.Errorf("invalid user claims")
	}
	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return bookingstate.Actor{}, fmt.Errorf("user UUID not found in token")
	}
	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		return bookingstate.Actor{}, err
	}
	return bookingstate.Actor{
		Type: actorType,
		ID:   userInfo.ID,
		IP:   c.IP(),
	}, nil
}

func (pc *PaymentController) serviceError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		logger.Error("Request failed", err)
		message = "Internal server error"
	}
	return pc.sendResponseWithLog(c, status, types.ApiResponse{
		Status:  status,
		Message: message,
		Data:    nil,
	})
}

// RequestRefund opens a refund for a booking's successful payment
func (pc *PaymentController) RequestRefund(c *fiber.Ctx) error {
	var req paymentTypes.RefundRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	actor, err := pc.currentActor(c, bookingModel.ActorCustomer)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	refund, err := pc.Recon.RequestRefund(req, actor)
	if err != nil {
		return pc.serviceError(c, err)
	}

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Refund requested",
		Data:    refund,
	})
}

// RefundStatus polls the gateway and applies the refund outcome
func (pc *PaymentController) RefundStatus(c *fiber.Ctx) error {
	refundID, err := c.ParamsInt("id")
	if err != nil || refundID <= 0 {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid refund id",
			Data:    nil,
		})
	}

	refund, err := pc.Recon.CheckRefundStatus(uint(refundID))
	if err != nil {
		return pc.serviceError(c, err)
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Refund status fetched",
		Data:    refund,
	})
}

// CancelRefund cancels a still-pending refund and restores the booking
func (pc *PaymentController) CancelRefund(c *fiber.Ctx) error {
	var req paymentTypes.CancelRefundRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	actor, err := pc.currentActor(c, bookingModel.ActorCustomer)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	refund, err := pc.Recon.CancelRefund(req.RefundID, actor)
	if err != nil {
		return pc.serviceError(c, err)
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Refund cancelled",
		Data:    refund,
	})
}

// CompleteManualRefund settles a bank-payout refund after the transfer
func (pc *PaymentController) CompleteManualRefund(c *fiber.Ctx) error {
	var req paymentTypes.CompleteManualRefundRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	actor, err := pc.currentActor(c, bookingModel.ActorAdmin)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: err.Error(),
			Data:    nil,
		})
	}

	refund, err := pc.Recon.CompleteManualRefund(req.RefundID, req.SlipRequestID, actor)
	if err != nil {
		return pc.serviceError(c, err)
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Manual refund completed",
		Data:    refund,
	})
}

// GetSlipRequest returns a payout slip parsing request by its request ID
func (pc *PaymentController) GetSlipRequest(c *fiber.Ctx) error {
	requestID := c.Params("request_id")
	if requestID == "" {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Request ID is required",
			Data:    nil,
		})
	}

	request, err := pc.Slips.GetRequestByID(requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Slip request not found",
				Data:    nil,
			})
		}
		logger.Error(fmt.Sprintf("Failed to load slip request %s", requestID), err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Slip request fetched",
		Data:    request,
	})
}
