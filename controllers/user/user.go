package user

import (
	"errors"

	"ferry-booking/database"
	"ferry-booking/logger"
	"ferry-booking/models/user"
	"ferry-booking/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetUserInfo(c *fiber.Ctx) error {
	// Resolve the authenticated user from the JWT claims
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		response := types.ApiResponse{
			Message: "Invalid token data",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		}
		return c.Status(fiber.StatusUnauthorized).JSON(&response)
	}
	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		response := types.ApiResponse{
			Message: "Invalid token data",
			Status:  fiber.StatusUnauthorized,
			Data:    nil,
		}
		return c.Status(fiber.StatusUnauthorized).JSON(&response)
	}

	var userRow user.User
	if err := database.DB.Where("uuid = ?", userUUID).First(&userRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("User not found", err)
			response := types.ApiResponse{
				Message: "User not found",
				Status:  fiber.StatusNotFound,
				Data:    nil,
			}
			return c.Status(fiber.StatusNotFound).JSON(&response)
		}
		logger.Error("Error fetching user", err)
		response := types.ApiResponse{
			Message: "Error fetching user",
			Status:  fiber.StatusInternalServerError,
			Data:    nil,
		}
		return c.Status(fiber.StatusInternalServerError).JSON(&response)
	}

	// Construct user info response
	userInfo := map[string]interface{}{
		"uuid":           userRow.Uuid,
		"username":       userRow.Username,
		"legal_name":     userRow.LegalName,
		"phone":          userRow.Phone,
		"phone_verified": userRow.PhoneVerified,
		"email":          userRow.Email,
		"email_verified": userRow.EmailVerified,
		"permissions":    userRow.Permissions,
		"created_at":     userRow.CreatedAt.Format("2006-01-02 15:04:05"),
		"updated_at":     userRow.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	// Send successful response
	response := types.ApiResponse{
		Message: "User fetched successfully",
		Status:  fiber.StatusOK,
		Data:    userInfo,
	}
	logger.Success("User fetched successfully")
	return c.JSON(&response)
}
