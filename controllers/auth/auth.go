package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ferry-booking/database"
	httpServices "ferry-booking/httpServices/sso"
	"ferry-booking/logger"
	"ferry-booking/models/user"
	"ferry-booking/types"
	"ferry-booking/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	db             *gorm.DB
	httpService    *httpServices.SSOClient
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(service *httpServices.SSOClient, db *gorm.DB, async_logger *logger.AsyncLogger) *AuthController {
	return &AuthController{httpService: service, db: db, loggerInstance: async_logger}
}

// Helper function to set secure cookies based on environment
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	isProduction := os.Getenv("APP_ENV") == "production"

	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: false,
		Secure:   isProduction, // Only secure in production (HTTPS)
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	var req types.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
			Data:    nil,
		})
	}

	if req.Phone == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Phone and password are required",
			Status:  fiber.StatusBadRequest,
			Data:    nil,
		})
	}

	// Make call to external API through the service
	loginResponse, err := h.httpService.RequestLoginUser(types.LoginRequest{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		logger.Error("Failed to login user", err)
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Message: "Failed to login user",
			Status:  fiber.StatusBadGateway,
		})
	}

	currentTime := time.Now().Format("2006-01-02 03:04:05 PM")

	// Check if user exists in local database, create if not exists
	if loginResponse.Status == "success" && loginResponse.User.UUID != "" {
		var existingUser user.User
		result := database.DB.Where("uuid = ?", loginResponse.User.UUID).First(&existingUser)

		if result.Error != nil {
			// User doesn't exist, create new user
			newUser := user.User{
				Uuid:          loginResponse.User.UUID,
				Username:      loginResponse.User.Username,
				LegalName:     loginResponse.User.LegalName,
				Phone:         loginResponse.User.PhoneNumber,
				PhoneVerified: true,
				EmailVerified: false,
				Permissions:   user.StringSlice(loginResponse.User.Permissions),
			}
			if loginResponse.User.Email != "" {
				email := loginResponse.User.Email
				newUser.Email = &email
			}

			if err := database.DB.Create(&newUser).Error; err != nil {
				logger.Error("Failed to create user in local database", err)
				// Continue with login even if local database sync fails
			} else {
				logger.Success("User created in local database successfully. UUID: " + newUser.Uuid)
			}
		} else {
			// User exists, keep permissions in sync with the SSO provider
			updates := map[string]interface{}{
				"username":    loginResponse.User.Username,
				"legal_name":  loginResponse.User.LegalName,
				"permissions": user.StringSlice(loginResponse.User.Permissions),
			}
			if err := database.DB.Model(&existingUser).Updates(updates).Error; err != nil {
				logger.Error("Failed to sync user from SSO", err)
			}
		}
	}

	// Set cookies for access and refresh tokens
	if loginResponse.Access != "" {
		h.setSecureCookie(c, "access", loginResponse.Access, 8*60*60) // 8 hours
	}

	if loginResponse.Refresh != "" {
		h.setSecureCookie(c, "refresh", loginResponse.Refresh, 7*24*60*60) // 7 days
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("User logged in successfully. uuid: " + loginResponse.User.UUID + " at " + currentTime)
	return c.Status(fiber.StatusOK).JSON(loginResponse)
}

func (h *AuthController) Register(c *fiber.Ctx) error {
	// Parse the request body as JSON
	var req types.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		response := types.ErrorResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		}
		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	// Get the access token from Authorization header
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		logger.Error("Authorization header missing", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Authorization token required",
			Status:  fiber.StatusUnauthorized,
		})
	}

	// Extract Bearer token
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		logger.Error("Invalid authorization header format", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
			Message: "Invalid authorization header format",
			Status:  fiber.StatusUnauthorized,
		})
	}

	accessToken := tokenParts[1]

	// Validate request
	if validationErr := req.Validate(); validationErr != "" {
		logger.Error(validationErr, nil)
		response := types.ErrorResponse{
			Message: validationErr,
			Status:  fiber.StatusBadRequest,
		}
		return c.Status(fiber.StatusBadRequest).JSON(response)
	}

	// Make call to external API through the service
	registerResponse, err := h.httpService.RequestRegisterUser(types.RegisterUserRequest{
		PhoneNumber: req.PhoneNumber,
		Token:       req.Token,
		Password:    req.Password,
		Username:    req.Username,
		Access:      accessToken,
	})
	if err != nil {
		logger.Error("Failed to register user", err)
		return c.Status(fiber.StatusBadGateway).JSON(types.ErrorResponse{
			Message: "Failed to register user",
			Status:  fiber.StatusBadGateway,
		})
	}

	currentTime := time.Now().Format("2006-01-02 03:04:05 PM")

	// If registration was successful, create user in local database
	if registerResponse.Status == "success" && registerResponse.User.UUID != "" {
		newUser := user.User{
			Uuid:          registerResponse.User.UUID,
			Username:      registerResponse.User.Username,
			LegalName:     registerResponse.User.LegalName,
			Phone:         registerResponse.User.PhoneNumber,
			PhoneVerified: false, // Set to false initially as SMS is sent for verification
			EmailVerified: false,
			Permissions:   user.StringSlice{},
		}
		if registerResponse.User.Email != "" {
			email := registerResponse.User.Email
			newUser.Email = &email
		}

		if err := database.DB.Create(&newUser).Error; err != nil {
			logger.Error("Failed to create user in local database", err)
			// Note: We still return success since external registration succeeded
		} else {
			logger.Success("User created in local database successfully. UUID: " + newUser.Uuid)
		}
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("User registered successfully." + " at " + currentTime)
	return c.Status(fiber.StatusOK).JSON(registerResponse)
}

func (h *AuthController) GetServiceToken(c *fiber.Ctx) error {
	var req types.GetServiceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid request payload",
			Status:  fiber.StatusBadRequest,
		})
	}

	if validationErr := req.Validate(); validationErr != "" {
		logger.Error(validationErr, nil)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: validationErr,
			Status:  fiber.StatusBadRequest,
		})
	}

	// Make call to external API through the service
	redirectToken, err := h.httpService.RequestRedirectToken(httpServices.ServiceUserRequest{
		InternalIdentifier: req.InternalIdentifier,
		RedirectURL:        req.RedirectURL,
		UserType:           req.UserType,
	})
	if err != nil {
		logger.Error("Failed to retrieve redirect token", err)
		return c.Status(fiber.StatusBadGateway).JSON(types.ApiResponse{
			Message: "Failed to communicate with external service",
			Status:  fiber.StatusBadGateway,
		})
	}

	response := types.ApiResponse{
		Message: "Got redirect token successfully",
		Status:  fiber.StatusOK,
		Data: map[string]interface{}{
			"redirect_token": redirectToken,
		},
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *AuthController) LogOut(c *fiber.Ctx) error {
	// Clear the auth cookies regardless of token state
	h.setSecureCookie(c, "access", "", -1)
	h.setSecureCookie(c, "refresh", "", -1)

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Logged out successfully",
		Status:  fiber.StatusOK,
		Data:    nil,
	})
}
