package services

import (
	"ferry-booking/constants"
	"ferry-booking/middleware"

	"github.com/gofiber/fiber/v2"
)

// PermissionService answers permission questions inside handlers, for
// decisions finer than the route-level gates.
type PermissionService struct{}

func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// CheckPermission reports whether the caller holds one permission.
func (ps *PermissionService) CheckPermission(c *fiber.Ctx, permission string) bool {
	return middleware.CheckPermissionInController(c, permission)
}

// CheckAnyPermission reports whether the caller holds at least one of
// the given permissions.
func (ps *PermissionService) CheckAnyPermission(c *fiber.Ctx, permissions ...string) bool {
	held := middleware.GetUserPermissions(c)
	for _, permission := range permissions {
		if held[permission] {
			return true
		}
	}
	return false
}

// GetUsername reads the username out of the verified claims.
func (ps *PermissionService) GetUsername(c *fiber.Ctx) (string, bool) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return "", false
	}
	username, ok := claims["username"].(string)
	return username, ok
}

// IsAdmin reports whether the caller holds any admin-grade permission.
func (ps *PermissionService) IsAdmin(c *fiber.Ctx) bool {
	return ps.CheckAnyPermission(c, constants.AdminPermissions...)
}
