package middleware

import (
	"ferry-booking/constants"

	"github.com/gofiber/fiber/v2"
)

// RequirePermissions gates a route on holding one of the listed
// permissions exactly.
func RequirePermissions(permissions ...string) fiber.Handler {
	return IsAuthenticated(permissions)
}

// RequireAnyPermission gates a route on a valid token; listed
// permissions widen access but any authenticated caller passes.
func RequireAnyPermission(permissions ...string) fiber.Handler {
	return IsAuthenticated(append(permissions, constants.PermAny))
}

// CheckPermissionInController answers whether the caller holds one
// specific permission, for checks finer than the route gate.
func CheckPermissionInController(c *fiber.Ctx, requiredPermission string) bool {
	return GetUserPermissions(c)[requiredPermission]
}

// GetUserPermissions returns the caller's permission set from the
// request context, rebuilding it from the claims if the middleware
// local is missing.
func GetUserPermissions(c *fiber.Ctx) map[string]bool {
	if perms, ok := c.Locals("permissions").(map[string]bool); ok {
		return perms
	}
	if claims, ok := c.Locals("user").(map[string]interface{}); ok {
		return permissionSet(claims)
	}
	return make(map[string]bool)
}
