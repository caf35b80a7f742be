package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"ferry-booking/constants"
	"ferry-booking/logger"
	"ferry-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IsAuthenticated verifies the caller's JWT against the identity
// provider's public key and gates on the required permissions. The
// verified claims and the caller's permission set are attached to the
// request context for the controllers.
func IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := requestToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status": "error",
				"error":  err.Error(),
			})
		}

		claims, ok := authorize(token, requiredPermissions)
		if !ok {
			logger.Warning("Access denied: insufficient permissions")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status": "error",
				"error":  "Insufficient permissions",
			})
		}

		if claims["username"] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Session expired. Login again.",
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals("user", claims)
		c.Locals("permissions", permissionSet(claims))
		return c.Next()
	}
}

// requestToken pulls the access token from the Authorization header,
// falling back to the access cookie set at login.
func requestToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", fmt.Errorf("invalid authorization header format")
		}
		return parts[1], nil
	}

	token := c.Cookies("access")
	if token == "" {
		return "", fmt.Errorf("authorization token missing")
	}
	return token, nil
}

// authorize verifies the token and checks the caller holds at least one
// of the required permissions. constants.PermAny skips the permission
// check but still requires a valid token.
func authorize(token string, requiredPermissions []string) (map[string]interface{}, bool) {
	claims, err := verifyToken(token)
	if err != nil {
		logger.Warning(fmt.Sprintf("JWT verification failed: %v", err))
		return nil, false
	}

	for _, perm := range requiredPermissions {
		if perm == constants.PermAny {
			return claims, true
		}
	}

	held := permissionSet(claims)
	for _, perm := range requiredPermissions {
		if held[perm] {
			return claims, true
		}
	}
	return claims, false
}

// permissionSet flattens the claims' permission list into a lookup map.
func permissionSet(claims map[string]interface{}) map[string]bool {
	set := make(map[string]bool)
	raw, ok := claims["permissions"].([]interface{})
	if !ok {
		return set
	}
	for _, p := range raw {
		if perm, ok := p.(string); ok {
			set[perm] = true
		}
	}
	return set
}

// verifyToken parses and validates an RS256 token against the provider's
// current public key.
func verifyToken(tokenString string) (jwt.MapClaims, error) {
	publicKey, err := signingKey()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

// signingKey fetches the provider's RSA public key. The endpoint answers
// with a JSON object whose "key" field holds the PEM block.
func signingKey() (*rsa.PublicKey, error) {
	url := os.Getenv("PUBLIC_KEY_URL")

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("public key endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key response: %w", err)
	}

	keyResponse := struct {
		Key string `json:"key"`
	}{}
	if err := json.Unmarshal(body, &keyResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal public key response: %w", err)
	}

	block, _ := pem.Decode([]byte(keyResponse.Key))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaKey, nil
}
