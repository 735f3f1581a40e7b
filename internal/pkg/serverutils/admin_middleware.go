package serverutils

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminTokenMiddleware guards admin routes with a shared token.
// An empty token leaves the routes open, which is the local development default.
func AdminTokenMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token == "" {
			return ctx.Next()
		}

		provided := ctx.Get(AdminTokenHeader)
		if provided == "" {
			authHeader := ctx.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				provided = authHeader[7:]
			}
		}

		if provided == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing admin token")
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid admin token")
		}
		return ctx.Next()
	}
}
