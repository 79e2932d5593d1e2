package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// CORS sets an allow-list-checked Access-Control-Allow-Origin on every
// response. Unrecognized origins get the literal "null" rather than being
// omitted, so browsers refuse the response instead of retrying without CORS.
// Preflight requests are answered before routing.
func CORS(allowedOrigins []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		allow := "null"
		if _, ok := allowed[origin]; ok {
			allow = origin
		}

		c.Set(fiber.HeaderAccessControlAllowOrigin, allow)
		c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Authorization, X-Client-Info, Content-Type")
		c.Set(fiber.HeaderAccessControlAllowMethods, "POST, GET, OPTIONS")

		if c.Method() == fiber.MethodOptions {
			return c.SendString("ok")
		}

		return c.Next()
	}
}
