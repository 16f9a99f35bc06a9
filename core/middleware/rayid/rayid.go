package rayid

import (
	"library-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the request and response header carrying the ray id.
const HeaderName = "X-Ray-ID"

// New returns a middleware that assigns every request a ray id.
// A valid incoming X-Ray-ID is reused so callers can correlate their own logs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Locals(logger.RayIDKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
