package rayid

import (
	"net/http/httptest"
	"testing"

	"library-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(logger.RayIDKey).(string))
	})

	t.Run("Generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		rid := resp.Header.Get(HeaderName)
		_, err = uuid.Parse(rid)
		assert.NoError(t, err)
	})

	t.Run("Propagated", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(HeaderName, incoming)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, incoming, resp.Header.Get(HeaderName))
	})

	t.Run("Garbage replaced", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(HeaderName, "<script>")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.NotEqual(t, "<script>", resp.Header.Get(HeaderName))
	})
}
