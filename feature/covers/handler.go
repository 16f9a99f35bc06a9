package covers

import (
	"bytes"
	"strconv"

	"library-manager/core/logger"
	"library-manager/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for custom covers.
type Handler struct {
	cache  *Cache
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(cache *Cache, logger *zap.Logger) *Handler {
	return &Handler{cache: cache, logger: logger}
}

// RegisterRoutes registers the cover routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/covers")
	group.Get("/:id", h.HandleGetCover)
	group.Put("/:id", h.HandlePutCover)
	group.Delete("/:id", h.HandleDeleteCover)
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// HandleGetCover streams an entry's custom cover.
// @Summary Get Custom Cover
// @Tags covers
// @Produce image/jpeg
// @Param id path int true "Entry ID"
// @Success 200 {file} binary "Cover image"
// @Failure 404 {object} map[string]string "No custom cover"
// @Router /covers/{id} [get]
func (h *Handler) HandleGetCover(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}
	l := logger.WithRayID(h.logger, c)

	has, err := h.cache.HasCustomCover(c.Context(), id)
	if err != nil {
		l.Error("Cover lookup failed", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !has {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no custom cover"})
	}

	rc, err := h.cache.GetCustomCover(c.Context(), id)
	if err != nil {
		l.Error("Cover read failed", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	// fasthttp closes the stream once it is sent
	return c.SendStream(rc)
}

// HandlePutCover stores the request body as an entry's custom cover.
// @Summary Set Custom Cover
// @Tags covers
// @Accept image/jpeg
// @Param id path int true "Entry ID"
// @Success 204 "Stored"
// @Failure 400 {object} map[string]string "Empty body"
// @Router /covers/{id} [put]
func (h *Handler) HandlePutCover(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty cover"})
	}

	if err := h.cache.SetCustomCover(c.Context(), reconcile.Entry{ID: id}, bytes.NewReader(body)); err != nil {
		logger.WithRayID(h.logger, c).Error("Cover upload failed", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteCover removes an entry's custom cover.
// @Summary Delete Custom Cover
// @Tags covers
// @Param id path int true "Entry ID"
// @Success 204 "Deleted"
// @Router /covers/{id} [delete]
func (h *Handler) HandleDeleteCover(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}
	if err := h.cache.DeleteCustomCover(c.Context(), id); err != nil {
		logger.WithRayID(h.logger, c).Error("Cover delete failed", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
