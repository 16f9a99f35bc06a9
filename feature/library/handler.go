package library

import (
	"errors"
	"strconv"

	"library-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for library entries.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/library")
	group.Get("/", h.HandleListFavorites)
	group.Get("/:id", h.HandleGetEntry)
}

// HandleListFavorites lists the library.
// @Summary List Library
// @Description List every entry currently in the library, most recently added first.
// @Tags library
// @Produce json
// @Success 200 {array} reconcile.Entry "Entries"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /library [get]
func (h *Handler) HandleListFavorites(c *fiber.Ctx) error {
	entries, err := h.service.Favorites(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing library failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}

// HandleGetEntry returns an entry with its episodes, categories and tracks.
// @Summary Get Library Entry
// @Description Get an entry with everything a migration can carry over.
// @Tags library
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} library.EntryDetail "Entry Detail"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Entry Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /library/{id} [get]
func (h *Handler) HandleGetEntry(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}

	detail, err := h.service.Detail(c.Context(), id)
	if errors.Is(err, ErrEntryNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Loading entry failed", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(detail)
}
