package migration

import (
	"errors"
	"strconv"

	"library-manager/core/logger"
	"library-manager/core/reconcile"
	"library-manager/feature/library"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MigrateRequest is the body of a migration request.
type MigrateRequest struct {
	OldID   int64 `json:"old_id"`
	NewID   int64 `json:"new_id"`
	Replace bool  `json:"replace"`

	// Facets lists facet names or facet positions. Omit it to use the stored selection.
	Facets *reconcile.FacetSet `json:"facets,omitempty" swaggertype:"array,string"`

	DryRun bool `json:"dry_run"`
}

// StatusResponse tells whether an entry is being migrated.
type StatusResponse struct {
	EntryID   int64 `json:"entry_id"`
	Migrating bool  `json:"migrating"`
}

// Handler handles HTTP requests for migrations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the migration routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/migration")
	group.Post("/", h.HandleMigrate)
	group.Get("/status/:id", h.HandleStatus)
	group.Get("/facets/:id", h.HandleFacets)
}

// HandleMigrate migrates one entry onto another.
// @Summary Migrate Entry
// @Description Carry the selected facets of the old entry over to the new one. With replace the old entry leaves the library; with dry_run nothing is written and the plan is returned.
// @Tags migration
// @Accept json
// @Produce json
// @Param request body MigrateRequest true "Migration"
// @Success 200 {object} reconcile.Plan "Plan"
// @Failure 400 {object} map[string]string "Invalid Request"
// @Failure 404 {object} map[string]string "Entry Not Found"
// @Failure 409 {object} map[string]string "Migration In Progress"
// @Failure 422 {object} map[string]string "Same Entry"
// @Failure 502 {object} map[string]string "Remote Fetch Failed"
// @Failure 503 {object} map[string]string "Source Unavailable"
// @Failure 500 {object} map[string]interface{} "Migration Failed"
// @Router /migration [post]
func (h *Handler) HandleMigrate(c *fiber.Ctx) error {
	var req MigrateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}
	if req.OldID <= 0 || req.NewID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "old_id and new_id are required"})
	}

	l := logger.WithRayID(h.service.logger, c)
	plan, err := h.service.Migrate(c.Context(), MigrateInput{
		OldID:   req.OldID,
		NewID:   req.NewID,
		Replace: req.Replace,
		Facets:  req.Facets,
		DryRun:  req.DryRun,
	})
	if err == nil {
		return c.JSON(plan)
	}

	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		l.Error("Migration failed", zap.Int64("old_id", req.OldID), zap.Int64("new_id", req.NewID), zap.Error(err))
		// The plan shows which steps were attempted before the failure.
		return c.Status(status).JSON(fiber.Map{"error": err.Error(), "plan": plan})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, library.ErrEntryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrMigrationInProgress):
		return fiber.StatusConflict
	case errors.Is(err, reconcile.ErrSameEntry):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, reconcile.ErrRemoteFetchFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, reconcile.ErrSourceUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleStatus reports whether an entry is being migrated.
// @Summary Migration Status
// @Tags migration
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} StatusResponse "Status"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Router /migration/status/{id} [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}
	return c.JSON(StatusResponse{EntryID: id, Migrating: h.service.Migrating(id)})
}

// HandleFacets lists the facets selectable for migrating an entry.
// @Summary Migration Facets
// @Description List the facets that can be carried over from the entry, with the current default selection.
// @Tags migration
// @Produce json
// @Param id path int true "Old Entry ID"
// @Success 200 {array} FacetOption "Facets"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Entry Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /migration/facets/{id} [get]
func (h *Handler) HandleFacets(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
	}

	options, err := h.service.Facets(c.Context(), id)
	if errors.Is(err, library.ErrEntryNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Listing facets failed", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(options)
}
