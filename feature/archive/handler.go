package archive

import (
	"board-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for snapshot archives.
type Handler struct {
	archiver *Archiver
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(archiver *Archiver, logger *zap.Logger) *Handler {
	return &Handler{archiver: archiver, logger: logger}
}

// RegisterRoutes registers the archive routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/archive")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Get("/latest", h.HandleLatest)
}

// HandleCreate archives the current board state.
// @Summary Archive Snapshot
// @Description Stores the current board snapshot as a new timestamped object and prunes old copies.
// @Tags archive
// @Produce json
// @Success 201 {object} archive.Entry
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /archive [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	entry, err := h.archiver.Archive(c.Context())
	if err != nil {
		l.Error("Failed to archive snapshot", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleList lists archived snapshots.
// @Summary List Archives
// @Description Lists archived snapshot objects, newest first.
// @Tags archive
// @Produce json
// @Success 200 {array} archive.Entry
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /archive [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	entries, err := h.archiver.List(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to list archive", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entries)
}

// HandleLatest returns the snapshot last flushed by the background worker.
// @Summary Latest Archived Snapshot
// @Description Reads back the latest snapshot object.
// @Tags archive
// @Produce json
// @Success 200 {object} board.Snapshot
// @Failure 502 {object} map[string]string "Storage unavailable or object missing"
// @Router /archive/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	snap, err := h.archiver.Latest(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("Failed to read latest snapshot", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(snap)
}
