package board

import (
	"errors"

	"board-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the board commands over HTTP.
type Handler struct {
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(dispatcher *Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, logger: logger}
}

// RegisterRoutes registers the board routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Get("/state", h.HandleGetState)
	group.Post("/items", h.HandleAddItem)
	group.Post("/items/:id/move", h.HandleMoveItem)
	group.Post("/folders", h.HandleAddFolder)
	group.Post("/folders/:id/move", h.HandleMoveFolder)
	group.Post("/folders/:id/toggle", h.HandleToggleFolder)
}

// HandleGetState returns the current snapshot.
// @Summary Get Board State
// @Description Returns every item and folder, each list sorted by order ascending.
// @Tags board
// @Produce json
// @Success 200 {object} board.Snapshot "Snapshot"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/state [get]
func (h *Handler) HandleGetState(c *fiber.Ctx) error {
	out, err := h.dispatcher.GetInitialState(c.Context())
	return h.respond(c, out, err)
}

// HandleAddItem appends an item to a scope.
// @Summary Add Item
// @Description Appends an item at the end of the root scope or of a folder.
// @Tags board
// @Accept json
// @Produce json
// @Param item body board.AddItemRequest true "Item"
// @Success 201 {object} board.Snapshot "Snapshot"
// @Failure 400 {object} map[string]string "Malformed payload"
// @Failure 404 {object} map[string]string "Folder not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/items [post]
func (h *Handler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	out, err := h.dispatcher.AddItem(c.Context(), req)
	if err == nil && out.Result.Status == StatusOK {
		c.Status(fiber.StatusCreated)
	}
	return h.respond(c, out, err)
}

// HandleAddFolder appends a folder to the root scope.
// @Summary Add Folder
// @Description Appends a folder at the end of the root scope. isOpen defaults to true.
// @Tags board
// @Accept json
// @Produce json
// @Param folder body board.AddFolderRequest true "Folder"
// @Success 201 {object} board.Snapshot "Snapshot"
// @Failure 400 {object} map[string]string "Malformed payload"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/folders [post]
func (h *Handler) HandleAddFolder(c *fiber.Ctx) error {
	var req AddFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	out, err := h.dispatcher.AddFolder(c.Context(), req)
	if err == nil && out.Result.Status == StatusOK {
		c.Status(fiber.StatusCreated)
	}
	return h.respond(c, out, err)
}

// HandleMoveItem moves an item to a new position and scope.
// @Summary Move Item
// @Description Moves an item to newOrder inside targetFolderId (null for root).
// @Tags board
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param move body board.MoveItemRequest true "Target (itemId is taken from the path)"
// @Success 200 {object} board.Snapshot "Snapshot"
// @Failure 400 {object} map[string]string "Malformed payload"
// @Failure 404 {object} map[string]string "Item or folder not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/items/{id}/move [post]
func (h *Handler) HandleMoveItem(c *fiber.Ctx) error {
	var req MoveItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	req.ItemID = c.Params("id")
	out, err := h.dispatcher.MoveItem(c.Context(), req)
	return h.respond(c, out, err)
}

// HandleMoveFolder moves a folder to a new position.
// @Summary Move Folder
// @Description Moves a folder to newOrder within its scope.
// @Tags board
// @Accept json
// @Produce json
// @Param id path string true "Folder ID"
// @Param move body board.MoveFolderRequest true "Target (folderId is taken from the path)"
// @Success 200 {object} board.Snapshot "Snapshot"
// @Failure 400 {object} map[string]string "Malformed payload"
// @Failure 404 {object} map[string]string "Folder not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/folders/{id}/move [post]
func (h *Handler) HandleMoveFolder(c *fiber.Ctx) error {
	var req MoveFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	req.FolderID = c.Params("id")
	out, err := h.dispatcher.MoveFolder(c.Context(), req)
	return h.respond(c, out, err)
}

// HandleToggleFolder flips a folder open or closed.
// @Summary Toggle Folder
// @Tags board
// @Produce json
// @Param id path string true "Folder ID"
// @Success 200 {object} board.Snapshot "Snapshot"
// @Failure 404 {object} map[string]string "Folder not found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /api/folders/{id}/toggle [post]
func (h *Handler) HandleToggleFolder(c *fiber.Ctx) error {
	out, err := h.dispatcher.ToggleFolder(c.Context(), c.Params("id"))
	return h.respond(c, out, err)
}

func (h *Handler) respond(c *fiber.Ctx, out *Outcome, err error) error {
	l := logger.WithRayID(h.logger, c)
	if err != nil {
		if errors.Is(err, ErrMalformedCommand) {
			return badRequest(c, err)
		}
		l.Error("Board command failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if out.Result.Status == StatusNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found", "id": out.Result.ID})
	}
	if out.Snapshot == nil {
		// Nothing changed, so nothing was broadcast; the caller still gets the state.
		state, err := h.dispatcher.GetInitialState(c.Context())
		if err != nil {
			l.Error("Board command failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(state.Snapshot)
	}
	return c.JSON(out.Snapshot)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
