package integrity

import (
	"board-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/order", h.HandleOrderCheck)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the order and schema checks and returns both reports.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if order, err := h.service.CheckOrder(c.Context()); err != nil {
		report["order"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["order"] = order
	}

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	return c.JSON(report)
}

// HandleOrderCheck checks and optionally repairs sibling order.
// @Summary Check Order
// @Description Reports scopes whose order values are not 0..n-1 and entities pointing at missing folders. With fix=true every scope is renumbered and the new state is broadcast.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Renumber every scope"
// @Success 200 {object} checks.OrderReport "Order Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/order [get]
func (h *Handler) HandleOrderCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckOrder(c.Context())
	if err != nil {
		l.Error("Order check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if report.Matched || !fix {
		if !report.Matched {
			l.Warn("Order problems detected",
				zap.Strings("scopes", report.Problems()),
				zap.Strings("dangling", report.Dangling))
		}
		return c.JSON(fiber.Map{
			"status": "checked",
			"report": report,
		})
	}

	l.Info("Attempting to fix order", zap.Strings("scopes", report.Problems()))
	fixed, out, err := h.service.FixOrder(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to fix order",
			"details": err.Error(),
			"report":  report,
		})
	}
	return c.JSON(fiber.Map{
		"status":   "fixed",
		"affected": out.Result.Affected,
		"before":   report,
		"report":   fixed,
	})
}

// HandleSchemaCheck validates the database schema.
// @Summary Check Schema
// @Description Validates that the items and folders tables carry every expected column.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Schema mismatch detected", zap.Any("tables", report.Tables))
	}
	return c.JSON(report)
}
