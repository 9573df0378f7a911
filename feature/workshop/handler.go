package workshop

import (
	"errors"

	"armory/core/logger"
	core "armory/core/workshop"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for workshop resolution.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the workshop routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/workshop")
	group.Post("/resolve", h.HandleResolve)
}

type resolveRequest struct {
	// Input is a workshop URL or a raw 16-character identifier.
	Input string `json:"input"`
	// MaxDepth limits traversal depth; 0 uses the configured default.
	MaxDepth int `json:"max_depth"`
}

// HandleResolve resolves a workshop item into its dependency graph.
// @Summary Resolve workshop dependencies
// @Description Resolve a workshop URL or id into its transitive dependency graph and scenario list.
// @Tags workshop
// @Accept json
// @Produce json
// @Param request body resolveRequest true "Resolution request"
// @Success 200 {object} ResolveResult "Dependency graph"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 502 {object} map[string]string "Upstream fetch failed"
// @Router /workshop/resolve [post]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := h.service.Resolve(c.Context(), req.Input, req.MaxDepth)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrBadIdentifier), errors.Is(err, core.ErrDepthOutOfRange):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, core.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Resolution failed", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(result)
}
