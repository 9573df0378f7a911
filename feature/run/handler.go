package run

import (
	"bufio"
	"errors"
	"fmt"

	"armory/core/journal"
	"armory/core/logger"
	"armory/core/runner"
	"armory/core/store"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for process supervision.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the run routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/profiles/:id")
	group.Post("/start", h.HandleStart)
	group.Post("/stop", h.HandleStop)
	group.Get("/status", h.HandleStatus)
	group.Get("/logs", h.HandleLogs)
	group.Get("/logs/tail", h.HandleTail)
	group.Get("/events", h.HandleEvents)
}

// HandleStart launches the profile's server process.
// @Summary Start server
// @Description Synthesize the profile's config and launch its server process.
// @Tags run
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} runner.Status
// @Failure 404 {object} map[string]string "Profile not found"
// @Failure 409 {object} map[string]string "Blocked by drift or invalid state"
// @Router /profiles/{id}/start [post]
func (h *Handler) HandleStart(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	status, err := h.service.Start(c.Context(), c.Params("id"))
	if err != nil {
		var drift *runner.DriftBlockedError
		if errors.As(err, &drift) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
				"drift": drift.Report,
			})
		}
		if errors.Is(err, store.ErrProfileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Start failed", zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(status)
}

// HandleStop gracefully stops the profile's server process.
// @Summary Stop server
// @Tags run
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} runner.Status
// @Failure 409 {object} map[string]string "No running server"
// @Router /profiles/{id}/stop [post]
func (h *Handler) HandleStop(c *fiber.Ctx) error {
	status, err := h.service.Stop(c.Context(), c.Params("id"))
	if err != nil {
		var invalid *runner.InvalidTransitionError
		if errors.As(err, &invalid) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.service.logger, c).Error("Stop failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(status)
}

// HandleStatus returns the profile's run state.
// @Summary Server status
// @Tags run
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} runner.Status
// @Router /profiles/{id}/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status(c.Params("id")))
}

// HandleLogs streams live log lines as server-sent events.
// @Summary Stream server logs
// @Description Stream log lines as SSE. Lines before subscription are not replayed unless backlog is set.
// @Tags run
// @Produce text/event-stream
// @Param id path string true "Profile ID"
// @Param backlog query int false "Recent lines to replay first" default(0)
// @Success 200 {string} string "SSE stream"
// @Failure 409 {object} map[string]string "No server instance"
// @Router /profiles/{id}/logs [get]
func (h *Handler) HandleLogs(c *fiber.Ctx) error {
	backlog := c.QueryInt("backlog", 0)

	ch, cancel, err := h.service.Subscribe(c.Params("id"), backlog)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		for line := range ch {
			if _, err := fmt.Fprintf(w, "data: %s\n\n", line); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}

// HandleTail returns the most recent log lines.
// @Summary Tail server logs
// @Tags run
// @Produce json
// @Param id path string true "Profile ID"
// @Param lines query int false "Line count" default(100)
// @Success 200 {array} string
// @Router /profiles/{id}/logs/tail [get]
func (h *Handler) HandleTail(c *fiber.Ctx) error {
	lines := h.service.Tail(c.Params("id"), c.QueryInt("lines", 100))
	if lines == nil {
		lines = []string{}
	}
	return c.JSON(lines)
}

// HandleEvents returns the persisted run history.
// @Summary Run event history
// @Tags run
// @Produce json
// @Param id path string true "Profile ID"
// @Param limit query int false "Max events" default(50)
// @Success 200 {array} journal.RunEvent
// @Router /profiles/{id}/events [get]
func (h *Handler) HandleEvents(c *fiber.Ctx) error {
	events, err := h.service.Events(c.Context(), c.Params("id"), c.QueryInt("limit", 50))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Event history failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if events == nil {
		events = []journal.RunEvent{}
	}
	return c.JSON(events)
}
