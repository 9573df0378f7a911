package profiles

import (
	"errors"

	"armory/core/confgen"
	"armory/core/logger"
	"armory/core/store"
	"armory/core/workshop"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for profiles.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the profile and package routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/profiles")
	group.Post("/", h.HandleCreate)
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Patch("/:id", h.HandleUpdate)
	group.Delete("/:id", h.HandleDelete)
	group.Post("/:id/refresh", h.HandleRefresh)
	group.Get("/:id/drift", h.HandleDrift)
	group.Get("/:id/config", h.HandlePreviewConfig)
	group.Post("/:id/config", h.HandleGenerateConfig)

	packages := app.Group("/packages")
	packages.Get("/", h.HandleListPackages)
	packages.Post("/", h.HandleSavePackage)
	packages.Delete("/:id", h.HandleDeletePackage)

	app.Get("/config/overridable-paths", h.HandleOverridablePaths)
}

// fail maps service errors onto HTTP statuses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrProfileNotFound), errors.Is(err, store.ErrPackageNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, workshop.ErrBadIdentifier),
		errors.Is(err, workshop.ErrDepthOutOfRange),
		errors.Is(err, confgen.ErrInvalidOverride):
		status = fiber.StatusBadRequest
	case errors.Is(err, confgen.ErrNoSnapshot), errors.Is(err, confgen.ErrMissingScenario):
		status = fiber.StatusConflict
	case errors.Is(err, workshop.ErrUnreachable), errors.Is(err, workshop.ErrNotFound):
		status = fiber.StatusBadGateway
	}
	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type createRequest struct {
	DisplayName string `json:"display_name"`
	WorkshopURL string `json:"workshop_url"`
	MaxDepth    int    `json:"max_depth"`
}

// HandleCreate creates a profile from a workshop URL.
// @Summary Create profile
// @Description Create a server profile from a workshop URL or id.
// @Tags profiles
// @Accept json
// @Produce json
// @Param request body createRequest true "Profile to create"
// @Success 201 {object} store.Profile
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /profiles [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	profile, err := h.service.Create(store.CreateInput{
		DisplayName: req.DisplayName,
		WorkshopURL: req.WorkshopURL,
		MaxDepth:    req.MaxDepth,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// HandleList lists all profiles.
// @Summary List profiles
// @Tags profiles
// @Produce json
// @Success 200 {array} store.Profile
// @Router /profiles [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	profiles, err := h.service.List()
	if err != nil {
		return h.fail(c, err)
	}
	if profiles == nil {
		profiles = []*store.Profile{}
	}
	return c.JSON(profiles)
}

// HandleGet returns one profile.
// @Summary Get profile
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} store.Profile
// @Failure 404 {object} map[string]string "Not found"
// @Router /profiles/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	profile, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

// HandleUpdate applies a partial profile update.
// @Summary Update profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param request body UpdateInput true "Fields to update"
// @Success 200 {object} store.Profile
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Not found"
// @Router /profiles/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	profile, err := h.service.Update(c.Params("id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(profile)
}

// HandleDelete removes a profile, stopping its server first.
// @Summary Delete profile
// @Tags profiles
// @Param id path string true "Profile ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Router /profiles/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRefresh re-resolves the dependency graph and commits the snapshot.
// @Summary Refresh snapshot
// @Description Re-resolve the profile's workshop dependencies and store the result.
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} map[string]any "Committed graph"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 502 {object} map[string]string "Upstream fetch failed"
// @Router /profiles/{id}/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	graph, depthExceeded, err := h.service.Refresh(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"graph":          graph,
		"depth_exceeded": depthExceeded,
	})
}

// HandleDrift reports drift between the snapshot and a fresh resolution.
// @Summary Check drift
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} store.DriftReport
// @Failure 404 {object} map[string]string "Not found"
// @Router /profiles/{id}/drift [get]
func (h *Handler) HandleDrift(c *fiber.Ctx) error {
	report, err := h.service.Drift(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}

// HandlePreviewConfig returns the synthesized config without persisting it.
// @Summary Preview config
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} confgen.ServerConfig
// @Failure 409 {object} map[string]string "Profile not refreshed or scenario missing"
// @Router /profiles/{id}/config [get]
func (h *Handler) HandlePreviewConfig(c *fiber.Ctx) error {
	data, err := h.service.PreviewConfig(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// HandleGenerateConfig synthesizes and persists the config artifact.
// @Summary Generate config
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} map[string]string "Artifact path"
// @Failure 409 {object} map[string]string "Profile not refreshed or scenario missing"
// @Router /profiles/{id}/config [post]
func (h *Handler) HandleGenerateConfig(c *fiber.Ctx) error {
	path, err := h.service.GenerateConfig(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"path": path})
}

// HandleOverridablePaths lists the config fields open to overrides.
// @Summary List overridable config paths
// @Tags profiles
// @Produce json
// @Success 200 {array} string
// @Router /config/overridable-paths [get]
func (h *Handler) HandleOverridablePaths(c *fiber.Ctx) error {
	return c.JSON(h.service.OverridablePaths())
}

// HandleListPackages lists shared mod packages.
// @Summary List mod packages
// @Tags packages
// @Produce json
// @Success 200 {array} store.ModPackage
// @Router /packages [get]
func (h *Handler) HandleListPackages(c *fiber.Ctx) error {
	packages, err := h.service.ListPackages()
	if err != nil {
		return h.fail(c, err)
	}
	if packages == nil {
		packages = []store.ModPackage{}
	}
	return c.JSON(packages)
}

type packageRequest struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	ModIDs []string `json:"mod_ids"`

	// ModIDsText accepts a pasted newline- or comma-separated id list as an
	// alternative to mod_ids.
	ModIDsText string `json:"mod_ids_text"`
}

// HandleSavePackage creates or updates a mod package.
// @Summary Save mod package
// @Tags packages
// @Accept json
// @Produce json
// @Param request body packageRequest true "Package"
// @Success 200 {object} store.ModPackage
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /packages [post]
func (h *Handler) HandleSavePackage(c *fiber.Ctx) error {
	var req packageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	modIDs := req.ModIDs
	if len(modIDs) == 0 && req.ModIDsText != "" {
		modIDs = workshop.ParseModIDList(req.ModIDsText)
	}

	saved, err := h.service.SavePackage(store.ModPackage{
		ID:     req.ID,
		Name:   req.Name,
		ModIDs: modIDs,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(saved)
}

// HandleDeletePackage removes a mod package.
// @Summary Delete mod package
// @Tags packages
// @Param id path string true "Package ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Router /packages/{id} [delete]
func (h *Handler) HandleDeletePackage(c *fiber.Ctx) error {
	if err := h.service.DeletePackage(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
