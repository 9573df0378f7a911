package profiles

import (
	"armory/core/confgen"
	"armory/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the profiles feature. mirror may be nil.
func NewFeature(st *store.Store, generator *confgen.Generator, supervisor Supervisor, mirror ArtifactMirror, logger *zap.Logger) *Feature {
	svc := NewService(st, generator, supervisor, mirror, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "profiles"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
