package integrity

import (
	"time"

	"lore-sync/core/lore"
	"lore-sync/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the integrity feature.
func NewFeature(remote checks.Pinger, store lore.Store, inspector checks.SchemaInspector, categories []lore.Category, pingTimeout time.Duration, logger *zap.Logger) *Feature {
	svc := NewService(remote, store, inspector, categories, pingTimeout, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
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
