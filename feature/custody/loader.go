package custody

import (
	"assetbot/core/audit"
	"assetbot/core/inventory"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the custody service into the application loader.
type Feature struct {
	service *Service
}

// NewFeature creates the custody feature.
func NewFeature(inv inventory.Client, cfg inventory.Config, log *zap.Logger, rec *audit.Recorder) *Feature {
	return &Feature{service: NewService(inv, cfg, log, rec)}
}

// Name returns the feature name.
func (f *Feature) Name() string { return "custody" }

// IsEnabled reports whether the feature is active. Custody is the core of
// the kiosk and is always on.
func (f *Feature) IsEnabled() bool { return true }

// Load registers the feature routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}

// Service exposes the underlying service for features that compose it.
func (f *Feature) Service() *Service { return f.service }
