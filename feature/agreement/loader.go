package agreement

import (
	"assetbot/core/audit"
	"assetbot/core/storage"
	"assetbot/feature/agreement/models"
	"assetbot/feature/custody"
	"assetbot/feature/people"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the agreement service into the application loader.
type Feature struct {
	service *Service
	db      *gorm.DB
}

// NewFeature creates the agreement feature. db and store may be nil; the
// feature still loads with journaling and archiving degraded.
func NewFeature(
	ppl *people.Feature,
	cst *custody.Feature,
	db *gorm.DB,
	store storage.Client,
	bucket string,
	log *zap.Logger,
	rec *audit.Recorder,
) *Feature {
	return &Feature{
		service: NewService(ppl.Service(), cst.Service(), db, store, bucket, log, rec),
		db:      db,
	}
}

// Name returns the feature name.
func (f *Feature) Name() string { return "agreement" }

// IsEnabled reports whether the feature is active.
func (f *Feature) IsEnabled() bool { return true }

// Load migrates the journal table when a database is present, then
// registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.db != nil {
		if err := f.db.AutoMigrate(&models.LoanAgreement{}); err != nil {
			return err
		}
	}
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
