package gallery

import (
	"fmt"

	"gallery-manager/core/storage"
	"gallery-manager/feature/gallery/catalog"
	"gallery-manager/feature/gallery/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the gallery into the application.
type Feature struct {
	service *Service
	handler *Handler
	store   *catalog.Store
	db      *gorm.DB
}

// NewFeature creates the gallery feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, cfg Config, apiKey string) *Feature {
	var store *catalog.Store
	if db != nil {
		store = catalog.NewStore(db)
	}
	service := NewService(store, client, bucket, cfg, logger)
	return &Feature{
		service: service,
		handler: NewHandler(service, cfg, apiKey),
		store:   store,
		db:      db,
	}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "gallery"
}

// IsEnabled reports whether the feature can run. Without a catalog database
// there is nothing to serve.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load migrates the catalog table and registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate media catalog: %w", err)
	}
	f.handler.RegisterRoutes(app)
	return nil
}

// Runner exposes the reconciliation runner for the background scheduler.
func (f *Feature) Runner() *reconcile.Runner {
	return f.service.Runner()
}
