package covers

import (
	"library-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	cache   *Cache
	handler *Handler
}

// NewFeature creates the covers feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger) *Feature {
	cache := NewCache(client, bucket)
	return &Feature{cache: cache, handler: NewHandler(cache, logger)}
}

// Cache returns the cover cache shared with the migration feature.
func (f *Feature) Cache() *Cache {
	return f.cache
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "covers"
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
