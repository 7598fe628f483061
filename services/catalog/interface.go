package catalog

import (
	"context"
	"time"

	catalogRepo "mobilemech/database/repository/catalog"
	"mobilemech/models"

	"github.com/go-redis/redis/v8"
)

// CatalogService manages the bookable service catalog.
type CatalogService interface {
	CreateService(ctx context.Context, svc models.Service) (*models.Service, error)
	UpdateService(ctx context.Context, id string, req models.ServiceUpdateRequest) (*models.Service, error)
	// GetService fails with apperr.ServiceNotFound when id does not resolve.
	GetService(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
}

// DefaultCatalogService reads through a redis cache when Cache is set.
type DefaultCatalogService struct {
	Repo  catalogRepo.ServiceRepository
	Cache *redis.Client
	TTL   time.Duration
}
