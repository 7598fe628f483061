// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"

	"mobilemech/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceRepository persists catalog entries.
type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	// GetByID returns repository.ErrNotFound when the service does not exist.
	GetByID(ctx context.Context, id string) (*models.Service, error)
	// List returns every service ordered by name.
	List(ctx context.Context) ([]models.Service, error)
	// Update replaces the stored document and returns repository.ErrNotFound if absent.
	Update(ctx context.Context, service *models.Service) error
}

type mongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo constructs a new MongoDB ServiceRepository.
func NewMongoServiceRepo(db *mongo.Database) ServiceRepository {
	return &mongoServiceRepo{coll: db.Collection("services")}
}
