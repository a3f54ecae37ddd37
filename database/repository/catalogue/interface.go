package catalogueRepo

import (
	"context"
	"errors"

	"salonbook/models"
)

var ErrNotFound = errors.New("service not found")

// CatalogueRepository resolves bookable services.
type CatalogueRepository interface {
	// GetServices returns the services in the order of ids. Any unknown or inactive id yields ErrNotFound.
	GetServices(ctx context.Context, ids []string) ([]models.Service, error)
}
