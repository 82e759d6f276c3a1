package companies

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for company directory persistence.
type Repository interface {
	List(ctx context.Context) ([]Company, error)
	Get(ctx context.Context, id uuid.UUID) (*Company, error)
	FindByName(ctx context.Context, normalizedName string) (*Company, error)
	Create(ctx context.Context, c *Company) error
	Update(ctx context.Context, c *Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}
