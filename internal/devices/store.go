package devices

import (
	"context"

	"github.com/gadgetry-io/gadgetry/internal/models"
	"github.com/google/uuid"
)

// Store is the durable storage collaborator consumed by the Service.
// Implementations own record identity, timestamp stamping and the version
// counter: Create assigns the id, sets created_at == updated_at and
// version 0; Update and SoftDelete are compare-and-swap writes on the
// version the caller observed and return ErrOptimisticLock when another
// writer committed first. GetByID and Query never return soft-deleted
// records.
type Store interface {
	Create(ctx context.Context, device *models.Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Device, error)
	Query(ctx context.Context, filter Filter, page Page) ([]*models.Device, int64, error)
	Update(ctx context.Context, device *models.Device) error
	SoftDelete(ctx context.Context, device *models.Device) error
}
