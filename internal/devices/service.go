package devices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gadgetry-io/gadgetry/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxDisplayNameLen  = 255
	maxDisplayBrandLen = 100
)

// Service owns the device lifecycle: creation defaults, normalized-field
// maintenance, usage-state guards and soft-delete semantics. It holds no
// state between calls; conflicting writes to the same record are resolved
// by the store's version check.
type Service struct {
	logger *zap.SugaredLogger
	store  Store
}

func NewService(logger *zap.SugaredLogger, store Store) *Service {
	return &Service{
		logger: logger,
		store:  store,
	}
}

// Create persists a new device. The state defaults to AVAILABLE when the
// caller leaves it unset. Display fields arrive validated at the boundary,
// but blank or oversized values are rejected here again rather than
// trusted.
func (s *Service) Create(ctx context.Context, add models.AddDevice) (*models.Device, error) {
	displayName, name, err := sanitizeDisplay("display_name", add.DisplayName, maxDisplayNameLen)
	if err != nil {
		return nil, err
	}
	displayBrand, brand, err := sanitizeDisplay("display_brand", add.DisplayBrand, maxDisplayBrandLen)
	if err != nil {
		return nil, err
	}

	state := models.DeviceStateAvailable
	if add.State != nil {
		if !add.State.Valid() {
			return nil, NewValidationError("state", fmt.Sprintf("unknown state %q", *add.State))
		}
		state = *add.State
	}

	device := &models.Device{
		DisplayName:  displayName,
		DisplayBrand: displayBrand,
		Name:         name,
		Brand:        brand,
		State:        state,
	}
	if err := s.store.Create(ctx, device); err != nil {
		return nil, err
	}
	s.logger.Infow("device created", "id", device.ID, "name", device.Name, "state", device.State)
	return device, nil
}

// Get fetches a non-deleted device by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	return s.store.GetByID(ctx, id)
}

// List returns the page of non-deleted devices matching the filter,
// together with total-count metadata.
func (s *Service) List(ctx context.Context, filter Filter, page Page) (*models.DevicePage, error) {
	content, total, err := s.store.Query(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return &models.DevicePage{
		Content:       content,
		PageNumber:    page.Number,
		PageSize:      page.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          page.Number >= totalPages-1,
	}, nil
}

// Update applies the present fields of update to the device. Display
// fields of a device that is IN_USE may only be re-submitted with the same
// normalized value; changing them is a conflict. State may always change.
// A patch that changes nothing is a no-op: no write happens and the
// version stays put.
func (s *Service) Update(ctx context.Context, id uuid.UUID, update models.UpdateDevice) (*models.Device, error) {
	device, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if update.DisplayName != nil {
		displayName, name, err := sanitizeDisplay("display_name", *update.DisplayName, maxDisplayNameLen)
		if err != nil {
			return nil, err
		}
		if name != device.Name && device.InUse() {
			return nil, ConflictError{Reason: "Cannot update name of device in use"}
		}
		if displayName != device.DisplayName || name != device.Name {
			device.DisplayName = displayName
			device.Name = name
			changed = true
		}
	}
	if update.DisplayBrand != nil {
		displayBrand, brand, err := sanitizeDisplay("display_brand", *update.DisplayBrand, maxDisplayBrandLen)
		if err != nil {
			return nil, err
		}
		if brand != device.Brand && device.InUse() {
			return nil, ConflictError{Reason: "Cannot update brand of device in use"}
		}
		if displayBrand != device.DisplayBrand || brand != device.Brand {
			device.DisplayBrand = displayBrand
			device.Brand = brand
			changed = true
		}
	}
	if update.State != nil {
		if !update.State.Valid() {
			return nil, NewValidationError("state", fmt.Sprintf("unknown state %q", *update.State))
		}
		if *update.State != device.State {
			device.State = *update.State
			changed = true
		}
	}

	if !changed {
		return device, nil
	}

	if err := s.store.Update(ctx, device); err != nil {
		if errors.Is(err, ErrOptimisticLock) {
			return nil, ConflictError{Reason: "device was modified concurrently", Retryable: true}
		}
		return nil, err
	}
	s.logger.Infow("device updated", "id", device.ID, "version", device.Version)
	return device, nil
}

// Delete soft-deletes the device. Deletion is blocked while the device is
// IN_USE and is permanent: there is no undelete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	device, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if device.InUse() {
		return ConflictError{Reason: "Cannot delete device in use"}
	}
	if err := s.store.SoftDelete(ctx, device); err != nil {
		if errors.Is(err, ErrOptimisticLock) {
			return ConflictError{Reason: "device was modified concurrently", Retryable: true}
		}
		return err
	}
	s.logger.Infow("device deleted", "id", device.ID)
	return nil
}

// sanitizeDisplay trims a caller-supplied display value and derives its
// normalized mirror, rejecting blank and oversized input.
func sanitizeDisplay(field string, value string, maxLen int) (display string, normalized string, err error) {
	display = strings.TrimSpace(value)
	normalized = Normalize(display)
	if normalized == "" {
		return "", "", NewValidationError(field, "must not be blank")
	}
	// Length limits count characters, not bytes.
	if utf8.RuneCountInString(display) > maxLen {
		return "", "", NewValidationError(field, fmt.Sprintf("must not exceed %d characters", maxLen))
	}
	return display, normalized, nil
}
