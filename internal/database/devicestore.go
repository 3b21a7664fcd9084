package database

import (
	"context"
	"errors"
	"time"

	"github.com/gadgetry-io/gadgetry/internal/devices"
	"github.com/gadgetry-io/gadgetry/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceStore is the gorm-backed implementation of devices.Store. It owns
// the persistence-side invariants: id assignment, timestamp stamping and
// the version counter. All writes after creation are compare-and-swap on
// the version the caller read.
type DeviceStore struct {
	db          *gorm.DB
	transaction TransactionFunc
	clock       func() time.Time
}

func NewDeviceStore(db *gorm.DB, transaction TransactionFunc) *DeviceStore {
	return &DeviceStore{
		db:          db,
		transaction: transaction,
		clock:       time.Now,
	}
}

func (s *DeviceStore) Create(ctx context.Context, device *models.Device) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if device.ID == uuid.Nil {
			device.ID = uuid.New()
		}
		now := s.clock().UTC()
		device.CreatedAt = now
		device.UpdatedAt = now
		device.Version = 0
		return tx.Create(device).Error
	})
}

func (s *DeviceStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	var device models.Device
	// gorm.DeletedAt scoping keeps soft-deleted rows out of every read here
	// and below.
	result := s.db.WithContext(ctx).First(&device, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, devices.ErrNotFound
		}
		return nil, result.Error
	}
	return &device, nil
}

func (s *DeviceStore) Query(ctx context.Context, filter devices.Filter, page devices.Page) ([]*models.Device, int64, error) {
	scoped := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&models.Device{})
		for _, clause := range filter {
			db = db.Where(clause.Column+" = ?", clause.Value)
		}
		return db
	}

	var total int64
	if result := scoped().Count(&total); result.Error != nil {
		return nil, 0, result.Error
	}

	content := make([]*models.Device, 0)
	result := scoped().
		Order(page.OrderBy()).
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&content)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return content, total, nil
}

func (s *DeviceStore) Update(ctx context.Context, device *models.Device) error {
	now := s.clock().UTC()
	result := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ? AND version = ?", device.ID, device.Version).
		Updates(map[string]interface{}{
			"display_name":  device.DisplayName,
			"display_brand": device.DisplayBrand,
			"name":          device.Name,
			"brand":         device.Brand,
			"state":         device.State,
			"updated_at":    now,
			"version":       device.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return devices.ErrOptimisticLock
	}
	device.Version++
	device.UpdatedAt = now
	return nil
}

func (s *DeviceStore) SoftDelete(ctx context.Context, device *models.Device) error {
	now := s.clock().UTC()
	result := s.db.WithContext(ctx).Model(&models.Device{}).
		Where("id = ? AND version = ?", device.ID, device.Version).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
			"version":    device.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return devices.ErrOptimisticLock
	}
	device.Version++
	device.UpdatedAt = now
	device.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
	return nil
}
