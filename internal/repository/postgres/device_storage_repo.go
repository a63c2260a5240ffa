package postgres

import (
	"context"
	"time"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type deviceStorageRepository struct {
	db *gorm.DB
}

func NewDeviceStorageRepository(db *gorm.DB) *deviceStorageRepository {
	return &deviceStorageRepository{db: db}
}

func (r *deviceStorageRepository) Get(ctx context.Context, deviceID, key string) (*domain.DeviceEntry, error) {
	var entry domain.DeviceEntry
	err := r.db.WithContext(ctx).First(&entry, "device_id = ? AND key = ?", deviceID, key).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *deviceStorageRepository) Set(ctx context.Context, entry *domain.DeviceEntry) error {
	entry.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
}

func (r *deviceStorageRepository) Delete(ctx context.Context, deviceID, key string) error {
	return r.db.WithContext(ctx).
		Where("device_id = ? AND key = ?", deviceID, key).
		Delete(&domain.DeviceEntry{}).Error
}
