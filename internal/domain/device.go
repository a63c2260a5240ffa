package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SavedTeamsKey is the storage key under which a device's saved teams live.
const SavedTeamsKey = "haikyuBuilderSavedTeams"

// DeviceEntry is one key/value pair of a device's local storage, kept server
// side so a browser can pick its saved teams back up.
type DeviceEntry struct {
	DeviceID  string         `json:"device_id" gorm:"primaryKey"`
	Key       string         `json:"key" gorm:"primaryKey"`
	Value     datatypes.JSON `json:"value" gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (DeviceEntry) TableName() string {
	return "device_storage"
}
