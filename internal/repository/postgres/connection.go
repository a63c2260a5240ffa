package postgres

import (
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table the service owns, in migration order.
var Models = []interface{}{
	&domain.Character{},
	&domain.Bond{},
	&domain.CharacterBondLink{},
	&domain.Skill{},
	&domain.StatsBond{},
	&domain.CharacterStatsBond{},
	&domain.DeviceEntry{},
}

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Character:     NewCharacterRepository(db),
		Bond:          NewBondRepository(db),
		CharacterBond: NewCharacterBondRepository(db),
		Skill:         NewSkillRepository(db),
		StatsBond:     NewStatsBondRepository(db),
		DeviceStorage: NewDeviceStorageRepository(db),
	}
}
