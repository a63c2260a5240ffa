package repository

import (
	"context"

	"github.com/dom/haikyu-team-builder/internal/domain"
)

type CharacterRepository interface {
	Create(ctx context.Context, character *domain.Character) error
	Update(ctx context.Context, character *domain.Character) error
	UpsertMany(ctx context.Context, characters []*domain.Character) error
	GetAll(ctx context.Context) ([]*domain.Character, error)
	GetByID(ctx context.Context, id int64) (*domain.Character, error)
}

type BondRepository interface {
	GetAll(ctx context.Context) ([]*domain.Bond, error)
	Create(ctx context.Context, bond *domain.Bond) error
}

type CharacterBondRepository interface {
	GetAll(ctx context.Context) ([]*domain.CharacterBondLink, error)
	GetBondIDs(ctx context.Context, characterID int64) ([]int64, error)
	// Replace swaps the character's bond set in one transaction.
	Replace(ctx context.Context, characterID int64, bondIDs []int64) error
}

type SkillRepository interface {
	GetByCharacterID(ctx context.Context, characterID int64) ([]*domain.Skill, error)
}

type StatsBondRepository interface {
	GetAll(ctx context.Context) ([]*domain.StatsBond, error)
	GetByCharacterID(ctx context.Context, characterID int64) ([]*domain.CharacterStatsBond, error)
}

// DeviceStorageRepository is a per-device key/value store. Get returns
// gorm.ErrRecordNotFound for an unknown key.
type DeviceStorageRepository interface {
	Get(ctx context.Context, deviceID, key string) (*domain.DeviceEntry, error)
	Set(ctx context.Context, entry *domain.DeviceEntry) error
	Delete(ctx context.Context, deviceID, key string) error
}

type Repositories struct {
	Character     CharacterRepository
	Bond          BondRepository
	CharacterBond CharacterBondRepository
	Skill         SkillRepository
	StatsBond     StatsBondRepository
	DeviceStorage DeviceStorageRepository
}
