package postgres

import (
	"context"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"gorm.io/gorm"
)

type skillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *skillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) GetByCharacterID(ctx context.Context, characterID int64) ([]*domain.Skill, error) {
	skills := []*domain.Skill{}
	err := r.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Order("id ASC").
		Find(&skills).Error
	if err != nil {
		return nil, err
	}
	return skills, nil
}

type statsBondRepository struct {
	db *gorm.DB
}

func NewStatsBondRepository(db *gorm.DB) *statsBondRepository {
	return &statsBondRepository{db: db}
}

func (r *statsBondRepository) GetAll(ctx context.Context) ([]*domain.StatsBond, error) {
	var bonds []*domain.StatsBond
	err := r.db.WithContext(ctx).Order("name ASC").Find(&bonds).Error
	if err != nil {
		return nil, err
	}
	return bonds, nil
}

// GetByCharacterID returns the character's stat buffs with the owning bond's
// name filled in.
func (r *statsBondRepository) GetByCharacterID(ctx context.Context, characterID int64) ([]*domain.CharacterStatsBond, error) {
	buffs := []*domain.CharacterStatsBond{}
	err := r.db.WithContext(ctx).
		Preload("StatsBond").
		Where("character_id = ?", characterID).
		Order("id ASC").
		Find(&buffs).Error
	if err != nil {
		return nil, err
	}

	for _, b := range buffs {
		b.StatsBondName = domain.UnknownStatsBondName
		if b.StatsBond != nil && b.StatsBond.Name != nil && *b.StatsBond.Name != "" {
			b.StatsBondName = *b.StatsBond.Name
		}
	}
	return buffs, nil
}
