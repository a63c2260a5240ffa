package postgres

import (
	"context"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *characterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) Create(ctx context.Context, character *domain.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

// Update overwrites every editable column, zero values included.
func (r *characterRepository) Update(ctx context.Context, character *domain.Character) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Character{}).
		Where("id = ?", character.ID).
		Select("name", "position", "rarity", "school", "image_url", "styles",
			"serve", "attack", "set", "receive", "block", "defense").
		Updates(character)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *characterRepository) UpsertMany(ctx context.Context, characters []*domain.Character) error {
	if len(characters) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(characters).Error
}

func (r *characterRepository) GetAll(ctx context.Context) ([]*domain.Character, error) {
	var characters []*domain.Character
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&characters).Error
	if err != nil {
		return nil, err
	}
	return characters, nil
}

func (r *characterRepository) GetByID(ctx context.Context, id int64) (*domain.Character, error) {
	var character domain.Character
	err := r.db.WithContext(ctx).First(&character, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &character, nil
}
