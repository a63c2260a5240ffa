package postgres

import (
	"context"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"gorm.io/gorm"
)

type bondRepository struct {
	db *gorm.DB
}

func NewBondRepository(db *gorm.DB) *bondRepository {
	return &bondRepository{db: db}
}

func (r *bondRepository) GetAll(ctx context.Context) ([]*domain.Bond, error) {
	var bonds []*domain.Bond
	err := r.db.WithContext(ctx).Order("name ASC").Find(&bonds).Error
	if err != nil {
		return nil, err
	}
	return bonds, nil
}

func (r *bondRepository) Create(ctx context.Context, bond *domain.Bond) error {
	return r.db.WithContext(ctx).Create(bond).Error
}

type characterBondRepository struct {
	db *gorm.DB
}

func NewCharacterBondRepository(db *gorm.DB) *characterBondRepository {
	return &characterBondRepository{db: db}
}

func (r *characterBondRepository) GetAll(ctx context.Context) ([]*domain.CharacterBondLink, error) {
	var links []*domain.CharacterBondLink
	err := r.db.WithContext(ctx).Order("bond_id ASC").Order("character_id ASC").Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *characterBondRepository) GetBondIDs(ctx context.Context, characterID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&domain.CharacterBondLink{}).
		Where("character_id = ?", characterID).
		Order("bond_id ASC").
		Pluck("bond_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *characterBondRepository) Replace(ctx context.Context, characterID int64, bondIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("character_id = ?", characterID).Delete(&domain.CharacterBondLink{}).Error; err != nil {
			return err
		}
		if len(bondIDs) == 0 {
			return nil
		}

		seen := make(map[int64]bool, len(bondIDs))
		links := make([]*domain.CharacterBondLink, 0, len(bondIDs))
		for _, id := range bondIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			links = append(links, &domain.CharacterBondLink{CharacterID: characterID, BondID: id})
		}
		return tx.Create(links).Error
	})
}
