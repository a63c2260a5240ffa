package domain

import "time"

// Bond is a named synergy. School bonds carry the school's exact name; the
// others list their required characters through CharacterBondLink rows.
type Bond struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Bond) TableName() string {
	return "bonds"
}

type CharacterBondLink struct {
	CharacterID int64 `json:"character_id" gorm:"primaryKey"`
	BondID      int64 `json:"bond_id" gorm:"primaryKey"`
}

func (CharacterBondLink) TableName() string {
	return "character_bonds"
}

type Skill struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	CharacterID int64     `json:"character_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Skill) TableName() string {
	return "skills"
}

type StatsBond struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (StatsBond) TableName() string {
	return "stats_bonds"
}

// CharacterStatsBond is a stat buff a character grants inside a stats bond.
type CharacterStatsBond struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	StatsBondID     int64      `json:"stats_bond_id" gorm:"index;not null"`
	CharacterID     int64      `json:"character_id" gorm:"index;not null"`
	BuffDescription *string    `json:"buff_description"`
	CreatedAt       time.Time  `json:"created_at"`
	StatsBond       *StatsBond `json:"-" gorm:"foreignKey:StatsBondID"`
	StatsBondName   string     `json:"stats_bond_name" gorm:"-"`
}

func (CharacterStatsBond) TableName() string {
	return "character_stats_bonds"
}

// UnknownStatsBondName labels stat buffs whose bond row is gone.
const UnknownStatsBondName = "Nome Desconhecido"
