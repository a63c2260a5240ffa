package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatValue accepts a JSON number, a numeric string, an empty string or null.
// Empty values decode as unset.
type StatValue struct {
	Value int
	Set   bool
}

func (v *StatValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = StatValue{}
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*v = StatValue{}
			return nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: stat %q is not a number", domain.ErrInvalidCharacter, text)
	}
	f = math.Trunc(f)
	if f < 0 || f > domain.MaxStat {
		return fmt.Errorf("%w: stat %q", domain.ErrStatOutOfRange, text)
	}
	*v = StatValue{Value: int(f), Set: true}
	return nil
}

func (v StatValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Value)
}

func Stat(n int) StatValue {
	return StatValue{Value: n, Set: true}
}

// CharacterInput is the admin form for creating or editing a character.
// Styles is comma separated text.
type CharacterInput struct {
	Name     string    `json:"name"`
	Position string    `json:"position"`
	Rarity   string    `json:"rarity"`
	School   string    `json:"school"`
	ImageURL string    `json:"image_url"`
	Styles   string    `json:"styles"`
	Serve    StatValue `json:"serve"`
	Attack   StatValue `json:"attack"`
	Set      StatValue `json:"set"`
	Receive  StatValue `json:"receive"`
	Block    StatValue `json:"block"`
	Defense  StatValue `json:"defense"`
}

func (in CharacterInput) validate(requireImage bool) error {
	if strings.TrimSpace(in.Name) == "" || in.Position == "" || in.Rarity == "" || in.School == "" {
		return domain.ErrMissingFields
	}
	if requireImage && strings.TrimSpace(in.ImageURL) == "" {
		return domain.ErrMissingImage
	}
	if !domain.Position(in.Position).IsValid() {
		return fmt.Errorf("%w: unknown position %q", domain.ErrInvalidCharacter, in.Position)
	}
	if !domain.Rarity(in.Rarity).IsValid() {
		return fmt.Errorf("%w: unknown rarity %q", domain.ErrInvalidCharacter, in.Rarity)
	}
	if !domain.School(in.School).IsValid() {
		return fmt.Errorf("%w: unknown school %q", domain.ErrInvalidCharacter, in.School)
	}
	for _, s := range []StatValue{in.Serve, in.Attack, in.Set, in.Receive, in.Block, in.Defense} {
		if s.Value < 0 || s.Value > domain.MaxStat {
			return domain.ErrStatOutOfRange
		}
	}
	return nil
}

func (in CharacterInput) apply(c *domain.Character) {
	c.Name = strings.TrimSpace(in.Name)
	c.Position = domain.Position(in.Position)
	c.Rarity = domain.Rarity(in.Rarity)
	c.School = domain.School(in.School)
	c.ImageURL = strings.TrimSpace(in.ImageURL)
	c.SetStyles(domain.SplitStyles(in.Styles))
	c.Serve = in.Serve.Value
	c.Attack = in.Attack.Value
	c.Set = in.Set.Value
	c.Receive = in.Receive.Value
	c.Block = in.Block.Value
	c.Defense = in.Defense.Value
}

// CharacterService edits character records and their bond memberships.
type CharacterService struct {
	characterRepo repository.CharacterRepository
	linkRepo      repository.CharacterBondRepository
	skillRepo     repository.SkillRepository
	statsBondRepo repository.StatsBondRepository
	roster        *RosterService
	logger        *zap.Logger
}

func NewCharacterService(
	repos *repository.Repositories,
	roster *RosterService,
	logger *zap.Logger,
) *CharacterService {
	return &CharacterService{
		characterRepo: repos.Character,
		linkRepo:      repos.CharacterBond,
		skillRepo:     repos.Skill,
		statsBondRepo: repos.StatsBond,
		roster:        roster,
		logger:        logger,
	}
}

func (s *CharacterService) Create(ctx context.Context, in CharacterInput) (*domain.Character, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	c := &domain.Character{}
	in.apply(c)
	if err := s.characterRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}

	s.logger.Info("character created", zap.Int64("id", c.ID), zap.String("name", c.Name))
	s.roster.Invalidate(ctx)
	return c, nil
}

// Update replaces every editable field. Unset stats are written as 0; an empty
// image URL keeps the stored one.
func (s *CharacterService) Update(ctx context.Context, id int64, in CharacterInput) (*domain.Character, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: character id is required", domain.ErrInvalidCharacter)
	}
	if err := in.validate(false); err != nil {
		return nil, err
	}

	c, err := s.characterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, err
	}

	image := c.ImageURL
	in.apply(c)
	if c.ImageURL == "" {
		c.ImageURL = image
	}
	if err := s.characterRepo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("failed to update character: %w", err)
	}

	s.logger.Info("character updated", zap.Int64("id", c.ID), zap.String("name", c.Name))
	s.roster.Invalidate(ctx)
	return c, nil
}

func (s *CharacterService) GetBondIDs(ctx context.Context, characterID int64) ([]int64, error) {
	if characterID <= 0 {
		return []int64{}, nil
	}
	return s.linkRepo.GetBondIDs(ctx, characterID)
}

// SetBonds replaces the character's bond memberships.
func (s *CharacterService) SetBonds(ctx context.Context, characterID int64, bondIDs []int64) error {
	if characterID <= 0 {
		return fmt.Errorf("%w: character id is required", domain.ErrInvalidCharacter)
	}
	if _, err := s.characterRepo.GetByID(ctx, characterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCharacterNotFound
		}
		return err
	}
	if err := s.linkRepo.Replace(ctx, characterID, bondIDs); err != nil {
		return fmt.Errorf("failed to update character bonds: %w", err)
	}

	s.roster.Invalidate(ctx)
	return nil
}

func (s *CharacterService) GetSkills(ctx context.Context, characterID int64) ([]*domain.Skill, error) {
	return s.skillRepo.GetByCharacterID(ctx, characterID)
}

func (s *CharacterService) GetStatsBonds(ctx context.Context, characterID int64) ([]*domain.CharacterStatsBond, error) {
	return s.statsBondRepo.GetByCharacterID(ctx, characterID)
}
