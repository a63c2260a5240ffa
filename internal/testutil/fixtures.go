package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var characterSeq atomic.Int64

// CharacterBuilder creates test characters with a builder pattern
type CharacterBuilder struct {
	id       int64
	explicit bool
	name     string
	position domain.Position
	rarity   domain.Rarity
	school   domain.School
	imageURL string
	styles   []string
	stats    [6]int
}

// NewCharacterBuilder creates a new CharacterBuilder with default values.
// Every builder gets a distinct id and name so unrelated fixtures never
// collide under the duplicate guard.
func NewCharacterBuilder() *CharacterBuilder {
	n := characterSeq.Add(1)
	return &CharacterBuilder{
		id:       n,
		name:     fmt.Sprintf("Player %d", n),
		position: domain.PositionWingSpiker,
		rarity:   domain.RaritySR,
		school:   domain.SchoolKarasuno,
		imageURL: fmt.Sprintf("https://images.test/characters/player-%d.png", n),
		styles:   []string{},
		stats:    [6]int{100, 100, 100, 100, 100, 100},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id int64) *CharacterBuilder {
	b.id = id
	b.explicit = true
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.name = name
	return b
}

// WithPosition sets the position tag
func (b *CharacterBuilder) WithPosition(p domain.Position) *CharacterBuilder {
	b.position = p
	return b
}

// WithRarity sets the rarity
func (b *CharacterBuilder) WithRarity(r domain.Rarity) *CharacterBuilder {
	b.rarity = r
	return b
}

// WithSchool sets the school
func (b *CharacterBuilder) WithSchool(s domain.School) *CharacterBuilder {
	b.school = s
	return b
}

// WithStyles sets the style tags
func (b *CharacterBuilder) WithStyles(styles ...string) *CharacterBuilder {
	b.styles = styles
	return b
}

// WithStats sets serve, attack, set, receive, block and defense
func (b *CharacterBuilder) WithStats(serve, attack, set, receive, block, defense int) *CharacterBuilder {
	b.stats = [6]int{serve, attack, set, receive, block, defense}
	return b
}

// Character returns the character without touching a database
func (b *CharacterBuilder) Character() *domain.Character {
	c := &domain.Character{
		ID:        b.id,
		Name:      b.name,
		Position:  b.position,
		Rarity:    b.rarity,
		School:    b.school,
		ImageURL:  b.imageURL,
		Serve:     b.stats[0],
		Attack:    b.stats[1],
		Set:       b.stats[2],
		Receive:   b.stats[3],
		Block:     b.stats[4],
		Defense:   b.stats[5],
		CreatedAt: time.Now(),
	}
	c.SetStyles(b.styles)
	return c
}

// Build creates the character in the database. Unless WithID was called the
// database assigns the id.
func (b *CharacterBuilder) Build(t *testing.T, db *gorm.DB) *domain.Character {
	t.Helper()

	c := b.Character()
	if !b.explicit {
		c.ID = 0
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("failed to create character: %v", err)
	}
	return c
}

// BondBuilder creates test bonds
type BondBuilder struct {
	name        string
	description *string
	members     []*domain.Character
}

// NewBondBuilder creates a new BondBuilder with default values
func NewBondBuilder() *BondBuilder {
	return &BondBuilder{
		name: fmt.Sprintf("Bond %s", uuid.New().String()[:8]),
	}
}

// WithName sets the bond name
func (b *BondBuilder) WithName(name string) *BondBuilder {
	b.name = name
	return b
}

// WithDescription sets the bond description
func (b *BondBuilder) WithDescription(description string) *BondBuilder {
	b.description = &description
	return b
}

// WithMembers links the bond to the given characters
func (b *BondBuilder) WithMembers(members ...*domain.Character) *BondBuilder {
	b.members = members
	return b
}

// Build creates the bond and its links in the database
func (b *BondBuilder) Build(t *testing.T, db *gorm.DB) *domain.Bond {
	t.Helper()

	bond := &domain.Bond{
		Name:        b.name,
		Description: b.description,
		CreatedAt:   time.Now(),
	}
	if err := db.Create(bond).Error; err != nil {
		t.Fatalf("failed to create bond: %v", err)
	}

	for _, c := range b.members {
		link := &domain.CharacterBondLink{CharacterID: c.ID, BondID: bond.ID}
		if err := db.Create(link).Error; err != nil {
			t.Fatalf("failed to link character %d to bond %d: %v", c.ID, bond.ID, err)
		}
	}
	return bond
}

// SeedCharacters creates N test characters in the database
func SeedCharacters(t *testing.T, db *gorm.DB, count int) []*domain.Character {
	t.Helper()

	characters := make([]*domain.Character, count)
	for i := 0; i < count; i++ {
		characters[i] = NewCharacterBuilder().
			WithName(fmt.Sprintf("Test Player %02d", i)).
			Build(t, db)
	}
	return characters
}

// KarasunoStarters is a legal strict-mode court with a libero.
var KarasunoStarters = []struct {
	Name     string
	Position domain.Position
	Styles   []string
}{
	{"Kageyama Tobio", domain.PositionSetter, []string{"Levantador", "Rápido"}},
	{"Hinata Shoyo", domain.PositionMiddleBlock, []string{"Rápido"}},
	{"Tsukishima Kei", domain.PositionMiddleBlock, []string{"Bloqueio"}},
	{"Tanaka Ryunosuke", domain.PositionWingSpiker, []string{"Potente"}},
	{"Sawamura Daichi", domain.PositionWingSpiker, []string{"Recepção"}},
	{"Azumane Asahi", domain.PositionOpposite, []string{"Potente", "Saque"}},
	{"Nishinoya Yu", domain.PositionLibero, []string{"Recepção"}},
}

// SeedKarasuno creates the Karasuno starters in the database
func SeedKarasuno(t *testing.T, db *gorm.DB) []*domain.Character {
	t.Helper()

	characters := make([]*domain.Character, len(KarasunoStarters))
	for i, s := range KarasunoStarters {
		characters[i] = NewCharacterBuilder().
			WithName(s.Name).
			WithPosition(s.Position).
			WithSchool(domain.SchoolKarasuno).
			WithStyles(s.Styles...).
			Build(t, db)
	}
	return characters
}

// CreateDeviceRequest creates an HTTP request carrying a device id
func CreateDeviceRequest(t *testing.T, method, url string, body interface{}, deviceID string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if deviceID != "" {
		req.Header.Set("X-Device-ID", deviceID)
	}

	return req
}
