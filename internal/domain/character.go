package domain

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// MaxStat is the upper bound of every character stat.
const MaxStat = 999

type Character struct {
	ID        int64          `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;index"`
	Position  Position       `json:"position" gorm:"not null"`
	Rarity    Rarity         `json:"rarity" gorm:"not null"`
	School    School         `json:"school" gorm:"not null"`
	ImageURL  string         `json:"image_url"`
	Styles    datatypes.JSON `json:"styles" gorm:"type:jsonb"` // ["Rápido", "Saque"]
	Serve     int            `json:"serve"`
	Attack    int            `json:"attack"`
	Set       int            `json:"set"`
	Receive   int            `json:"receive"`
	Block     int            `json:"block"`
	Defense   int            `json:"defense"`
	CreatedAt time.Time      `json:"created_at"`
}

func (Character) TableName() string {
	return "characters"
}

// StyleList returns the style tags in their stored order.
func (c *Character) StyleList() []string {
	if c == nil {
		return []string{}
	}
	return ParseStyles(c.Styles)
}

// SetStyles stores tags as a JSON array.
func (c *Character) SetStyles(styles []string) {
	if styles == nil {
		styles = []string{}
	}
	data, _ := json.Marshal(styles)
	c.Styles = datatypes.JSON(data)
}

// Stats returns the six stat values keyed by their column name.
func (c *Character) Stats() map[string]int {
	return map[string]int{
		"serve":   c.Serve,
		"attack":  c.Attack,
		"set":     c.Set,
		"receive": c.Receive,
		"block":   c.Block,
		"defense": c.Defense,
	}
}

// ParseStyles normalises a stored styles value. Rows written by older tools hold
// a JSON array, a JSON string wrapping an array, or plain comma separated text.
func ParseStyles(raw []byte) []string {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return []string{}
	}

	switch text[0] {
	case '[':
		var styles []string
		if err := json.Unmarshal([]byte(text), &styles); err != nil {
			return []string{}
		}
		return compactStyles(styles)
	case '"':
		var inner string
		if err := json.Unmarshal([]byte(text), &inner); err != nil {
			return []string{}
		}
		return ParseStyles([]byte(inner))
	}

	return SplitStyles(text)
}

// SplitStyles splits comma separated style text, dropping blank entries.
func SplitStyles(text string) []string {
	return compactStyles(strings.Split(text, ","))
}

func compactStyles(styles []string) []string {
	out := make([]string, 0, len(styles))
	for _, s := range styles {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
