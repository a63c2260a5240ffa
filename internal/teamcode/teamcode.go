// Package teamcode converts saved teams to and from the shareable export key:
// base64 of {"c": {slot: id|null}, "b": [id|null x 6]}.
package teamcode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dom/haikyu-team-builder/internal/builder"
	"github.com/dom/haikyu-team-builder/internal/domain"
)

// Project reduces a court and bench to character ids.
func Project(court domain.TeamSlots, bench []*domain.Character) domain.ExportedTeam {
	exp := domain.ExportedTeam{
		C: make(map[domain.SlotKey]*int64, len(domain.CourtSlotKeys)),
		B: make([]*int64, 0, len(bench)),
	}
	for _, key := range domain.CourtSlotKeys {
		c, _ := court.Get(key)
		exp.C[key] = idOf(c)
	}
	for _, c := range bench {
		exp.B = append(exp.B, idOf(c))
	}
	return exp
}

func idOf(c *domain.Character) *int64 {
	if c == nil {
		return nil
	}
	id := c.ID
	return &id
}

// Encode serialises a projection into an export key.
func Encode(exp domain.ExportedTeam) (string, error) {
	data, err := json.Marshal(exp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Export builds the key for a saved team.
func Export(team domain.SavedTeam) (string, error) {
	if team.Court == nil || team.Bench == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExportFailed, domain.ErrCorruptedTeam)
	}
	return Encode(Project(*team.Court, team.Bench))
}

// Decode reverses Encode. The key must decode to an object whose "c" member
// is an object and whose "b" member is an array.
func Decode(key string) (domain.ExportedTeam, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ExportedTeam{}, fmt.Errorf("%w: empty key", domain.ErrInvalidTeamKey)
	}

	data, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		// Keys pasted from chat clients often lose their padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(key, "="))
		if err != nil {
			return domain.ExportedTeam{}, fmt.Errorf("%w: not base64", domain.ErrInvalidTeamKey)
		}
	}

	var raw struct {
		C json.RawMessage `json:"c"`
		B json.RawMessage `json:"b"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.ExportedTeam{}, fmt.Errorf("%w: %v", domain.ErrInvalidTeamKey, err)
	}
	if !startsWith(raw.C, '{') || !startsWith(raw.B, '[') {
		return domain.ExportedTeam{}, fmt.Errorf("%w: invalid format", domain.ErrInvalidTeamKey)
	}

	var exp domain.ExportedTeam
	if err := json.Unmarshal(raw.C, &exp.C); err != nil {
		return domain.ExportedTeam{}, fmt.Errorf("%w: court: %v", domain.ErrInvalidTeamKey, err)
	}
	if err := json.Unmarshal(raw.B, &exp.B); err != nil {
		return domain.ExportedTeam{}, fmt.Errorf("%w: bench: %v", domain.ErrInvalidTeamKey, err)
	}
	return exp, nil
}

func startsWith(raw json.RawMessage, b byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == b
}

// Missing is an id from a key that the roster does not know.
type Missing struct {
	ID   int64  `json:"id"`
	Slot string `json:"slot"`
}

func (m Missing) String() string {
	return fmt.Sprintf("ID %d (%s)", m.ID, m.Slot)
}

// Skipped is an id from a key whose placement would break a team rule: a
// libero outside the libero slot, a non-libero in it, or a second copy of a
// character already placed.
type Skipped struct {
	ID     int64  `json:"id"`
	Slot   string `json:"slot"`
	Reason string `json:"reason"`
}

func (s Skipped) String() string {
	return fmt.Sprintf("ID %d (%s): %s", s.ID, s.Slot, s.Reason)
}

// Resolved is a team rebuilt from a key. Slots whose id is missing from the
// roster or whose placement was skipped are left empty and listed.
type Resolved struct {
	Court   domain.TeamSlots `json:"court"`
	Bench   domain.Bench     `json:"bench"`
	Missing []Missing        `json:"missing"`
	Skipped []Skipped        `json:"skipped"`
}

// Complete reports whether every id in the key was placed.
func (r Resolved) Complete() bool {
	return len(r.Missing) == 0 && len(r.Skipped) == 0
}

// Warning summarises what could not be placed, or is empty.
func (r Resolved) Warning() string {
	var parts []string
	if n := len(r.Missing); n > 0 {
		parts = append(parts, fmt.Sprintf("%d character(s) not found", n))
	}
	if n := len(r.Skipped); n > 0 {
		parts = append(parts, fmt.Sprintf("%d character(s) skipped", n))
	}
	return strings.Join(parts, ", ")
}

// Resolve looks every id up in roster and places it, court first in slot
// order, then the bench. Unknown slot keys and bench entries past the sixth
// are ignored. The libero rule and the duplicate guard (under identity) hold
// for the result.
func Resolve(exp domain.ExportedTeam, roster []*domain.Character, identity builder.Identity) Resolved {
	byID := make(map[int64]*domain.Character, len(roster))
	for _, c := range roster {
		if c != nil {
			byID[c.ID] = c
		}
	}

	res := Resolved{Missing: []Missing{}, Skipped: []Skipped{}}
	var placed []*domain.Character
	duplicate := func(c *domain.Character) bool {
		for _, p := range placed {
			if identity.Same(p, c) {
				return true
			}
		}
		return false
	}

	for _, key := range domain.CourtSlotKeys {
		id := exp.C[key]
		if id == nil {
			continue
		}
		ref := domain.CourtRef(key).String()
		c, ok := byID[*id]
		if !ok {
			res.Missing = append(res.Missing, Missing{ID: *id, Slot: ref})
			continue
		}
		if err := builder.CheckSlot(c, key, true); err != nil {
			res.Skipped = append(res.Skipped, Skipped{ID: *id, Slot: ref, Reason: err.Error()})
			continue
		}
		if duplicate(c) {
			res.Skipped = append(res.Skipped, Skipped{ID: *id, Slot: ref, Reason: c.Name + " is already on the team"})
			continue
		}
		res.Court.Set(key, c)
		placed = append(placed, c)
	}

	for i, id := range exp.B {
		if i >= domain.BenchSize {
			break
		}
		if id == nil {
			continue
		}
		ref := domain.BenchRef(i).String()
		c, ok := byID[*id]
		if !ok {
			res.Missing = append(res.Missing, Missing{ID: *id, Slot: ref})
			continue
		}
		if duplicate(c) {
			res.Skipped = append(res.Skipped, Skipped{ID: *id, Slot: ref, Reason: c.Name + " is already on the team"})
			continue
		}
		res.Bench[i] = c
		placed = append(placed, c)
	}
	return res
}

// Import decodes key and resolves it against roster.
func Import(key string, roster []*domain.Character, identity builder.Identity) (Resolved, error) {
	exp, err := Decode(key)
	if err != nil {
		return Resolved{}, err
	}
	return Resolve(exp, roster, identity), nil
}
