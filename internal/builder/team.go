package builder

import (
	"fmt"

	"github.com/dom/haikyu-team-builder/internal/domain"
)

// Team is the state of one team composition. It is a value: commands return a
// new Team and never modify the one they were given.
type Team struct {
	Court    domain.TeamSlots `json:"court"`
	Bench    domain.Bench     `json:"bench"`
	FreeMode bool             `json:"freeMode"`
}

// NewTeam returns an empty strict-mode team.
func NewTeam() Team {
	return Team{}
}

// At returns the character at ref. The list area holds nothing.
func (t Team) At(ref domain.SlotRef) *domain.Character {
	switch ref.Area {
	case domain.AreaCourt:
		c, _ := t.Court.Get(ref.Key)
		return c
	case domain.AreaBench:
		if ref.Index >= 0 && ref.Index < domain.BenchSize {
			return t.Bench[ref.Index]
		}
	}
	return nil
}

func (t *Team) put(ref domain.SlotRef, c *domain.Character) {
	switch ref.Area {
	case domain.AreaCourt:
		t.Court.Set(ref.Key, c)
	case domain.AreaBench:
		t.Bench[ref.Index] = c
	}
}

// Members returns every character on court and bench.
func (t Team) Members() []*domain.Character {
	return append(t.Court.Occupied(), t.Bench.Occupied()...)
}

// Contains reports whether c is anywhere on court or bench, skipping the slot
// at except (pass the list ref to skip nothing).
func (t Team) Contains(id Identity, c *domain.Character, except domain.SlotRef) bool {
	for _, key := range domain.CourtSlotKeys {
		if except.Area == domain.AreaCourt && except.Key == key {
			continue
		}
		if member, _ := t.Court.Get(key); id.Same(member, c) {
			return true
		}
	}
	for i, member := range t.Bench {
		if except.Area == domain.AreaBench && except.Index == i {
			continue
		}
		if id.Same(member, c) {
			return true
		}
	}
	return false
}

// freeModeSlotOrder is the order in which free mode fills empty court slots.
var freeModeSlotOrder = []domain.SlotKey{
	domain.SlotPos2S, domain.SlotPos3MB, domain.SlotPos4WS,
	domain.SlotPos5WS, domain.SlotPos6MB, domain.SlotPos1OP,
}

// strictSlotOrder lists, per position, the slots it fills in strict mode.
var strictSlotOrder = map[domain.Position][]domain.SlotKey{
	domain.PositionWingSpiker:  {domain.SlotPos4WS, domain.SlotPos5WS},
	domain.PositionMiddleBlock: {domain.SlotPos3MB, domain.SlotPos6MB},
	domain.PositionSetter:      {domain.SlotPos2S},
	domain.PositionOpposite:    {domain.SlotPos1OP},
}

// OpenCourtSlot finds the first empty court slot c may occupy.
func (t Team) OpenCourtSlot(c *domain.Character) (domain.SlotKey, bool) {
	if c.Position == domain.PositionLibero {
		return domain.SlotLibero, t.Court.Libero == nil
	}

	candidates := strictSlotOrder[c.Position]
	if t.FreeMode {
		candidates = freeModeSlotOrder
	}
	for _, key := range candidates {
		if occupant, _ := t.Court.Get(key); occupant == nil {
			return key, true
		}
	}
	return "", false
}

// openBenchSlot returns the first empty bench index.
func (t Team) openBenchSlot() (int, bool) {
	for i, c := range t.Bench {
		if c == nil {
			return i, true
		}
	}
	return 0, false
}

// checkTarget validates that c may be dropped at target.
func (t Team) checkTarget(c *domain.Character, target domain.SlotRef) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target.Area == domain.AreaCourt {
		return CheckSlot(c, target.Key, t.FreeMode)
	}
	return nil
}

// Rotate moves every positional player one spot around the court. The libero
// stays put.
func (t Team) Rotate() Team {
	old := t.Court
	t.Court = domain.TeamSlots{
		Pos3MB: old.Pos2S,
		Pos4WS: old.Pos3MB,
		Pos1OP: old.Pos4WS,
		Pos6MB: old.Pos1OP,
		Pos5WS: old.Pos6MB,
		Pos2S:  old.Pos5WS,
		Libero: old.Libero,
	}
	return t
}

// Clear empties court and bench; the mode is kept.
func (t Team) Clear() Team {
	return Team{FreeMode: t.FreeMode}
}

// ToggleFreeMode flips the ruleset. Going back to strict mode empties the court
// because its slots may hold players the strict rules reject.
func (t Team) ToggleFreeMode() Team {
	if t.FreeMode {
		t.Court = domain.TeamSlots{}
	}
	t.FreeMode = !t.FreeMode
	return t
}

// Remove empties the slot at ref.
func (t Team) Remove(ref domain.SlotRef) (Team, error) {
	if err := ref.Validate(); err != nil {
		return t, err
	}
	if ref.Area == domain.AreaList {
		return t, fmt.Errorf("%w: %s", domain.ErrSlotNotFound, ref)
	}
	t.put(ref, nil)
	return t, nil
}
