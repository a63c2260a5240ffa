package builder

import (
	"fmt"

	"github.com/dom/haikyu-team-builder/internal/domain"
)

// Action names a builder command on the wire.
type Action string

const (
	ActionAssign     Action = "assign"
	ActionMove       Action = "move"
	ActionAutoPlace  Action = "auto_place"
	ActionRemove     Action = "remove"
	ActionRotate     Action = "rotate"
	ActionClear      Action = "clear"
	ActionToggleMode Action = "toggle_mode"
	ActionLoad       Action = "load"
)

// Command is one user action against a team.
type Command interface {
	Action() Action
	apply(b *Builder, t Team) (Team, string, error)
}

// Assign places a character picked from the selection list into a slot.
type Assign struct {
	Target    domain.SlotRef
	Character *domain.Character
}

// Move resolves a drag from Origin onto Target.
type Move struct {
	Origin    domain.SlotRef
	Target    domain.SlotRef
	Character *domain.Character
}

// AutoPlace handles a double click on a character at Origin.
type AutoPlace struct {
	Origin    domain.SlotRef
	Character *domain.Character
}

type Remove struct {
	Target domain.SlotRef
}

type Rotate struct{}

type Clear struct{}

type ToggleMode struct{}

// Load replaces court and bench wholesale.
type Load struct {
	Court domain.TeamSlots
	Bench domain.Bench
}

func (Assign) Action() Action     { return ActionAssign }
func (Move) Action() Action       { return ActionMove }
func (AutoPlace) Action() Action  { return ActionAutoPlace }
func (Remove) Action() Action     { return ActionRemove }
func (Rotate) Action() Action     { return ActionRotate }
func (Clear) Action() Action      { return ActionClear }
func (ToggleMode) Action() Action { return ActionToggleMode }
func (Load) Action() Action       { return ActionLoad }

// Result is the outcome of an applied command.
type Result struct {
	Team    Team
	Message string
}

// Builder applies commands under one identity policy.
type Builder struct {
	identity Identity
}

func New(identity Identity) *Builder {
	return &Builder{identity: identity}
}

func (b *Builder) Identity() Identity {
	return b.identity
}

// Apply runs cmd against t. On error the returned Result carries t unchanged.
func (b *Builder) Apply(t Team, cmd Command) (Result, error) {
	if cmd == nil {
		return Result{Team: t}, fmt.Errorf("nil command")
	}
	next, msg, err := cmd.apply(b, t)
	if err != nil {
		return Result{Team: t}, err
	}
	return Result{Team: next, Message: msg}, nil
}

func (c Assign) apply(b *Builder, t Team) (Team, string, error) {
	if c.Character == nil {
		return t, "", domain.ErrCharacterNotFound
	}
	if c.Target.Area == domain.AreaList {
		return t, "", fmt.Errorf("%w: %s", domain.ErrSlotNotFound, c.Target)
	}
	if err := t.checkTarget(c.Character, c.Target); err != nil {
		return t, "", err
	}
	if err := b.checkDuplicate(t, c.Character, c.Target, domain.ListRef()); err != nil {
		return t, "", err
	}

	t.put(c.Target, c.Character)
	return t, fmt.Sprintf("%s selected for %s.", c.Character.Name, c.Target), nil
}

// checkDuplicate enforces that a character appears once across court and
// bench. Dropping onto a slot that already holds the same character is a
// substitution and is allowed; skip is the slot the character is leaving.
func (b *Builder) checkDuplicate(t Team, c *domain.Character, target, skip domain.SlotRef) error {
	if b.identity.Same(t.At(target), c) {
		return nil
	}
	if t.Contains(b.identity, c, skip) {
		return reject(domain.ErrDuplicateCharacter, "'%s' is already on the team. It can only be substituted.", c.Name)
	}
	return nil
}

func (c Move) apply(b *Builder, t Team) (Team, string, error) {
	if err := c.Origin.Validate(); err != nil {
		return t, "", err
	}
	dragged := pickCharacter(t, c.Origin, c.Character)
	if dragged == nil {
		return t, "", domain.ErrCharacterNotFound
	}
	if c.Origin == c.Target {
		return t, "", nil
	}

	// Dropping a placed card back on the list takes it off the team.
	if c.Target.Area == domain.AreaList {
		if c.Origin.Area == domain.AreaList {
			return t, "", nil
		}
		t.put(c.Origin, nil)
		return t, fmt.Sprintf("%s removed from %s.", dragged.Name, c.Origin), nil
	}

	if err := c.Target.Validate(); err != nil {
		return t, "", err
	}

	displaced := t.At(c.Target)
	substituting := b.identity.Same(displaced, dragged)

	if err := b.checkDuplicate(t, dragged, c.Target, c.Origin); err != nil {
		return t, "", err
	}
	if err := t.checkTarget(dragged, c.Target); err != nil {
		return t, "", err
	}

	// The displaced card swaps into the origin slot, so it must be legal there.
	if !substituting && displaced != nil && c.Origin.Area == domain.AreaCourt {
		if err := CheckSlot(displaced, c.Origin.Key, t.FreeMode); err != nil {
			return t, "", err
		}
	}

	t.put(c.Target, dragged)
	if c.Origin.Area != domain.AreaList {
		if substituting {
			t.put(c.Origin, nil)
		} else {
			t.put(c.Origin, displaced)
		}
	}

	if substituting {
		return t, fmt.Sprintf("%s substituted at %s.", dragged.Name, c.Target), nil
	}
	return t, fmt.Sprintf("%s moved to %s.", dragged.Name, c.Target), nil
}

// pickCharacter returns the card being acted on: whatever sits at a court or
// bench origin, or the supplied card for the list.
func pickCharacter(t Team, origin domain.SlotRef, supplied *domain.Character) *domain.Character {
	if origin.Area == domain.AreaList {
		return supplied
	}
	return t.At(origin)
}

func (c AutoPlace) apply(b *Builder, t Team) (Team, string, error) {
	if err := c.Origin.Validate(); err != nil {
		return t, "", err
	}
	char := pickCharacter(t, c.Origin, c.Character)
	if char == nil {
		return t, "", domain.ErrCharacterNotFound
	}

	switch c.Origin.Area {
	case domain.AreaCourt:
		t.put(c.Origin, nil)
		return t, fmt.Sprintf("%s removed from the court.", char.Name), nil

	case domain.AreaBench:
		t.put(c.Origin, nil)
		if key, ok := t.OpenCourtSlot(char); ok {
			t.Court.Set(key, char)
			return t, fmt.Sprintf("%s moved from the bench to the court.", char.Name), nil
		}
		return t, fmt.Sprintf("%s removed from the bench (no room on the court).", char.Name), nil
	}

	if t.Contains(b.identity, char, domain.ListRef()) {
		return t, "", reject(domain.ErrDuplicateCharacter, "'%s' is already on the team or bench.", char.Name)
	}
	if key, ok := t.OpenCourtSlot(char); ok {
		t.Court.Set(key, char)
		return t, fmt.Sprintf("%s added to the court.", char.Name), nil
	}
	if i, ok := t.openBenchSlot(); ok {
		t.Bench[i] = char
		return t, fmt.Sprintf("%s added to the bench.", char.Name), nil
	}
	return t, "", reject(domain.ErrTeamFull, "Team and bench are full!")
}

func (c Remove) apply(_ *Builder, t Team) (Team, string, error) {
	removed := t.At(c.Target)
	next, err := t.Remove(c.Target)
	if err != nil {
		return t, "", err
	}
	if removed == nil {
		return next, "", nil
	}
	return next, fmt.Sprintf("%s removed.", removed.Name), nil
}

func (Rotate) apply(_ *Builder, t Team) (Team, string, error) {
	return t.Rotate(), "Team rotated!", nil
}

func (Clear) apply(_ *Builder, t Team) (Team, string, error) {
	return t.Clear(), "Team cleared.", nil
}

func (ToggleMode) apply(_ *Builder, t Team) (Team, string, error) {
	next := t.ToggleFreeMode()
	if next.FreeMode {
		return next, "Free position mode enabled.", nil
	}
	return next, "Strict position mode enabled.", nil
}

// Load is all or nothing: a team that breaks the libero rule or holds a
// character twice is rejected.
func (c Load) apply(b *Builder, t Team) (Team, string, error) {
	next := Team{Court: c.Court, Bench: c.Bench, FreeMode: t.FreeMode}

	for _, key := range domain.CourtSlotKeys {
		if ch, _ := next.Court.Get(key); ch != nil {
			if err := CheckSlot(ch, key, true); err != nil {
				return t, "", err
			}
		}
	}

	members := next.Members()
	for i, ch := range members {
		for _, other := range members[:i] {
			if b.identity.Same(ch, other) {
				return t, "", reject(domain.ErrDuplicateCharacter, "'%s' appears more than once in the loaded team.", ch.Name)
			}
		}
	}

	t.Court = next.Court
	t.Bench = next.Bench
	return t, "Team loaded.", nil
}
