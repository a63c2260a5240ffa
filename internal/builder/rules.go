package builder

import (
	"fmt"

	"github.com/dom/haikyu-team-builder/internal/domain"
)

// acceptedPositions maps each positional court slot to the only position it
// accepts in strict mode.
var acceptedPositions = map[domain.SlotKey]domain.Position{
	domain.SlotPos2S:  domain.PositionSetter,
	domain.SlotPos3MB: domain.PositionMiddleBlock,
	domain.SlotPos4WS: domain.PositionWingSpiker,
	domain.SlotPos1OP: domain.PositionOpposite,
	domain.SlotPos6MB: domain.PositionMiddleBlock,
	domain.SlotPos5WS: domain.PositionWingSpiker,
	domain.SlotLibero: domain.PositionLibero,
}

// AcceptedPosition returns the position a court slot accepts in strict mode.
func AcceptedPosition(key domain.SlotKey) (domain.Position, bool) {
	p, ok := acceptedPositions[key]
	return p, ok
}

// RejectionError is a rule violation meant to be shown to the user. It wraps
// one of the domain sentinel errors.
type RejectionError struct {
	Err     error
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

func reject(err error, format string, args ...interface{}) *RejectionError {
	return &RejectionError{Err: err, Message: fmt.Sprintf(format, args...)}
}

// CheckSlot decides whether c may occupy the court slot key. The libero
// restriction holds in both modes; free mode drops the per-position check.
func CheckSlot(c *domain.Character, key domain.SlotKey, freeMode bool) error {
	accepted, ok := AcceptedPosition(key)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSlotNotFound, key)
	}

	if key == domain.SlotLibero {
		if c.Position != domain.PositionLibero {
			return reject(domain.ErrLiberoSlot, "Only liberos (L) can go to the libero slot.")
		}
		return nil
	}

	if c.Position == domain.PositionLibero {
		return reject(domain.ErrLiberoOnly, "Liberos can only go to the libero slot.")
	}

	if !freeMode && c.Position != accepted {
		return reject(domain.ErrPositionMismatch, "%s (%s) cannot go to the %s slot.", c.Name, c.Position, accepted)
	}
	return nil
}

// Identity decides when two cards count as the same character.
type Identity int

const (
	// IdentityByName treats cards sharing a display name as one character, so
	// two rarities of the same player cannot both be fielded.
	IdentityByName Identity = iota
	// IdentityByID only treats cards with the same id as one character.
	IdentityByID
)

// ParseIdentity maps "name" or "id" to an Identity.
func ParseIdentity(s string) (Identity, error) {
	switch s {
	case "", "name":
		return IdentityByName, nil
	case "id":
		return IdentityByID, nil
	}
	return IdentityByName, fmt.Errorf("unknown identity mode %q", s)
}

func (i Identity) String() string {
	if i == IdentityByID {
		return "id"
	}
	return "name"
}

// Same reports whether a and b are the same character. Nil never matches.
func (i Identity) Same(a, b *domain.Character) bool {
	if a == nil || b == nil {
		return false
	}
	if i == IdentityByID {
		return a.ID == b.ID
	}
	return a.Name == b.Name
}
