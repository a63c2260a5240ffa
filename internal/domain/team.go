package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotKey names a court slot. The suffix is the position the slot accepts in
// strict mode.
type SlotKey string

const (
	SlotPos5WS SlotKey = "pos5_ws"
	SlotPos6MB SlotKey = "pos6_mb"
	SlotPos1OP SlotKey = "pos1_op"
	SlotPos4WS SlotKey = "pos4_ws"
	SlotPos3MB SlotKey = "pos3_mb"
	SlotPos2S  SlotKey = "pos2_s"
	SlotLibero SlotKey = "libero"
	BenchSize          = 6
)

// CourtSlotKeys lists every court slot in layout order.
var CourtSlotKeys = []SlotKey{SlotPos5WS, SlotPos6MB, SlotPos1OP, SlotPos4WS, SlotPos3MB, SlotPos2S, SlotLibero}

func (k SlotKey) IsValid() bool {
	for _, key := range CourtSlotKeys {
		if k == key {
			return true
		}
	}
	return false
}

// TeamSlots holds the six positional court slots and the libero slot.
type TeamSlots struct {
	Pos5WS *Character `json:"pos5_ws"`
	Pos6MB *Character `json:"pos6_mb"`
	Pos1OP *Character `json:"pos1_op"`
	Pos4WS *Character `json:"pos4_ws"`
	Pos3MB *Character `json:"pos3_mb"`
	Pos2S  *Character `json:"pos2_s"`
	Libero *Character `json:"libero"`
}

func (t *TeamSlots) slot(key SlotKey) **Character {
	switch key {
	case SlotPos5WS:
		return &t.Pos5WS
	case SlotPos6MB:
		return &t.Pos6MB
	case SlotPos1OP:
		return &t.Pos1OP
	case SlotPos4WS:
		return &t.Pos4WS
	case SlotPos3MB:
		return &t.Pos3MB
	case SlotPos2S:
		return &t.Pos2S
	case SlotLibero:
		return &t.Libero
	}
	return nil
}

// Get returns the character in a slot; ok is false for an unknown key.
func (t TeamSlots) Get(key SlotKey) (c *Character, ok bool) {
	p := t.slot(key)
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Set places c (or nil) into the slot. It returns false for an unknown key.
func (t *TeamSlots) Set(key SlotKey, c *Character) bool {
	p := t.slot(key)
	if p == nil {
		return false
	}
	*p = c
	return true
}

// Occupied returns the characters on court, libero included, in layout order.
func (t TeamSlots) Occupied() []*Character {
	out := make([]*Character, 0, len(CourtSlotKeys))
	for _, key := range CourtSlotKeys {
		if c, _ := t.Get(key); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Bench is the ordered reserve; any position may sit in any bench slot.
type Bench [BenchSize]*Character

// Occupied returns the benched characters in order.
func (b Bench) Occupied() []*Character {
	out := make([]*Character, 0, BenchSize)
	for _, c := range b {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Slice returns the bench as a slice of BenchSize entries.
func (b Bench) Slice() []*Character {
	out := make([]*Character, BenchSize)
	copy(out, b[:])
	return out
}

// BenchFromSlice copies up to BenchSize entries; missing entries stay empty.
func BenchFromSlice(chars []*Character) Bench {
	var b Bench
	copy(b[:], chars)
	return b
}

// SlotArea says where a slot lives.
type SlotArea string

const (
	AreaCourt SlotArea = "court"
	AreaBench SlotArea = "bench"
	AreaList  SlotArea = "list"
)

// SlotRef identifies a court slot, a bench index, or the roster list.
type SlotRef struct {
	Area  SlotArea `json:"area"`
	Key   SlotKey  `json:"key,omitempty"`
	Index int      `json:"index,omitempty"`
}

func CourtRef(key SlotKey) SlotRef { return SlotRef{Area: AreaCourt, Key: key} }
func BenchRef(index int) SlotRef   { return SlotRef{Area: AreaBench, Index: index} }
func ListRef() SlotRef             { return SlotRef{Area: AreaList} }

// String renders the identifier used by the client, e.g. "court-pos2_s" or "bench-3".
func (r SlotRef) String() string {
	switch r.Area {
	case AreaCourt:
		return "court-" + string(r.Key)
	case AreaBench:
		return "bench-" + strconv.Itoa(r.Index)
	}
	return string(r.Area)
}

// Validate reports ErrSlotNotFound for unknown keys or out of range bench indexes.
func (r SlotRef) Validate() error {
	switch r.Area {
	case AreaCourt:
		if r.Key.IsValid() {
			return nil
		}
	case AreaBench:
		if r.Index >= 0 && r.Index < BenchSize {
			return nil
		}
	case AreaList:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrSlotNotFound, r)
}

// ParseSlotRef parses "court-<key>", "bench-<index>" or "list".
func ParseSlotRef(s string) (SlotRef, error) {
	if s == string(AreaList) {
		return ListRef(), nil
	}
	area, rest, ok := strings.Cut(s, "-")
	if !ok {
		return SlotRef{}, fmt.Errorf("%w: %q", ErrSlotNotFound, s)
	}

	var ref SlotRef
	switch SlotArea(area) {
	case AreaCourt:
		ref = CourtRef(SlotKey(rest))
	case AreaBench:
		index, err := strconv.Atoi(rest)
		if err != nil {
			return SlotRef{}, fmt.Errorf("%w: %q", ErrSlotNotFound, s)
		}
		ref = BenchRef(index)
	default:
		return SlotRef{}, fmt.Errorf("%w: %q", ErrSlotNotFound, s)
	}

	if err := ref.Validate(); err != nil {
		return SlotRef{}, err
	}
	return ref, nil
}

// SavedTeam is a named snapshot kept in device storage. Court and Bench are
// pointers so that a snapshot missing either field can be detected on load.
type SavedTeam struct {
	Name    string       `json:"name"`
	Court   *TeamSlots   `json:"court"`
	Bench   []*Character `json:"bench"`
	SavedAt time.Time    `json:"savedAt"`
}

// ExportedTeam is the compact id-only projection carried by a team key.
type ExportedTeam struct {
	C map[SlotKey]*int64 `json:"c"`
	B []*int64           `json:"b"`
}
