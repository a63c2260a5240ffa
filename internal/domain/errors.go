package domain

import "errors"

// Roster errors
var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrInvalidCharacter  = errors.New("invalid character")
	ErrMissingFields     = errors.New("required fields (name, position, rarity, school) are missing")
	ErrMissingImage      = errors.New("character image must be selected")
	ErrStatOutOfRange    = errors.New("stats must be between 0 and 999")
)

// Team assignment errors
var (
	ErrSlotNotFound       = errors.New("slot not found")
	ErrPositionMismatch   = errors.New("position does not match slot")
	ErrLiberoOnly         = errors.New("libero can only occupy the libero slot")
	ErrLiberoSlot         = errors.New("only liberos can occupy the libero slot")
	ErrDuplicateCharacter = errors.New("character is already on the team")
	ErrTeamFull           = errors.New("court and bench are full")
	ErrUnknownCommand     = errors.New("unknown builder command")
)

// Saved team errors
var (
	ErrCorruptedTeam     = errors.New("corrupted team data")
	ErrInvalidTeamKey    = errors.New("invalid team key")
	ErrExportFailed      = errors.New("failed to generate team key")
	ErrSavedTeamNotFound = errors.New("saved team not found")
	ErrInvalidTeamName   = errors.New("team name is required")
	ErrSessionNotFound   = errors.New("builder session not found")
)
