package service

import (
	"errors"

	"github.com/dom/haikyu-team-builder/internal/domain"
)

var notFoundErrors = []error{
	domain.ErrCharacterNotFound,
	domain.ErrSavedTeamNotFound,
	domain.ErrSessionNotFound,
}

var badRequestErrors = []error{
	domain.ErrInvalidCharacter,
	domain.ErrMissingFields,
	domain.ErrMissingImage,
	domain.ErrStatOutOfRange,
	domain.ErrSlotNotFound,
	domain.ErrCorruptedTeam,
	domain.ErrInvalidTeamKey,
	domain.ErrInvalidTeamName,
	domain.ErrUnknownCommand,
}

var rejectionErrors = []error{
	domain.ErrPositionMismatch,
	domain.ErrLiberoOnly,
	domain.ErrLiberoSlot,
	domain.ErrDuplicateCharacter,
	domain.ErrTeamFull,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func IsNotFound(err error) bool   { return isAny(err, notFoundErrors) }
func IsBadRequest(err error) bool { return isAny(err, badRequestErrors) }
func IsRejection(err error) bool  { return isAny(err, rejectionErrors) }

// IsClientError reports whether err was caused by the request rather than by
// the server.
func IsClientError(err error) bool {
	return IsNotFound(err) || IsBadRequest(err) || IsRejection(err)
}
