package service

import "time"

// SetClock replaces the session clock.
func SetClock(s *BuilderService, now func() time.Time) {
	s.now = now
}
