package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dom/haikyu-team-builder/internal/builder"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/metrics"
	"github.com/dom/haikyu-team-builder/internal/repository"
	"github.com/dom/haikyu-team-builder/internal/teamcode"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SavedTeamService keeps each device's saved teams as one JSON array under
// domain.SavedTeamsKey.
type SavedTeamService struct {
	storage  repository.DeviceStorageRepository
	roster   *RosterService
	sessions *BuilderService
	metrics  *metrics.Recorder
	logger   *zap.Logger
	now      func() time.Time

	// locks holds a *sync.Mutex per device; writes read the whole array
	// and store it back.
	locks sync.Map
}

func NewSavedTeamService(
	storage repository.DeviceStorageRepository,
	roster *RosterService,
	sessions *BuilderService,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *SavedTeamService {
	return &SavedTeamService{
		storage:  storage,
		roster:   roster,
		sessions: sessions,
		metrics:  recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the device's saved teams, oldest first. Unreadable storage
// reads as an empty list.
func (s *SavedTeamService) List(ctx context.Context, deviceID string) ([]domain.SavedTeam, error) {
	entry, err := s.storage.Get(ctx, deviceID, domain.SavedTeamsKey)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []domain.SavedTeam{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read saved teams: %w", err)
	}

	var teams []domain.SavedTeam
	if err := json.Unmarshal(entry.Value, &teams); err != nil {
		s.logger.Warn("discarding unreadable saved teams",
			zap.String("device", deviceID),
			zap.Error(err),
		)
		return []domain.SavedTeam{}, nil
	}
	if teams == nil {
		teams = []domain.SavedTeam{}
	}
	return teams, nil
}

func (s *SavedTeamService) lockDevice(deviceID string) func() {
	m, _ := s.locks.LoadOrStore(deviceID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *SavedTeamService) write(ctx context.Context, deviceID string, teams []domain.SavedTeam) error {
	data, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("failed to encode saved teams: %w", err)
	}
	return s.storage.Set(ctx, &domain.DeviceEntry{
		DeviceID: deviceID,
		Key:      domain.SavedTeamsKey,
		Value:    datatypes.JSON(data),
	})
}

// Save appends a snapshot of court and bench under name.
func (s *SavedTeamService) Save(ctx context.Context, deviceID, name string, court domain.TeamSlots, bench domain.Bench) (*domain.SavedTeam, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidTeamName
	}

	unlock := s.lockDevice(deviceID)
	defer unlock()

	teams, err := s.List(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	saved := domain.SavedTeam{
		Name:    name,
		Court:   &court,
		Bench:   bench.Slice(),
		SavedAt: s.now().UTC(),
	}
	teams = append(teams, saved)
	if err := s.write(ctx, deviceID, teams); err != nil {
		return nil, err
	}

	s.logger.Info("team saved", zap.String("device", deviceID), zap.String("name", name))
	return &saved, nil
}

// SaveSession snapshots a builder session's current team.
func (s *SavedTeamService) SaveSession(ctx context.Context, deviceID string, sessionID uuid.UUID, name string) (*domain.SavedTeam, error) {
	team, err := s.sessions.Team(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Save(ctx, deviceID, name, team.Court, team.Bench)
}

func (s *SavedTeamService) get(ctx context.Context, deviceID string, index int) (domain.SavedTeam, []domain.SavedTeam, error) {
	teams, err := s.List(ctx, deviceID)
	if err != nil {
		return domain.SavedTeam{}, nil, err
	}
	if index < 0 || index >= len(teams) {
		return domain.SavedTeam{}, nil, fmt.Errorf("%w: index %d", domain.ErrSavedTeamNotFound, index)
	}
	return teams[index], teams, nil
}

func (s *SavedTeamService) Delete(ctx context.Context, deviceID string, index int) error {
	unlock := s.lockDevice(deviceID)
	defer unlock()

	_, teams, err := s.get(ctx, deviceID, index)
	if err != nil {
		return err
	}
	teams = append(teams[:index], teams[index+1:]...)
	return s.write(ctx, deviceID, teams)
}

// Load replaces the session's team with a saved snapshot. A snapshot without
// court or bench is corrupted and changes nothing.
func (s *SavedTeamService) Load(ctx context.Context, deviceID string, index int, sessionID uuid.UUID) (*View, error) {
	saved, _, err := s.get(ctx, deviceID, index)
	if err != nil {
		return nil, err
	}
	if saved.Court == nil || saved.Bench == nil {
		return nil, domain.ErrCorruptedTeam
	}
	return s.sessions.Execute(ctx, sessionID, builder.Load{
		Court: *saved.Court,
		Bench: domain.BenchFromSlice(saved.Bench),
	})
}

func (s *SavedTeamService) Export(ctx context.Context, deviceID string, index int) (string, error) {
	saved, _, err := s.get(ctx, deviceID, index)
	if err != nil {
		return "", err
	}
	return teamcode.Export(saved)
}

// ImportResult is the outcome of importing an export key.
type ImportResult struct {
	Court   domain.TeamSlots   `json:"court"`
	Bench   domain.Bench       `json:"bench"`
	Missing []teamcode.Missing `json:"missing"`
	Skipped []teamcode.Skipped `json:"skipped"`
	Warning string             `json:"warning,omitempty"`
	Saved   *domain.SavedTeam  `json:"saved,omitempty"`
	View    *View              `json:"view,omitempty"`
}

// ImportOptions says where an imported team goes. Both are optional.
type ImportOptions struct {
	Name      string
	SessionID *uuid.UUID
}

// Import resolves key against the roster. Unknown ids leave their slots empty
// and are reported, not fatal. With a name the team is saved; with a session
// it replaces that session's team.
func (s *SavedTeamService) Import(ctx context.Context, deviceID, key string, opts ImportOptions) (*ImportResult, error) {
	r, err := s.roster.Roster(ctx)
	if err != nil {
		return nil, err
	}
	resolved, err := teamcode.Import(key, r.Characters, s.sessions.Identity())
	if err != nil {
		return nil, err
	}
	result := &ImportResult{
		Court:   resolved.Court,
		Bench:   resolved.Bench,
		Missing: resolved.Missing,
		Skipped: resolved.Skipped,
		Warning: resolved.Warning(),
	}

	if opts.SessionID != nil {
		v, err := s.sessions.LoadImported(ctx, *opts.SessionID, resolved)
		if err != nil {
			return nil, err
		}
		result.View = v
	} else {
		s.metrics.ImportMissing(len(resolved.Missing))
	}

	if strings.TrimSpace(opts.Name) != "" {
		saved, err := s.Save(ctx, deviceID, opts.Name, resolved.Court, resolved.Bench)
		if err != nil {
			return nil, err
		}
		result.Saved = saved
	}
	return result, nil
}
