package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dom/haikyu-team-builder/internal/builder"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/metrics"
	"github.com/dom/haikyu-team-builder/internal/teamcode"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommandPayload carries the arguments of a wire command. Slot references use
// the "court-<slot>", "bench-<index>" and "list" forms.
type CommandPayload struct {
	Target      string `json:"target,omitempty"`
	Origin      string `json:"origin,omitempty"`
	CharacterID int64  `json:"characterId,omitempty"`
	Key         string `json:"key,omitempty"`
}

// CommandRequest is one builder command as sent by a client.
type CommandRequest struct {
	Action  builder.Action `json:"action"`
	Payload CommandPayload `json:"payload"`
}

// View is a session's team with everything derived from it.
type View struct {
	SessionID   uuid.UUID          `json:"sessionId"`
	Court       domain.TeamSlots   `json:"court"`
	Bench       domain.Bench       `json:"bench"`
	FreeMode    bool               `json:"freeMode"`
	TeamType    domain.TeamType    `json:"teamType"`
	StyleCounts domain.StyleCounts `json:"styleCounts"`
	ActiveBonds []*domain.Bond     `json:"activeBonds"`
	MemberNames []string           `json:"memberNames"`
	Message     string             `json:"message,omitempty"`
	Missing     []teamcode.Missing `json:"missing,omitempty"`
	Skipped     []teamcode.Skipped `json:"skipped,omitempty"`

	// Version counts the changes applied to the session. Views with a lower
	// version describe an older team.
	Version uint64 `json:"version"`
}

type session struct {
	mu       sync.Mutex
	id       uuid.UUID
	team     builder.Team
	version  uint64
	lastUsed time.Time
}

// BuilderService keeps the in-memory builder sessions and applies commands to
// them. Each session is mutated under its own lock.
type BuilderService struct {
	builder     *builder.Builder
	roster      *RosterService
	metrics     *metrics.Recorder
	logger      *zap.Logger
	idleTimeout time.Duration
	now         func() time.Time

	mu        sync.RWMutex
	sessions  map[uuid.UUID]*session
	listeners []func(*View)
}

func NewBuilderService(
	b *builder.Builder,
	roster *RosterService,
	recorder *metrics.Recorder,
	logger *zap.Logger,
	idleTimeout time.Duration,
) *BuilderService {
	return &BuilderService{
		builder:     b,
		roster:      roster,
		metrics:     recorder,
		logger:      logger,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*session),
	}
}

// OnChange registers fn to receive the view after every successful change.
func (s *BuilderService) OnChange(fn func(*View)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *BuilderService) notify(v *View) {
	s.mu.RLock()
	listeners := append([]func(*View){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(v)
	}
}

// Create opens an empty strict-mode session.
func (s *BuilderService) Create(ctx context.Context) (*View, error) {
	sess := &session{id: uuid.New(), team: builder.NewTeam(), lastUsed: s.now()}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.metrics.SessionOpened()

	s.logger.Debug("builder session created", zap.String("session", sess.id.String()))
	return s.view(ctx, sess.id, sess.team, "")
}

func (s *BuilderService) lookup(id uuid.UUID) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *BuilderService) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	sess.lastUsed = s.now()
	team, version := sess.team, sess.version
	sess.mu.Unlock()

	v, err := s.view(ctx, id, team, "")
	if err != nil {
		return nil, err
	}
	v.Version = version
	return v, nil
}

// Team returns a copy of the session's current team.
func (s *BuilderService) Team(id uuid.UUID) (builder.Team, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return builder.Team{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.team, nil
}

// Apply decodes req against the roster and runs it on the session. A rejected
// command leaves the session untouched.
func (s *BuilderService) Apply(ctx context.Context, id uuid.UUID, req CommandRequest) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	r, err := s.roster.Roster(ctx)
	if err != nil {
		return nil, err
	}
	cmd, imported, err := decodeCommand(req, r, s.builder.Identity())
	if err != nil {
		s.metrics.Command(string(req.Action), outcome(err))
		return nil, err
	}
	return s.run(ctx, sess, cmd, imported)
}

// Execute runs an already decoded command on the session.
func (s *BuilderService) Execute(ctx context.Context, id uuid.UUID, cmd builder.Command) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, sess, cmd, nil)
}

// LoadImported replaces the session's team with a resolved export key and
// reports what the key could not place.
func (s *BuilderService) LoadImported(ctx context.Context, id uuid.UUID, resolved teamcode.Resolved) (*View, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, sess, builder.Load{Court: resolved.Court, Bench: resolved.Bench}, &resolved)
}

// Identity is the duplicate matching used by the session's builder.
func (s *BuilderService) Identity() builder.Identity {
	return s.builder.Identity()
}

// run applies cmd to the session. imported is set when cmd came from an export
// key; what it could not place is reported on the view.
func (s *BuilderService) run(ctx context.Context, sess *session, cmd builder.Command, imported *teamcode.Resolved) (*View, error) {
	sess.mu.Lock()
	res, err := s.builder.Apply(sess.team, cmd)
	sess.lastUsed = s.now()
	var version uint64
	if err == nil {
		sess.team = res.Team
		sess.version++
		version = sess.version
	}
	sess.mu.Unlock()

	s.metrics.Command(string(cmd.Action()), outcome(err))
	if err != nil {
		s.logger.Debug("builder command rejected",
			zap.String("session", sess.id.String()),
			zap.String("action", string(cmd.Action())),
			zap.Error(err),
		)
		return nil, err
	}

	v, err := s.view(ctx, sess.id, res.Team, res.Message)
	if err != nil {
		return nil, err
	}
	v.Version = version
	if imported != nil {
		v.Missing = imported.Missing
		v.Skipped = imported.Skipped
		if w := imported.Warning(); w != "" {
			v.Message += " " + w + "."
		}
		s.metrics.ImportMissing(len(imported.Missing))
	}
	s.notify(v)
	return v, nil
}

// Close ends a session.
func (s *BuilderService) Close(id uuid.UUID) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		s.metrics.SessionClosed()
	}
}

// Reap closes sessions idle for longer than the idle timeout and returns how
// many it closed.
func (s *BuilderService) Reap() int {
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	var stale []uuid.UUID
	for id, sess := range s.sessions {
		sess.mu.Lock()
		if sess.lastUsed.Before(cutoff) {
			stale = append(stale, id)
		}
		sess.mu.Unlock()
	}
	for _, id := range stale {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for range stale {
		s.metrics.SessionClosed()
	}
	if len(stale) > 0 {
		s.logger.Info("reaped idle builder sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// RunReaper reaps idle sessions until ctx is done.
func (s *BuilderService) RunReaper(ctx context.Context) error {
	interval := s.idleTimeout / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Reap()
		}
	}
}

func (s *BuilderService) view(ctx context.Context, id uuid.UUID, t builder.Team, msg string) (*View, error) {
	r, err := s.roster.Roster(ctx)
	if err != nil {
		return nil, err
	}
	summary := builder.Summarize(t, r.Bonds, r.Links, r.Characters)

	names := make([]string, 0, len(domain.CourtSlotKeys)+domain.BenchSize)
	for _, c := range t.Members() {
		names = append(names, c.Name)
	}

	return &View{
		SessionID:   id,
		Court:       t.Court,
		Bench:       t.Bench,
		FreeMode:    t.FreeMode,
		TeamType:    summary.TeamType,
		StyleCounts: summary.StyleCounts,
		ActiveBonds: summary.ActiveBonds,
		MemberNames: names,
		Message:     msg,
	}, nil
}

// decodeCommand turns a wire command into a builder command. A load command
// carries an export key, and its resolution is returned alongside.
func decodeCommand(req CommandRequest, r *domain.Roster, identity builder.Identity) (builder.Command, *teamcode.Resolved, error) {
	p := req.Payload

	ref := func(s string) (domain.SlotRef, error) {
		if s == "" {
			return domain.SlotRef{}, fmt.Errorf("%w: slot reference is required", domain.ErrSlotNotFound)
		}
		return domain.ParseSlotRef(s)
	}
	character := func() (*domain.Character, error) {
		if p.CharacterID == 0 {
			return nil, nil
		}
		c, ok := r.Character(p.CharacterID)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", domain.ErrCharacterNotFound, p.CharacterID)
		}
		return c, nil
	}

	switch req.Action {
	case builder.ActionAssign:
		target, err := ref(p.Target)
		if err != nil {
			return nil, nil, err
		}
		c, err := character()
		if err != nil {
			return nil, nil, err
		}
		return builder.Assign{Target: target, Character: c}, nil, nil

	case builder.ActionMove:
		origin, err := ref(p.Origin)
		if err != nil {
			return nil, nil, err
		}
		target, err := ref(p.Target)
		if err != nil {
			return nil, nil, err
		}
		c, err := character()
		if err != nil {
			return nil, nil, err
		}
		return builder.Move{Origin: origin, Target: target, Character: c}, nil, nil

	case builder.ActionAutoPlace:
		origin, err := ref(p.Origin)
		if err != nil {
			return nil, nil, err
		}
		c, err := character()
		if err != nil {
			return nil, nil, err
		}
		return builder.AutoPlace{Origin: origin, Character: c}, nil, nil

	case builder.ActionRemove:
		target, err := ref(p.Target)
		if err != nil {
			return nil, nil, err
		}
		return builder.Remove{Target: target}, nil, nil

	case builder.ActionRotate:
		return builder.Rotate{}, nil, nil
	case builder.ActionClear:
		return builder.Clear{}, nil, nil
	case builder.ActionToggleMode:
		return builder.ToggleMode{}, nil, nil

	case builder.ActionLoad:
		resolved, err := teamcode.Import(p.Key, r.Characters, identity)
		if err != nil {
			return nil, nil, err
		}
		return builder.Load{Court: resolved.Court, Bench: resolved.Bench}, &resolved, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, req.Action)
}

// outcome labels a command result for metrics.
func outcome(err error) string {
	var rejection *builder.RejectionError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rejection), IsClientError(err):
		return "rejected"
	default:
		return "error"
	}
}
