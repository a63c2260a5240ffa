package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dom/haikyu-team-builder/internal/cache"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/metrics"
	"github.com/dom/haikyu-team-builder/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// FilterAll disables a position or school filter.
const FilterAll = "ALL"

// CharacterFilter narrows the roster list.
type CharacterFilter struct {
	Position string
	School   string
	Search   string
}

func (f CharacterFilter) Match(c *domain.Character) bool {
	if f.Position != "" && f.Position != FilterAll && string(c.Position) != f.Position {
		return false
	}
	if f.School != "" && f.School != FilterAll && string(c.School) != f.School {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// RosterService loads characters, bonds and bond links once and serves them
// from memory until invalidated.
type RosterService struct {
	characterRepo repository.CharacterRepository
	bondRepo      repository.BondRepository
	linkRepo      repository.CharacterBondRepository
	cache         cache.RosterCache
	metrics       *metrics.Recorder
	logger        *zap.Logger

	loads  singleflight.Group
	mu     sync.RWMutex
	roster *domain.Roster
	gen    uint64 // bumped by Invalidate

	// commitMu orders snapshot writes against Invalidate.
	commitMu sync.Mutex
}

func NewRosterService(
	characterRepo repository.CharacterRepository,
	bondRepo repository.BondRepository,
	linkRepo repository.CharacterBondRepository,
	rosterCache cache.RosterCache,
	recorder *metrics.Recorder,
	logger *zap.Logger,
) *RosterService {
	if rosterCache == nil {
		rosterCache = cache.Nop{}
	}
	return &RosterService{
		characterRepo: characterRepo,
		bondRepo:      bondRepo,
		linkRepo:      linkRepo,
		cache:         rosterCache,
		metrics:       recorder,
		logger:        logger,
	}
}

// Roster returns the current snapshot, loading it on first use. Concurrent
// callers share one load.
func (s *RosterService) Roster(ctx context.Context) (*domain.Roster, error) {
	s.mu.RLock()
	r := s.roster
	s.mu.RUnlock()
	if r != nil {
		return r, nil
	}

	v, err, _ := s.loads.Do("roster", func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Roster), nil
}

func (s *RosterService) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

func (s *RosterService) load(ctx context.Context) (*domain.Roster, error) {
	gen := s.generation()

	cached, err := s.cache.Get(ctx)
	switch {
	case err == nil:
		s.metrics.CacheHit()
		s.commit(ctx, gen, cached, false)
		return cached, nil
	case !errors.Is(err, cache.ErrMiss):
		s.logger.Warn("roster cache read failed", zap.Error(err))
	}
	s.metrics.CacheMiss()

	r, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !s.commit(ctx, gen, r, true) {
		s.logger.Debug("roster invalidated during load, snapshot not kept")
		return r, nil
	}

	s.logger.Info("roster loaded",
		zap.Int("characters", len(r.Characters)),
		zap.Int("bonds", len(r.Bonds)),
		zap.Int("links", len(r.Links)),
	)
	return r, nil
}

// fetch reads the three tables in parallel. Any failure fails the whole load.
func (s *RosterService) fetch(ctx context.Context) (*domain.Roster, error) {
	var (
		characters []*domain.Character
		bonds      []*domain.Bond
		links      []*domain.CharacterBondLink
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if characters, err = s.characterRepo.GetAll(gctx); err != nil {
			return fmt.Errorf("failed to load characters: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if bonds, err = s.bondRepo.GetAll(gctx); err != nil {
			return fmt.Errorf("failed to load bonds: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if links, err = s.linkRepo.GetAll(gctx); err != nil {
			return fmt.Errorf("failed to load bond links: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range characters {
		c.SetStyles(c.StyleList())
	}
	if characters == nil {
		characters = []*domain.Character{}
	}
	if bonds == nil {
		bonds = []*domain.Bond{}
	}
	if links == nil {
		links = []*domain.CharacterBondLink{}
	}
	return &domain.Roster{Characters: characters, Bonds: bonds, Links: links}, nil
}

// commit keeps r as the current snapshot, and writes it to the cache when
// writeCache is set, unless Invalidate ran since gen was read.
func (s *RosterService) commit(ctx context.Context, gen uint64, r *domain.Roster, writeCache bool) bool {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if s.generation() != gen {
		return false
	}
	if writeCache {
		if err := s.cache.Set(ctx, r); err != nil {
			s.logger.Warn("roster cache write failed", zap.Error(err))
		}
	}
	s.mu.Lock()
	s.roster = r
	s.mu.Unlock()
	return true
}

// Invalidate drops the in-memory and cached snapshots. The next read reloads;
// a load already in flight is not kept.
func (s *RosterService) Invalidate(ctx context.Context) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	s.gen++
	s.roster = nil
	s.mu.Unlock()
	s.loads.Forget("roster")

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("roster cache invalidate failed", zap.Error(err))
	}
}

// Reload reads a fresh snapshot from the database. On failure the current
// snapshot stays in place.
func (s *RosterService) Reload(ctx context.Context) (*domain.Roster, error) {
	gen := s.generation()
	r, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.commit(ctx, gen, r, true)
	return r, nil
}

func (s *RosterService) GetCharacters(ctx context.Context, filter CharacterFilter) ([]*domain.Character, error) {
	r, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Character, 0, len(r.Characters))
	for _, c := range r.Characters {
		if filter.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *RosterService) GetCharacter(ctx context.Context, id int64) (*domain.Character, error) {
	r, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	c, ok := r.Character(id)
	if !ok {
		return nil, domain.ErrCharacterNotFound
	}
	return c, nil
}

func (s *RosterService) GetBonds(ctx context.Context) ([]*domain.Bond, error) {
	r, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return r.Bonds, nil
}

func (s *RosterService) GetBondLinks(ctx context.Context) ([]*domain.CharacterBondLink, error) {
	r, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return r.Links, nil
}
