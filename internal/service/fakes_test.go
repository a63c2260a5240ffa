package service_test

import (
	"context"
	"sync/atomic"

	"github.com/dom/haikyu-team-builder/internal/domain"
)

type fakeCharacters struct {
	characters []*domain.Character
	err        error
	calls      atomic.Int32

	// When gate is set, GetAll signals entered after reading and waits on gate.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeCharacters) Create(context.Context, *domain.Character) error           { return nil }
func (f *fakeCharacters) Update(context.Context, *domain.Character) error           { return nil }
func (f *fakeCharacters) UpsertMany(context.Context, []*domain.Character) error     { return nil }
func (f *fakeCharacters) GetByID(context.Context, int64) (*domain.Character, error) { return nil, nil }

func (f *fakeCharacters) GetAll(context.Context) ([]*domain.Character, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	characters := f.characters
	if f.gate != nil {
		gate := f.gate
		f.gate = nil
		f.entered <- struct{}{}
		<-gate
	}
	return characters, nil
}

type fakeBonds struct {
	bonds []*domain.Bond
	err   error
}

func (f *fakeBonds) Create(context.Context, *domain.Bond) error { return nil }

func (f *fakeBonds) GetAll(context.Context) ([]*domain.Bond, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bonds, nil
}

type fakeLinks struct {
	links []*domain.CharacterBondLink
	err   error
}

func (f *fakeLinks) GetBondIDs(context.Context, int64) ([]int64, error) { return nil, nil }
func (f *fakeLinks) Replace(context.Context, int64, []int64) error      { return nil }

func (f *fakeLinks) GetAll(context.Context) ([]*domain.CharacterBondLink, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.links, nil
}

// memoryCache is an in-process cache.RosterCache.
type memoryCache struct {
	roster *domain.Roster
	sets   int
}

func (c *memoryCache) Get(context.Context) (*domain.Roster, error) {
	if c.roster == nil {
		return nil, errCacheMiss
	}
	return c.roster, nil
}

func (c *memoryCache) Set(_ context.Context, r *domain.Roster) error {
	c.roster = r
	c.sets++
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.roster = nil
	return nil
}
