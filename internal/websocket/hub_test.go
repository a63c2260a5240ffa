package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dom/haikyu-team-builder/internal/builder"
	"github.com/dom/haikyu-team-builder/internal/cache"
	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/dom/haikyu-team-builder/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type staticCharacters struct{ characters []*domain.Character }

func (s staticCharacters) Create(context.Context, *domain.Character) error       { return nil }
func (s staticCharacters) Update(context.Context, *domain.Character) error       { return nil }
func (s staticCharacters) UpsertMany(context.Context, []*domain.Character) error { return nil }
func (s staticCharacters) GetAll(context.Context) ([]*domain.Character, error) {
	return s.characters, nil
}
func (s staticCharacters) GetByID(context.Context, int64) (*domain.Character, error) {
	return nil, nil
}

type noBonds struct{}

func (noBonds) GetAll(context.Context) ([]*domain.Bond, error) { return nil, nil }
func (noBonds) Create(context.Context, *domain.Bond) error     { return nil }

type noLinks struct{}

func (noLinks) GetAll(context.Context) ([]*domain.CharacterBondLink, error) { return nil, nil }
func (noLinks) GetBondIDs(context.Context, int64) ([]int64, error)          { return nil, nil }
func (noLinks) Replace(context.Context, int64, []int64) error               { return nil }

func newBuilderService(characters ...*domain.Character) *service.BuilderService {
	roster := service.NewRosterService(staticCharacters{characters}, noBonds{}, noLinks{}, cache.Nop{}, nil, zap.NewNop())
	return service.NewBuilderService(builder.New(builder.IdentityByName), roster, nil, zap.NewNop(), time.Minute)
}

func receive(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "client channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func waitSubscribers(t *testing.T, h *Hub, c *Client, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return h.Subscribers(c.sessionID) == n
	}, time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastsToSessionSubscribersOnly(t *testing.T) {
	defer goleak.VerifyNone(t)

	kageyama := &domain.Character{ID: 1, Name: "Kageyama Tobio", Position: domain.PositionSetter}
	builderService := newBuilderService(kageyama)
	hub := NewHub(builderService, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	defer func() {
		cancel()
		<-hub.Done()
	}()

	first, err := builderService.Create(ctx)
	require.NoError(t, err)
	second, err := builderService.Create(ctx)
	require.NoError(t, err)

	watcherA := NewClient(hub, nil, first.SessionID)
	watcherB := NewClient(hub, nil, first.SessionID)
	other := NewClient(hub, nil, second.SessionID)
	hub.Register(watcherA)
	hub.Register(watcherB)
	hub.Register(other)
	waitSubscribers(t, hub, watcherA, 2)
	waitSubscribers(t, hub, other, 1)

	_, err = builderService.Apply(ctx, first.SessionID, service.CommandRequest{
		Action:  builder.ActionAssign,
		Payload: service.CommandPayload{Target: "court-pos2_s", CharacterID: 1},
	})
	require.NoError(t, err)

	for _, c := range []*Client{watcherA, watcherB} {
		msg := receive(t, c)
		assert.Equal(t, MessageTypeState, msg.Type)
		assert.Equal(t, 1, msg.Seq)

		var view service.View
		require.NoError(t, json.Unmarshal(msg.Payload, &view))
		assert.Equal(t, first.SessionID, view.SessionID)
		require.NotNil(t, view.Court.Pos2S)
		assert.Equal(t, "Kageyama Tobio", view.Court.Pos2S.Name)
	}

	assert.Empty(t, other.send)
}

func TestHub_DropsStateOlderThanLastSent(t *testing.T) {
	defer goleak.VerifyNone(t)

	builderService := newBuilderService()
	hub := NewHub(builderService, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	defer func() {
		cancel()
		<-hub.Done()
	}()

	view, err := builderService.Create(ctx)
	require.NoError(t, err)

	c := NewClient(hub, nil, view.SessionID)
	hub.Register(c)
	waitSubscribers(t, hub, c, 1)

	// Version 1 is published after version 2, as happens when two commands
	// race to their listeners.
	hub.Publish(&service.View{SessionID: view.SessionID, Version: 2, FreeMode: true})
	hub.Publish(&service.View{SessionID: view.SessionID, Version: 1})
	hub.Publish(&service.View{SessionID: view.SessionID, Version: 3, FreeMode: true})

	for _, want := range []struct {
		seq     int
		version uint64
	}{{1, 2}, {2, 3}} {
		msg := receive(t, c)
		assert.Equal(t, want.seq, msg.Seq)

		var got service.View
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, want.version, got.Version)
		assert.True(t, got.FreeMode)
	}
	assert.Empty(t, c.send)
}

func TestHub_UnregisterClosesClient(t *testing.T) {
	defer goleak.VerifyNone(t)

	builderService := newBuilderService()
	hub := NewHub(builderService, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	defer func() {
		cancel()
		<-hub.Done()
	}()

	view, err := builderService.Create(ctx)
	require.NoError(t, err)

	c := NewClient(hub, nil, view.SessionID)
	hub.Register(c)
	waitSubscribers(t, hub, c, 1)

	hub.Unregister(c)
	waitSubscribers(t, hub, c, 0)

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed")
}

func TestHub_StopClosesClientsAndIgnoresLatePublishes(t *testing.T) {
	defer goleak.VerifyNone(t)

	builderService := newBuilderService()
	hub := NewHub(builderService, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	view, err := builderService.Create(ctx)
	require.NoError(t, err)

	c := NewClient(hub, nil, view.SessionID)
	hub.Register(c)
	waitSubscribers(t, hub, c, 1)

	cancel()
	<-hub.Done()

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed on stop")

	// Changes after stop must not block the builder.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			builderService.Apply(context.Background(), view.SessionID, service.CommandRequest{Action: builder.ActionRotate})
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("builder blocked on a stopped hub")
	}

	late := NewClient(hub, nil, view.SessionID)
	hub.Register(late)
	_, ok = <-late.send
	assert.False(t, ok)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rule violation", &builder.RejectionError{Err: domain.ErrPositionMismatch}, ErrCodeRejected},
		{"duplicate", domain.ErrDuplicateCharacter, ErrCodeRejected},
		{"unknown session", domain.ErrSessionNotFound, ErrCodeNotFound},
		{"unknown action", domain.ErrUnknownCommand, ErrCodeInvalidCommand},
		{"bad slot", domain.ErrSlotNotFound, ErrCodeInvalidCommand},
		{"anything else", context.DeadlineExceeded, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}
