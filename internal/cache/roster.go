package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dom/haikyu-team-builder/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when no snapshot is cached.
var ErrMiss = errors.New("roster cache miss")

const rosterKey = "haikyu:roster:v1"

// RosterCache stores the last loaded roster snapshot.
type RosterCache interface {
	Get(ctx context.Context) (*domain.Roster, error)
	Set(ctx context.Context, roster *domain.Roster) error
	Invalidate(ctx context.Context) error
}

// Connect opens a redis client and checks it answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 20,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

type redisRosterCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRosterCache(client *redis.Client, ttl time.Duration) RosterCache {
	return &redisRosterCache{client: client, ttl: ttl}
}

func (c *redisRosterCache) Get(ctx context.Context) (*domain.Roster, error) {
	data, err := c.client.Get(ctx, rosterKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var roster domain.Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		// A snapshot written by an older build is treated as absent.
		return nil, ErrMiss
	}
	return &roster, nil
}

func (c *redisRosterCache) Set(ctx context.Context, roster *domain.Roster) error {
	data, err := json.Marshal(roster)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rosterKey, data, c.ttl).Err()
}

func (c *redisRosterCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, rosterKey).Err()
}

// Nop caches nothing; every Get misses.
type Nop struct{}

func (Nop) Get(context.Context) (*domain.Roster, error) { return nil, ErrMiss }
func (Nop) Set(context.Context, *domain.Roster) error   { return nil }
func (Nop) Invalidate(context.Context) error            { return nil }
