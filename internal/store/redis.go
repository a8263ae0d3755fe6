package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mj1618/arrange/internal/model"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding saved layouts.
const DefaultRedisKey = "arrange:layouts"

// RedisLayouts keeps saved layouts in a Redis hash keyed by layout id.
type RedisLayouts struct {
	client *redis.Client
	key    string
}

// NewRedisLayouts connects to addr and checks the connection.
func NewRedisLayouts(ctx context.Context, addr, key string) (*RedisLayouts, error) {
	if key == "" {
		key = DefaultRedisKey
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisLayouts{client: client, key: key}, nil
}

// Close releases the connection pool.
func (s *RedisLayouts) Close() error {
	return s.client.Close()
}

// List returns the layouts ordered by name, then id.
func (s *RedisLayouts) List(ctx context.Context) ([]model.SavedLayout, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read layouts: %w", err)
	}
	layouts := make([]model.SavedLayout, 0, len(fields))
	for id, raw := range fields {
		var l model.SavedLayout
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			return nil, fmt.Errorf("parse layout %s: %w", id, err)
		}
		layouts = append(layouts, l)
	}
	sort.Slice(layouts, func(i, j int) bool {
		if layouts[i].Name != layouts[j].Name {
			return layouts[i].Name < layouts[j].Name
		}
		return layouts[i].ID < layouts[j].ID
	})
	return layouts, nil
}

func (s *RedisLayouts) Save(ctx context.Context, l model.SavedLayout) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := s.client.HSet(ctx, s.key, l.ID, data).Err(); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

func (s *RedisLayouts) Delete(ctx context.Context, id string) error {
	n, err := s.client.HDel(ctx, s.key, id).Result()
	if err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return nil
}
