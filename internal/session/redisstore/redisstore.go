package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"retailpos/internal/session"

	"github.com/go-redis/redis/v8"
)

// Store keeps the session under one Redis key, for tills whose session
// host is shared.
type Store struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Store {
	return &Store{client: client, key: key}
}

// Dial parses url, pings the server and returns a store bound to key.
func Dial(ctx context.Context, url, key string) (*Store, error) {
	const op = "session.redisstore.Dial"

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid redis URL: %w", op, err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return New(client, key), nil
}

func (s *Store) Load(ctx context.Context) (session.State, error) {
	const op = "session.redisstore.Load"

	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.State{}, nil
		}
		return session.State{}, fmt.Errorf("%s: %w", op, err)
	}

	var state session.State
	if err := json.Unmarshal(data, &state); err != nil {
		return session.State{}, fmt.Errorf("%s: %w", op, err)
	}

	return state, nil
}

func (s *Store) Save(ctx context.Context, state session.State) error {
	const op = "session.redisstore.Save"

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	const op = "session.redisstore.Clear"

	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
