// Package redis implements the session cart store on Redis. Each cart is one
// JSON blob keyed by session, refreshed with a sliding TTL so abandoned carts
// expire on their own.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/billmate/billing-api/internal/application/cart"
	"github.com/billmate/billing-api/internal/domain/entity"
	"github.com/billmate/billing-api/pkg/config"
)

var _ cart.SessionStore = (*SessionStore)(nil)

// NewClient connects to Redis and verifies connectivity. REDIS_URL takes
// precedence over the discrete address settings.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	var opts *goredis.Options
	if cfg.URL != "" {
		parsed, err := goredis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &goredis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// SessionStore holds cart lines in Redis.
type SessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSessionStore builds the store. ttl bounds cart lifetime after the last
// mutation.
func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// Get returns the cart lines of a session; empty for unknown sessions.
func (s *SessionStore) Get(ctx context.Context, sessionID string) ([]entity.CartLine, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	var lines []entity.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

// Save overwrites the cart lines of a session and resets the TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, lines []entity.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete drops the cart of a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
