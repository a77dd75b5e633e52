package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const opTimeout = 5 * time.Second

type Config struct {
	Addr    string
	DB      int
	Profile string
}

// Open dials Redis and fails fast when the server does not answer PING.
func Open(ctx context.Context, cfg Config) (*CredentialStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  opTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
	})
	s := NewCredentialStore(client, cfg.Profile)

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return s, nil
}

// CredentialStore keeps the credential pair in Redis so several CLI hosts
// can share one session profile.
// Key format: stationery-admin:<profile>:<key>
type CredentialStore struct {
	client  *redis.Client
	profile string
}

// NewCredentialStore wraps client for the given profile.
func NewCredentialStore(client *redis.Client, profile string) *CredentialStore {
	return &CredentialStore{client: client, profile: profile}
}

func (s *CredentialStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// Set stores value without expiry; credentials carry no expiry metadata.
func (s *CredentialStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *CredentialStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CredentialStore) Close() error {
	return s.client.Close()
}

func (s *CredentialStore) key(k string) string {
	return fmt.Sprintf("stationery-admin:%s:%s", s.profile, k)
}
