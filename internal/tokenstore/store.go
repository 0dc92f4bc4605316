// Package tokenstore persists the single credential token that survives
// process restarts. The session manager is its only writer.
package tokenstore

import (
	"context"
	"fmt"

	"github.com/Domenick1991/hotelportal/config"
	"github.com/redis/go-redis/v9"
)

// DefaultKey is the well-known name the token is kept under.
const DefaultKey = "token"

// Store holds at most one token. Load returns "" and a nil error when no
// token is stored.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// New picks a backend from configuration. The redis client is only used for
// the "redis" backend and may be nil otherwise.
func New(cfg config.SessionConfig, rdb *redis.Client) (Store, error) {
	key := cfg.TokenKey
	if key == "" {
		key = DefaultKey
	}
	switch cfg.Store {
	case "", "file":
		return NewFileStore(cfg.TokenFile, key), nil
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("token store %q requires a redis connection", cfg.Store)
		}
		return NewRedisStore(rdb, key), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", cfg.Store)
	}
}
