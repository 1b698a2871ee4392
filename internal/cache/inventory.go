package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
)

// UserTTL bounds staleness for account records cached by ID. Reads on the
// authentication path always go to the database, so this only affects
// profile-style lookups; every account write invalidates the entry anyway.
const UserTTL = 5 * time.Minute

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// Aside implements the cache-aside pattern: it fills dest from the cache on a
// hit, otherwise runs fill and stores the JSON-encoded result under key with
// the given TTL. Cache failures degrade to the fill path, never to an error.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fill func() error) error {
	if client != nil {
		if payload, err := client.Get(ctx, key).Bytes(); err == nil {
			if err := json.Unmarshal(payload, dest); err == nil {
				return nil
			}
			// Unreadable entry; drop it and fall through to fill.
			client.Del(ctx, key)
		}
	}

	if err := fill(); err != nil {
		return err
	}

	if client != nil {
		if payload, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, payload, ttl)
		}
	}
	return nil
}
