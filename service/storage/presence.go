package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	redisx "DMProject/service/storage/redis"
)

// Presence mirrors which gateway a user's live connection sits on. It is a
// best-effort routing hint for cross-gateway delivery, never authoritative
// for local lookups: the in-memory registry decides those.

// presence key: dm:presence:<user>
// Value: gateway id; the TTL bounds staleness after an unclean shutdown.
func presenceKey(user string) string { return "dm:presence:" + user }

// PresenceOnline records the user as online on the given gateway and renews
// the TTL.
func PresenceOnline(ctx context.Context, user, gatewayID string, ttl time.Duration) error {
	rdb := redisx.Client()
	if rdb == nil {
		return errors.New("redis not initialized")
	}
	return rdb.Set(ctx, presenceKey(user), gatewayID, ttl).Err()
}

// PresenceOffline removes the user's presence entry.
func PresenceOffline(ctx context.Context, user string) error {
	rdb := redisx.Client()
	if rdb == nil {
		return errors.New("redis not initialized")
	}
	return rdb.Del(ctx, presenceKey(user)).Err()
}

// PresenceLookup reports which gateway, if any, the user is on.
func PresenceLookup(ctx context.Context, user string) (gatewayID string, online bool, err error) {
	rdb := redisx.Client()
	if rdb == nil {
		return "", false, errors.New("redis not initialized")
	}
	val, err := rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
