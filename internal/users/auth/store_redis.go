// Copyright (c) 2026 Souqly. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/souqly/backend/internal/platform/constants"
)

// RedisRevocationStore implements [RevocationStore] using Redis.
//
// Entries carry the revoked token's remaining lifetime as their TTL, so the
// list is self-pruning: once a token could no longer verify anyway, its
// entry disappears.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates a Redis-backed [RevocationStore].
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

/*
Revoke marks the token hash as revoked for its remaining lifetime.

Parameters:
  - context: context.Context
  - tokenHash: string
  - timeToLive: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisRevocationStore) Revoke(context context.Context, tokenHash string, timeToLive time.Duration) error {
	if timeToLive <= 0 {
		// Already expired; nothing to record.
		return nil
	}

	key := constants.RedisPrefixRevoked + tokenHash
	if err := store.client.Set(context, key, "1", timeToLive).Err(); err != nil {
		return fmt.Errorf("redis_revoke_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether the token hash is on the revocation list.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - bool: Revocation state
  - error: Connectivity errors
*/
func (store *RedisRevocationStore) IsRevoked(context context.Context, tokenHash string) (bool, error) {
	key := constants.RedisPrefixRevoked + tokenHash

	_, err := store.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_revoked_lookup_failed: %w", err)
	}

	return true, nil
}
