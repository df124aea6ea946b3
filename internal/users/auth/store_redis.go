// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/handstand/internal/platform/constants"
	"github.com/taibuivan/handstand/internal/platform/sec"
)

// # Session Store

// RedisSessionStore implements SessionStore using Redis.
//
// State is serialized as JSON under `auth:session:<opaque id>`. The TTL is
// sliding: every successful Get re-arms the full window.
type RedisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new Redis-backed SessionStore.
func NewSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

/*
Put stores session state under its opaque id with the full TTL.

Parameters:
  - context: context.Context
  - state: *sec.SessionState

Returns:
  - error: Serialization or storage failures
*/
func (store *RedisSessionStore) Put(context context.Context, state *sec.SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	key := constants.RedisPrefixSession + state.ID
	if err := store.client.Set(context, key, payload, SessionTTL).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Get resolves an opaque id to its session state.

Description: A hit refreshes the TTL to the full window (sliding expiration).
Unknown or expired ids return (nil, nil) so the caller treats the request as
anonymous rather than erroring.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *sec.SessionState: Hydrated state, nil when absent
  - error: Connectivity or deserialization failures
*/
func (store *RedisSessionStore) Get(context context.Context, sessionID string) (*sec.SessionState, error) {
	key := constants.RedisPrefixSession + sessionID

	payload, err := store.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	state := &sec.SessionState{}
	if err := json.Unmarshal(payload, state); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}
	state.ID = sessionID

	// Sliding window: activity keeps the session alive.
	if err := store.client.Expire(context, key, SessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("redis_session_touch_failed: %w", err)
	}

	return state, nil
}

/*
Delete removes session state by its opaque id.

Description: Idempotent; deleting an absent id is not an error.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Deletion failures
*/
func (store *RedisSessionStore) Delete(context context.Context, sessionID string) error {
	key := constants.RedisPrefixSession + sessionID

	if err := store.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}
