package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/auth-api/domain/user"
	"github.com/redis/go-redis/v9"
)

// upsertScript stores KEYS[1] (user key) -> token and KEYS[2] (token key) ->
// user id, and drops the reverse key of the token it replaces.
//
// ARGV: token, ttl in ms, token key prefix, user id.
var upsertScript = redis.NewScript(`
local old = redis.call('GET', KEYS[1])
if old and old ~= ARGV[1] then
	redis.call('DEL', ARGV[3] .. old)
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
redis.call('SET', KEYS[2], ARGV[4], 'PX', ARGV[2])
return 1
`)

// deleteScript removes KEYS[1] (token key) and, if the user's current token
// is still that token, the user key as well.
//
// ARGV: user key prefix, token.
var deleteScript = redis.NewScript(`
local uid = redis.call('GET', KEYS[1])
if not uid then
	return 0
end
redis.call('DEL', KEYS[1])
local userKey = ARGV[1] .. uid
if redis.call('GET', userKey) == ARGV[2] then
	redis.call('DEL', userKey)
end
return 1
`)

// RedisTokenStore keeps refresh tokens in Redis. Each record lives under two
// keys that expire together with the token.
type RedisTokenStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ RefreshTokenStore = (*RedisTokenStore)(nil)

// NewRedisTokenStore creates a RedisTokenStore whose keys start with prefix.
func NewRedisTokenStore(client *redis.Client, prefix string) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (s *RedisTokenStore) userKey(userID string) string {
	return s.prefix + "user:" + userID
}

func (s *RedisTokenStore) tokenKey(token string) string {
	return s.prefix + "token:" + token
}

// Upsert replaces the refresh token of userID.
func (s *RedisTokenStore) Upsert(ctx context.Context, userID, token string, expiredAt time.Time) error {
	ttl := expiredAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("refresh token for user %s already expired at %s", userID, expiredAt.Format(time.RFC3339))
	}

	keys := []string{s.userKey(userID), s.tokenKey(token)}
	if err := upsertScript.Run(ctx, s.client, keys, token, ttl.Milliseconds(), s.prefix+"token:", userID).Err(); err != nil {
		return fmt.Errorf("redis upsert error: %w", err)
	}
	return nil
}

// FindByUserID returns the refresh token of userID. ExpiredAt is derived
// from the remaining key TTL.
func (s *RedisTokenStore) FindByUserID(ctx context.Context, userID string) (*domain.RefreshToken, error) {
	key := s.userKey(userID)

	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	token, err := getCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	record := &domain.RefreshToken{
		UserID: userID,
		Token:  token,
	}
	if ttl := ttlCmd.Val(); ttl > 0 {
		record.ExpiredAt = s.now().Add(ttl)
	}
	return record, nil
}

// DeleteByToken removes the record holding token.
func (s *RedisTokenStore) DeleteByToken(ctx context.Context, token string) error {
	keys := []string{s.tokenKey(token)}
	if err := deleteScript.Run(ctx, s.client, keys, s.prefix+"user:", token).Err(); err != nil {
		return fmt.Errorf("redis delete error: %w", err)
	}
	return nil
}

// Ping checks if the Redis connection is healthy.
func (s *RedisTokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
