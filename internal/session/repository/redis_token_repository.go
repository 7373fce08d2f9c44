package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/allisson/sessions/internal/database"
	apperrors "github.com/allisson/sessions/internal/errors"
	sessionDomain "github.com/allisson/sessions/internal/session/domain"
)

const (
	defaultRedisKeyPrefix = "sessions:"
	maxDeleteAttempts     = 5
)

// saveTokenScript binds KEYS[1] (token) to ARGV[1] (username) and adds ARGV[2] (digest)
// to the KEYS[2] user set. Returns 0 when the token is bound to someone else.
var saveTokenScript = redis.NewScript(`
local owner = redis.call('GET', KEYS[1])
if owner and owner ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SADD', KEYS[2], ARGV[2])
return 1
`)

// RedisTokenRepository stores each token digest as a key holding its username, plus
// one set per user listing that user's digests.
type RedisTokenRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisTokenRepository creates a new Redis token repository.
func NewRedisTokenRepository(client redis.UniversalClient) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: defaultRedisKeyPrefix}
}

func (r *RedisTokenRepository) tokenKey(tokenHash string) string {
	return r.prefix + "token:" + tokenHash
}

func (r *RedisTokenRepository) userKey(username string) string {
	return r.prefix + "user_tokens:" + username
}

func (r *RedisTokenRepository) Exists(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, r.tokenKey(hashToken(token))).Result()
	if err != nil {
		return false, wrapRedisError(err, "failed to check token")
	}
	return n > 0, nil
}

func (r *RedisTokenRepository) Save(ctx context.Context, token, username string) error {
	tokenHash := hashToken(token)
	keys := []string{r.tokenKey(tokenHash), r.userKey(username)}

	saved, err := saveTokenScript.Run(ctx, r.client, keys, username, tokenHash).Int()
	if err != nil {
		return wrapRedisError(err, "failed to save token")
	}
	if saved == 0 {
		return sessionDomain.ErrDuplicateToken
	}
	return nil
}

// DeleteAllForUser removes the user's tokens in one MULTI/EXEC. WATCH on the user set
// makes a concurrent Save abort and retry the transaction instead of leaking a token.
func (r *RedisTokenRepository) DeleteAllForUser(ctx context.Context, username string) (int64, error) {
	userKey := r.userKey(username)

	var deleted int64
	deleteFn := func(tx *redis.Tx) error {
		hashes, err := tx.SMembers(ctx, userKey).Result()
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(hashes)+1)
		for _, h := range hashes {
			keys = append(keys, r.tokenKey(h))
		}
		keys = append(keys, userKey)

		var del *redis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			del = pipe.Del(ctx, keys...)
			return nil
		})
		if err != nil {
			return err
		}

		deleted = del.Val()
		if len(hashes) > 0 {
			// The user set itself is one of the deleted keys
			deleted--
		}
		return nil
	}

	for range maxDeleteAttempts {
		err := r.client.Watch(ctx, deleteFn, userKey)
		if err == nil {
			return deleted, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return 0, wrapRedisError(err, "failed to delete tokens")
	}

	return 0, apperrors.Join(
		sessionDomain.ErrStoreUnavailable,
		apperrors.New("failed to delete tokens: too much contention"),
	)
}

// wrapRedisError tags pool exhaustion, closed clients and network failures with
// ErrStoreUnavailable.
func wrapRedisError(err error, message string) error {
	if errors.Is(err, redis.ErrPoolTimeout) || errors.Is(err, redis.ErrClosed) || database.IsUnavailable(err) {
		return apperrors.Join(sessionDomain.ErrStoreUnavailable, apperrors.Wrap(err, message))
	}
	return apperrors.Wrap(err, message)
}
