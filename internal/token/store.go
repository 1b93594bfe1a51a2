package token

import (
    "context"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"
)

// denyPrefix namespaces logged-out access tokens in Redis.  Refresh tokens
// are stored under their raw token string with no prefix; the signature
// already provides the key entropy, and callers must never truncate or
// normalize the token before using it as a key.
const denyPrefix = "invalid-access-token:"

// Store is the revocation/session cache of the token engine, backed by
// Redis.  It tracks two kinds of keys:
//
//   <refresh token>                  -> owning user id, TTL = refresh life
//   invalid-access-token:<access>    -> subject, TTL = remaining access life
//
// A refresh token present in the cache is valid and unused.  Once consumed
// or revoked the key is deleted and the token is permanently dead even if
// its signature and expiry still check out.  All operations are single-key
// Redis commands, so concurrent use needs no extra locking.
type Store struct {
    rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

// SaveRefresh registers a freshly minted refresh token for its owner.  The
// TTL matches the token's remaining lifetime so the entry self-expires if
// it is never rotated.
func (s *Store) SaveRefresh(ctx context.Context, raw, userID string, ttl time.Duration) error {
    return s.rdb.Set(ctx, raw, userID, ttl).Err()
}

// ConsumeRefresh atomically fetches and deletes a refresh token entry,
// returning the owning user id.  GETDEL guarantees that two concurrent
// rotations of the same token see exactly one winner.  ok is false when the
// token was absent (consumed, revoked, expired or never issued).
func (s *Store) ConsumeRefresh(ctx context.Context, raw string) (userID string, ok bool, err error) {
    v, err := s.rdb.GetDel(ctx, raw).Result()
    if errors.Is(err, redis.Nil) {
        return "", false, nil
    }
    if err != nil {
        return "", false, err
    }
    return v, true, nil
}

// RevokeRefresh deletes a refresh token entry outright.  Deleting an absent
// key is not an error.
func (s *Store) RevokeRefresh(ctx context.Context, raw string) error {
    return s.rdb.Del(ctx, raw).Err()
}

// DenyAccess puts an access token on the deny-list for the remainder of its
// natural lifetime.  The entry self-expires exactly when the token would
// have, so the list never grows without bound.
func (s *Store) DenyAccess(ctx context.Context, raw, subject string, ttl time.Duration) error {
    return s.rdb.Set(ctx, denyPrefix+raw, subject, ttl).Err()
}

// IsDenied reports whether an access token was explicitly invalidated
// before its natural expiry.
func (s *Store) IsDenied(ctx context.Context, raw string) (bool, error) {
    _, err := s.rdb.Get(ctx, denyPrefix+raw).Result()
    if errors.Is(err, redis.Nil) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}
