package token

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RevocationStore records logged-out token IDs in Redis until they would have
// expired anyway. A token whose jti is present is rejected by the auth
// middleware.
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore connects a RevocationStore to the given Redis instance.
func NewRevocationStore(addr, password string, db int) *RevocationStore {
	return &RevocationStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Revoke marks the token ID as revoked for ttl. A non-positive ttl means the
// token is already expired and nothing needs to be stored.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return errors.Wrap(err, "revoke token")
	}
	return nil
}

// IsRevoked reports whether the token ID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := s.client.Get(ctx, revokedKeyPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check token revocation")
	}
	return true, nil
}

// Ping checks connectivity, for readiness probes.
func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis connection.
func (s *RevocationStore) Close() error {
	return s.client.Close()
}
