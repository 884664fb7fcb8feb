package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound indicates the token does not resolve to any identity.
var ErrTokenNotFound = errors.New("token not found")

// TokenStore binds opaque token keys 1:1 to identities. Issuance is
// get-or-create: an identity keeps its single active token until external
// rotation, so repeated logins return the same key.
type TokenStore interface {
	GetOrCreate(ctx context.Context, identityID int64) (string, error)
	Resolve(ctx context.Context, token string) (int64, error)
}

const (
	tokenKeyPrefix    = "authtoken:key:"
	identityKeyPrefix = "authtoken:identity:"
)

type redisTokenStore struct {
	client *redis.Client
}

// NewTokenStore returns a Redis-backed implementation.
func NewTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

func (s *redisTokenStore) GetOrCreate(ctx context.Context, identityID int64) (string, error) {
	identityKey := identityKeyPrefix + strconv.FormatInt(identityID, 10)

	existing, err := s.client.Get(ctx, identityKey).Result()
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", err
	}

	token, err := newTokenKey()
	if err != nil {
		return "", err
	}

	created, err := s.client.SetNX(ctx, identityKey, token, 0).Result()
	if err != nil {
		return "", err
	}
	if !created {
		// another login won the race; reuse its token
		return s.client.Get(ctx, identityKey).Result()
	}

	if err := s.client.Set(ctx, tokenKeyPrefix+token, identityID, 0).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *redisTokenStore) Resolve(ctx context.Context, token string) (int64, error) {
	val, err := s.client.Get(ctx, tokenKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// newTokenKey generates a 40-character hex key.
func newTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
