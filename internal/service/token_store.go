package service

import (
	"context"
	"fmt"
	"time"

	"patient-study-api/pkg/jwt"

	"github.com/redis/go-redis/v9"
)

// TokenStore registers issued token ids so tokens can be revoked before they expire
type TokenStore interface {
	Store(ctx context.Context, tokenType jwt.TokenType, username, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, tokenType jwt.TokenType, username, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenType jwt.TokenType, username, tokenID string) error
}

type redisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client}
}

// tokenKey builds keys like access_token:<username>:<token id>
func tokenKey(tokenType jwt.TokenType, username, tokenID string) string {
	return fmt.Sprintf("%s_token:%s:%s", tokenType, username, tokenID)
}

func (s *redisTokenStore) Store(ctx context.Context, tokenType jwt.TokenType, username, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(tokenType, username, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, tokenType jwt.TokenType, username, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, tokenKey(tokenType, username, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisTokenStore) Revoke(ctx context.Context, tokenType jwt.TokenType, username, tokenID string) error {
	return s.client.Del(ctx, tokenKey(tokenType, username, tokenID)).Err()
}
