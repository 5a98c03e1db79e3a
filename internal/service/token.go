package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"stockflow-pos-api/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionPrefix is the prefix for all session tokens
	SessionPrefix = "sfs_"

	// SessionTTL is the default session lifetime
	SessionTTL = 24 * time.Hour

	// sessionRedisKeyPrefix is the Redis key prefix for sessions
	sessionRedisKeyPrefix = "stockflow:session:"
)

// TokenService handles session token generation and validation for tenants.
type TokenService struct {
	redis *redis.Client
}

// NewTokenService creates a new token service.
func NewTokenService(redisClient *redis.Client) *TokenService {
	return &TokenService{
		redis: redisClient,
	}
}

// GenerateToken creates a new session token and stores it in Redis.
func (s *TokenService) GenerateToken(ctx context.Context, data model.SessionData) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := SessionPrefix + hex.EncodeToString(tokenBytes)

	data.CreatedAt = time.Now()
	data.ExpiresAt = data.CreatedAt.Add(SessionTTL)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize session data: %w", err)
	}

	key := sessionRedisKeyPrefix + token
	if err := s.redis.Set(ctx, key, jsonData, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	log.Printf("[TokenService] Session created for tenant=%s, expires=%v", data.TenantID, data.ExpiresAt)

	return token, nil
}

// ValidateToken checks if a token is valid and returns its session data.
func (s *TokenService) ValidateToken(ctx context.Context, token string) (*model.SessionData, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	if len(token) < len(SessionPrefix) || token[:len(SessionPrefix)] != SessionPrefix {
		return nil, fmt.Errorf("invalid token format")
	}

	key := sessionRedisKeyPrefix + token
	jsonData, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("token not found or expired")
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session data: %w", err)
	}

	return &data, nil
}

// RevokeToken deletes a session token.
func (s *TokenService) RevokeToken(ctx context.Context, token string) error {
	key := sessionRedisKeyPrefix + token
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	log.Printf("[TokenService] Session revoked")
	return nil
}

// RefreshToken extends a valid session's lifetime by SessionTTL.
func (s *TokenService) RefreshToken(ctx context.Context, token string) error {
	data, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	data.ExpiresAt = time.Now().Add(SessionTTL)
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize session data: %w", err)
	}

	key := sessionRedisKeyPrefix + token
	if err := s.redis.Set(ctx, key, jsonData, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}
