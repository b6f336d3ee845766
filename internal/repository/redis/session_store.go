package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freeeve/throneofjarls/api/internal/model"
)

// sessionTTL is the lifetime of a session key; ExtendSession refreshes it.
const sessionTTL = 24 * time.Hour

func sessionKey(token string) string { return "session:" + token }

// newToken returns a 64-hex-character cryptographically random token.
// Uniqueness is probabilistic; no collision check is performed.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// CreateSession stores a new session and returns its bearer token.
func (c *Client) CreateSession(ctx context.Context, s model.Session) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := c.rdb.Set(ctx, sessionKey(token), data, sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// ValidateSession returns the session for a token, or nil if the token is
// unknown or expired.
func (c *Client) ValidateSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := c.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("validate session: %w", err)
	}
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

// InvalidateSession deletes a session token.
func (c *Client) InvalidateSession(ctx context.Context, token string) error {
	return c.rdb.Del(ctx, sessionKey(token)).Err()
}

// ExtendSession refreshes the TTL of an existing session. A missing key is
// left missing.
func (c *Client) ExtendSession(ctx context.Context, token string) error {
	return c.rdb.ExpireXX(ctx, sessionKey(token), sessionTTL).Err()
}
