package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iccs-ops/apr-portal/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps login sessions in Redis under opaque tokens. Expiry is
// enforced by the key TTL, no sweeper needed.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *SessionStore) Create(ctx context.Context, user models.SessionUser) (models.LoginResponse, error) {
	token, err := newToken()
	if err != nil {
		return models.LoginResponse{}, err
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(token), payload, s.ttl).Err(); err != nil {
		return models.LoginResponse{}, fmt.Errorf("storing session: %w", err)
	}

	return models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (models.SessionUser, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.SessionUser{}, ErrSessionNotFound
	}
	if err != nil {
		return models.SessionUser{}, fmt.Errorf("loading session: %w", err)
	}

	var user models.SessionUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return models.SessionUser{}, fmt.Errorf("unmarshaling session: %w", err)
	}
	return user, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
