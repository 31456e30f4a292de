package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/common/models"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo     *Repository
	sessions *SessionStore
}

func NewService(repo *Repository, sessions *SessionStore) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Login verifies credentials and opens a session. The caller holds the
// opaque token; nothing user-identifying leaves the server.
func (s *Service) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return models.LoginResponse{}, err
	}

	session, err := s.sessions.Create(ctx, models.SessionUser{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("creating session: %w", err)
	}

	logger.Log.WithField("username", user.Username).Info("User logged in")
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *Service) authenticate(ctx context.Context, username, password string) (UserModel, error) {
	if password == "" {
		return UserModel{}, ErrInvalidCredentials
	}
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return UserModel{}, ErrInvalidCredentials
		}
		return UserModel{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return UserModel{}, ErrInvalidCredentials
	}
	return user, nil
}

// SeedAdmin creates the bootstrap admin account if it does not exist yet.
// Re-running is a no-op, so deploy scripts can call it unconditionally.
func (s *Service) SeedAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("admin username and password required")
	}

	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		logger.Log.WithField("username", username).Info("Admin user already exists")
		return nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := s.repo.CreateUser(ctx, CreateUserInput{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}); err != nil {
		return err
	}

	logger.Log.WithField("username", username).Info("Admin user created")
	return nil
}
