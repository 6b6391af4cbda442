package services

import (
	"context"
	"log/slog"
	"social-lab/auth"
	"social-lab/domain"
	"social-lab/errors"
)

type IAuthService interface {
	Register(ctx context.Context, username, password string) (domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ChangePassword(ctx context.Context, id, password string) (domain.User, error)
}

// AuthService sits in front of the user store so it never sees a plain password.
type AuthService struct {
	users IUserStore
	log   *slog.Logger
}

func NewAuthService(users IUserStore, log *slog.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	// Validate before the expensive hash
	reg, err := auth.ParseRegistration(map[string]string{"username": username, "password": password})
	if err != nil {
		return domain.User{}, errors.NewArgumentError("invalid registration", err)
	}

	hashed, err := auth.HashPassword(reg.Password)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.RegisterUser(ctx, map[string]string{"username": reg.Username, "password": hashed})
}

// Login checks the password and hands out a freshly rotated session token.
// Unknown usernames and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUser(ctx, domain.Lookup{Username: username})
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", errors.NewArgumentError("login failed", errors.ErrInvalidCredentials)
	}

	match, err := auth.ComparePassword(password, user.Password)
	if err != nil || !match {
		s.log.Debug("Login rejected", "username", user.Username)
		return "", errors.NewArgumentError("login failed", errors.ErrInvalidCredentials)
	}
	return s.users.UpdateToken(ctx, user.ID)
}

// ChangePassword hashes the new password and always rotates the token,
// ending any session opened with the old one.
func (s *AuthService) ChangePassword(ctx context.Context, id, password string) (domain.User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, errors.NewArgumentError("password is required", err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.UpdatePassword(ctx, id, hashed, true)
}
