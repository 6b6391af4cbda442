package services

import (
	"context"
	"social-lab/auth"
	"social-lab/domain"
	"social-lab/errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should store a hash, never the plain password", func(t *testing.T) {
		req := require.New(t)
		s := newTestStores(t, false)

		user, err := s.auth.Register(ctx, "alice", "s3cret")
		req.NoError(err)
		req.True(strings.HasPrefix(user.Password, "$argon2id$"))
		req.True(s.tokens.Pattern().MatchString(user.Token))

		match, err := auth.ComparePassword("s3cret", user.Password)
		req.NoError(err)
		req.True(match)
	})

	t.Run("should fail before hashing when input is invalid", func(t *testing.T) {
		req := require.New(t)
		s := newTestStores(t, false)

		_, err := s.auth.Register(ctx, "alice", "")
		req.True(errors.IsArgument(err))
		_, err = s.auth.Register(ctx, " ", "pw")
		req.True(errors.IsArgument(err))
	})

	t.Run("should fail when user already exists", func(t *testing.T) {
		req := require.New(t)
		s := newTestStores(t, false)

		_, err := s.auth.Register(ctx, "alice", "pw")
		req.NoError(err)
		_, err = s.auth.Register(ctx, "alice", "pw2")
		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestStores(t, false)

	user, err := s.auth.Register(ctx, "alice", "s3cret")
	req.NoError(err)

	token, err := s.auth.Login(ctx, "alice", "s3cret")
	req.NoError(err)
	req.NotEqual(user.Token, token)

	stored, err := s.users.GetUser(ctx, domain.Lookup{ID: user.ID})
	req.NoError(err)
	req.Equal(token, stored.Token)

	_, err = s.auth.Login(ctx, "alice", "wrong")
	req.True(errors.IsArgument(err))
	req.ErrorIs(err, errors.ErrInvalidCredentials)

	_, err = s.auth.Login(ctx, "bob", "s3cret")
	req.ErrorIs(err, errors.ErrInvalidCredentials)

	_, err = s.auth.Login(ctx, "", "s3cret")
	req.True(errors.IsArgument(err))
}

func TestAuthService_ChangePassword(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestStores(t, false)

	user, err := s.auth.Register(ctx, "alice", "old")
	req.NoError(err)

	updated, err := s.auth.ChangePassword(ctx, user.ID, "new")
	req.NoError(err)
	req.NotEqual(user.Token, updated.Token)

	_, err = s.auth.Login(ctx, "alice", "old")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
	_, err = s.auth.Login(ctx, "alice", "new")
	req.NoError(err)

	_, err = s.auth.ChangePassword(ctx, user.ID, "")
	req.True(errors.IsArgument(err))
	_, err = s.auth.ChangePassword(ctx, unknownID, "new")
	req.ErrorIs(err, errors.ErrUserNotFound)
}
