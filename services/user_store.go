package services

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/auth"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/repositories"
	"strings"

	"github.com/samber/lo"
)

type IUserStore interface {
	RegisterUser(ctx context.Context, fields map[string]string) (domain.User, error)
	GetUser(ctx context.Context, lookup domain.Lookup) (*domain.User, error)
	UpdateToken(ctx context.Context, id string) (string, error)
	UpdatePassword(ctx context.Context, id, password string, rotateToken bool) (domain.User, error)
	GetManyByID(ctx context.Context, ids []string) ([]domain.User, error)
	SearchUsers(ctx context.Context, term string) ([]domain.User, error)
	NewMessage(ctx context.Context, fromID, toID, text string) (domain.Message, error)
}

// UserStore owns accounts, their session tokens and the direct messages between them.
// Every input is validated before the first repository call.
type UserStore struct {
	users           repositories.IUserRepository
	messages        repositories.IMessageRepository
	codec           repositories.IdCodec
	tokens          *auth.TokenGenerator
	caseInsensitive bool
	log             *slog.Logger
}

func NewUserStore(
	users repositories.IUserRepository,
	messages repositories.IMessageRepository,
	codec repositories.IdCodec,
	tokens *auth.TokenGenerator,
	caseInsensitive bool,
	log *slog.Logger,
) *UserStore {
	return &UserStore{
		users:           users,
		messages:        messages,
		codec:           codec,
		tokens:          tokens,
		caseInsensitive: caseInsensitive,
		log:             log,
	}
}

// RegisterUser accepts exactly the username and password fields.
// The existence check is best effort; the backend's unique constraint has the last word.
func (s *UserStore) RegisterUser(ctx context.Context, fields map[string]string) (domain.User, error) {
	reg, err := auth.ParseRegistration(fields)
	if err != nil {
		return domain.User{}, errors.NewArgumentError("invalid registration", err)
	}

	existing, err := s.users.FindByUsername(ctx, reg.Username)
	if err != nil {
		return domain.User{}, fromRepository("find user by username", err)
	}
	if existing != nil {
		return domain.User{}, errors.NewArgumentError("username is already taken", errors.ErrUserAlreadyExists)
	}

	token, err := s.tokens.New()
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.Insert(ctx, domain.User{
		Username: reg.Username,
		Password: reg.Password,
		Token:    token,
	})
	if err != nil {
		return domain.User{}, fromRepository("insert user", err)
	}
	s.log.Debug("User registered", "id", user.ID, "username", user.Username)
	return user, nil
}

// GetUser returns nil without error when nothing matches.
func (s *UserStore) GetUser(ctx context.Context, lookup domain.Lookup) (*domain.User, error) {
	id := strings.TrimSpace(lookup.ID)
	username := strings.TrimSpace(lookup.Username)

	switch {
	case id != "" && username != "":
		return nil, errors.NewArgumentError("look up by id or by username, not both", nil)
	case id != "":
		if _, err := validateID(s.codec, id); err != nil {
			return nil, err
		}
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, fromRepository("find user by id", err)
		}
		return user, nil
	case username != "":
		user, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			return nil, fromRepository("find user by username", err)
		}
		return user, nil
	default:
		return nil, errors.NewArgumentError("an id or a username is required", nil)
	}
}

// UpdateToken issues a token different from the current one and returns it.
func (s *UserStore) UpdateToken(ctx context.Context, id string) (string, error) {
	user, err := s.mustExist(ctx, id)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Rotate(ctx, user.Token)
	if err != nil {
		return "", err
	}
	found, err := s.users.SetToken(ctx, user.ID, token)
	if err != nil {
		return "", fromRepository("set token", err)
	}
	if !found {
		return "", errors.NewArgumentError("no user with id "+user.ID, errors.ErrUserNotFound)
	}
	s.log.Debug("Token rotated", "id", user.ID)
	return token, nil
}

// UpdatePassword stores password as given and keeps the token unless rotateToken is set.
func (s *UserStore) UpdatePassword(ctx context.Context, id, password string, rotateToken bool) (domain.User, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, errors.NewArgumentError("password is required", err)
	}
	user, err := s.mustExist(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	token := user.Token
	if rotateToken {
		if token, err = s.tokens.Rotate(ctx, user.Token); err != nil {
			return domain.User{}, err
		}
	}
	found, err := s.users.SetCredentials(ctx, user.ID, password, token)
	if err != nil {
		return domain.User{}, fromRepository("set credentials", err)
	}
	if !found {
		return domain.User{}, errors.NewArgumentError("no user with id "+user.ID, errors.ErrUserNotFound)
	}

	user.Password = password
	user.Token = token
	s.log.Debug("Password updated", "id", user.ID, "token_rotated", rotateToken)
	return *user, nil
}

// GetManyByID keeps the order of ids. Unknown ids are skipped and a repeated
// id yields its user once per occurrence.
func (s *UserStore) GetManyByID(ctx context.Context, ids []string) ([]domain.User, error) {
	if ids == nil {
		return nil, errors.NewArgumentError("ids must be a list", nil)
	}

	keys := make([]string, 0, len(ids))
	for i, raw := range ids {
		if strings.TrimSpace(raw) == "" {
			return nil, errors.NewArgumentError(fmt.Sprintf("id at index %d is empty", i), errors.ErrInvalidID)
		}
		parsed, err := s.codec.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.NewArgumentError(fmt.Sprintf("malformed id at index %d", i), err)
		}
		keys = append(keys, parsed.String())
	}
	if len(keys) == 0 {
		return []domain.User{}, nil
	}

	found, err := s.users.FindManyByID(ctx, lo.Uniq(keys))
	if err != nil {
		return nil, fromRepository("find users by id", err)
	}
	byID := lo.KeyBy(found, func(u domain.User) string { return u.ID })

	return lo.FilterMap(keys, func(key string, _ int) (domain.User, bool) {
		user, ok := byID[key]
		return user, ok
	}), nil
}

// SearchUsers always returns a slice, empty when nothing matches.
func (s *UserStore) SearchUsers(ctx context.Context, term string) ([]domain.User, error) {
	if term == "" {
		return nil, errors.NewArgumentError("search term is required", nil)
	}
	users, err := s.users.SearchUsername(ctx, term, s.caseInsensitive)
	if err != nil {
		return nil, fromRepository("search users", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// NewMessage stores a direct message once both ends resolve to a user.
func (s *UserStore) NewMessage(ctx context.Context, fromID, toID, text string) (domain.Message, error) {
	content, err := validateMessage(text)
	if err != nil {
		return domain.Message{}, err
	}
	from, err := s.mustExist(ctx, fromID)
	if err != nil {
		return domain.Message{}, err
	}
	to, err := s.mustExist(ctx, toID)
	if err != nil {
		return domain.Message{}, err
	}

	message, err := s.messages.Insert(ctx, domain.Message{
		Message: content,
		From:    from.ID,
		To:      to.ID,
	})
	if err != nil {
		return domain.Message{}, fromRepository("insert direct message", err)
	}
	s.log.Debug("Direct message stored", "id", message.ID, "from", from.ID, "to", to.ID)
	return message, nil
}

// mustExist turns a malformed or unknown id into an ArgumentError.
func (s *UserStore) mustExist(ctx context.Context, id string) (*domain.User, error) {
	id, err := validateID(s.codec, id)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepository("find user by id", err)
	}
	if user == nil {
		return nil, errors.NewArgumentError("no user with id "+id, errors.ErrUserNotFound)
	}
	return user, nil
}
