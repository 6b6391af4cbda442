//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	"social-lab/domain"
)

// IUserRepository is the storage contract behind the user store.
// Implementations return raw backend errors, except:
//   - errors.ErrNotConnected when called while the backend is closed
//   - errors.ErrUserAlreadyExists when the username constraint is violated
//
// Ids passed in have already been checked with the backend's IdCodec.
type IUserRepository interface {
	// Insert assigns an id and stores the user.
	Insert(ctx context.Context, user domain.User) (domain.User, error)
	// FindByID returns nil when nothing matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByUsername returns nil when nothing matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindManyByID returns the users that exist, in no particular order.
	FindManyByID(ctx context.Context, ids []string) ([]domain.User, error)
	// SearchUsername matches term as a literal substring, in insertion order.
	SearchUsername(ctx context.Context, term string, caseInsensitive bool) ([]domain.User, error)
	// SetToken reports whether a user matched id.
	SetToken(ctx context.Context, id, token string) (bool, error)
	// SetCredentials replaces password and token together and reports whether a user matched id.
	SetCredentials(ctx context.Context, id, password, token string) (bool, error)
}
