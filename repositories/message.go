//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"social-lab/domain"
)

// IMessageRepository is the storage contract behind the message store.
// Broadcast and direct messages live in the same collection.
type IMessageRepository interface {
	// Insert assigns an id and stores the message as given.
	Insert(ctx context.Context, message domain.Message) (domain.Message, error)
	// SetFlag raises the moderation flag and reports whether a message matched id.
	SetFlag(ctx context.Context, id string) (bool, error)
	// FindAll returns every message in insertion order.
	FindAll(ctx context.Context) ([]domain.Message, error)
}
