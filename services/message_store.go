package services

import (
	"context"
	"log/slog"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/repositories"
)

type IMessageStore interface {
	Save(ctx context.Context, text string) (domain.Message, error)
	Flag(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]domain.Message, error)
}

// MessageStore validates broadcast messages before they reach the repository.
type MessageStore struct {
	repository repositories.IMessageRepository
	codec      repositories.IdCodec
	log        *slog.Logger
}

func NewMessageStore(repository repositories.IMessageRepository, codec repositories.IdCodec, log *slog.Logger) *MessageStore {
	return &MessageStore{repository: repository, codec: codec, log: log}
}

// Save stores the trimmed text with the flag down.
func (s *MessageStore) Save(ctx context.Context, text string) (domain.Message, error) {
	content, err := validateMessage(text)
	if err != nil {
		return domain.Message{}, err
	}
	message, err := s.repository.Insert(ctx, domain.Message{Message: content, Flag: false})
	if err != nil {
		return domain.Message{}, fromRepository("save message", err)
	}
	s.log.Debug("Message saved", "id", message.ID)
	return message, nil
}

// Flag raises the moderation flag. An id that matches nothing is an ArgumentError.
func (s *MessageStore) Flag(ctx context.Context, id string) error {
	id, err := validateID(s.codec, id)
	if err != nil {
		return err
	}
	found, err := s.repository.SetFlag(ctx, id)
	if err != nil {
		return fromRepository("flag message", err)
	}
	if !found {
		return errors.NewArgumentError("no message with id "+id, errors.ErrMessageNotFound)
	}
	s.log.Info("Message flagged", "id", id)
	return nil
}

func (s *MessageStore) GetAll(ctx context.Context) ([]domain.Message, error) {
	messages, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fromRepository("list messages", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}
