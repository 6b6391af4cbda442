package badgerdb

import (
	"context"
	"log/slog"
	"social-lab/domain"
	"social-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type messageRecord struct {
	ID      string `bson:"id"`
	Message string `bson:"message"`
	Flag    bool   `bson:"flag"`
	From    string `bson:"from,omitempty"`
	To      string `bson:"to,omitempty"`
}

// MessageRepository stores messages under {collection}:id:{uuid}.
type MessageRepository struct {
	conn       *Connection
	collection string
	log        *slog.Logger
}

func NewMessageRepository(conn *Connection, collection string, log *slog.Logger) MessageRepository {
	return MessageRepository{conn: conn, collection: collection, log: log}
}

func (m MessageRepository) key(id string) []byte {
	return []byte(m.collection + ":id:" + canonical(id))
}

func (m MessageRepository) Insert(ctx context.Context, message domain.Message) (domain.Message, error) {
	id, err := newID()
	if err != nil {
		return domain.Message{}, err
	}
	message.ID = id
	data, err := bson.Marshal(fromMessage(message))
	if err != nil {
		return domain.Message{}, err
	}
	err = m.conn.update(ctx, func(txn *badger.Txn) error {
		return txn.Set(m.key(id), data)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

func (m MessageRepository) SetFlag(ctx context.Context, id string) (bool, error) {
	found := false
	err := m.conn.update(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(m.key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var rec messageRecord
		if err := item.Value(func(val []byte) error {
			return bson.Unmarshal(val, &rec)
		}); err != nil {
			return err
		}
		found = true
		if rec.Flag {
			return nil
		}
		rec.Flag = true
		data, err := bson.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(m.key(id), data)
	})
	return found, err
}

func (m MessageRepository) FindAll(ctx context.Context) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.conn.view(ctx, func(txn *badger.Txn) error {
		return scan(txn, []byte(m.collection+":id:"), func(val []byte) error {
			var rec messageRecord
			if err := bson.Unmarshal(val, &rec); err != nil {
				return err
			}
			messages = append(messages, toMessage(rec))
			return nil
		})
	})
	return messages, err
}

func fromMessage(message domain.Message) messageRecord {
	return messageRecord{
		ID:      message.ID,
		Message: message.Message,
		Flag:    message.Flag,
		From:    message.From,
		To:      message.To,
	}
}

func toMessage(rec messageRecord) domain.Message {
	return domain.Message{
		ID:      rec.ID,
		Message: rec.Message,
		Flag:    rec.Flag,
		From:    rec.From,
		To:      rec.To,
	}
}
