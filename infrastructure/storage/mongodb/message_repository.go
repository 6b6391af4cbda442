package mongodb

import (
	"context"
	"log/slog"
	"social-lab/domain"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type messageDocument struct {
	ID      bson.ObjectID `bson:"_id"`
	Message string        `bson:"message"`
	Flag    bool          `bson:"flag"`
	From    string        `bson:"from,omitempty"`
	To      string        `bson:"to,omitempty"`
}

type MessageRepository struct {
	source collectionSource
	name   string
	log    *slog.Logger
}

func NewMessageRepository(conn *Connection, name string, log *slog.Logger) MessageRepository {
	return MessageRepository{source: conn, name: name, log: log}
}

func (m MessageRepository) Insert(ctx context.Context, message domain.Message) (domain.Message, error) {
	coll, err := m.source.collection(m.name)
	if err != nil {
		return domain.Message{}, err
	}
	doc := fromMessage(message)
	doc.ID = bson.NewObjectID()
	if err := coll.InsertOne(ctx, doc); err != nil {
		return domain.Message{}, err
	}
	return doc.toMessage(), nil
}

// SetFlag counts a matched but already flagged message as found.
func (m MessageRepository) SetFlag(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	coll, err := m.source.collection(m.name)
	if err != nil {
		return false, err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"flag": true}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (m MessageRepository) FindAll(ctx context.Context) ([]domain.Message, error) {
	coll, err := m.source.collection(m.name)
	if err != nil {
		return nil, err
	}
	var docs []messageDocument
	if err := coll.FindAll(ctx, bson.M{}, byInsertion, &docs); err != nil {
		return nil, err
	}
	return lo.Map(docs, func(doc messageDocument, _ int) domain.Message {
		return doc.toMessage()
	}), nil
}

func fromMessage(message domain.Message) messageDocument {
	return messageDocument{
		Message: message.Message,
		Flag:    message.Flag,
		From:    message.From,
		To:      message.To,
	}
}

func (doc messageDocument) toMessage() domain.Message {
	return domain.Message{
		ID:      doc.ID.Hex(),
		Message: doc.Message,
		Flag:    doc.Flag,
		From:    doc.From,
		To:      doc.To,
	}
}
