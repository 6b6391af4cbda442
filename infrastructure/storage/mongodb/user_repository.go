package mongodb

import (
	"context"
	"log/slog"
	"regexp"
	"social-lab/domain"
	"social-lab/errors"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userDocument struct {
	ID       bson.ObjectID `bson:"_id"`
	Username string        `bson:"username"`
	Password string        `bson:"password"`
	Token    string        `bson:"token"`
}

var byInsertion = bson.D{{Key: "_id", Value: 1}}

type UserRepository struct {
	source collectionSource
	name   string
	log    *slog.Logger
}

func NewUserRepository(conn *Connection, name string, log *slog.Logger) UserRepository {
	return UserRepository{source: conn, name: name, log: log}
}

// EnsureIndexes creates the unique username index that backs registration.
func (r UserRepository) EnsureIndexes(ctx context.Context) error {
	coll, err := r.source.collection(r.name)
	if err != nil {
		return err
	}
	return coll.CreateIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
}

func (r UserRepository) Insert(ctx context.Context, user domain.User) (domain.User, error) {
	coll, err := r.source.collection(r.name)
	if err != nil {
		return domain.User{}, err
	}
	doc := fromUser(user)
	doc.ID = bson.NewObjectID()
	if err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, errors.ErrUserAlreadyExists
		}
		return domain.User{}, err
	}
	r.log.Debug("User stored", "id", doc.ID.Hex(), "username", doc.Username)
	return doc.toUser(), nil
}

func (r UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r UserRepository) FindManyByID(ctx context.Context, ids []string) ([]domain.User, error) {
	oids, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}
	return r.findAll(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// SearchUsername escapes term so it is matched literally.
func (r UserRepository) SearchUsername(ctx context.Context, term string, caseInsensitive bool) ([]domain.User, error) {
	regex := bson.M{"$regex": regexp.QuoteMeta(term)}
	if caseInsensitive {
		regex["$options"] = "i"
	}
	return r.findAll(ctx, bson.M{"username": regex})
}

func (r UserRepository) SetToken(ctx context.Context, id, token string) (bool, error) {
	return r.set(ctx, id, bson.M{"token": token})
}

func (r UserRepository) SetCredentials(ctx context.Context, id, password, token string) (bool, error) {
	return r.set(ctx, id, bson.M{"password": password, "token": token})
}

func (r UserRepository) set(ctx context.Context, id string, fields bson.M) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	coll, err := r.source.collection(r.name)
	if err != nil {
		return false, err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	coll, err := r.source.collection(r.name)
	if err != nil {
		return nil, err
	}
	var doc userDocument
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return lo.ToPtr(doc.toUser()), nil
}

func (r UserRepository) findAll(ctx context.Context, filter bson.M) ([]domain.User, error) {
	coll, err := r.source.collection(r.name)
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := coll.FindAll(ctx, filter, byInsertion, &docs); err != nil {
		return nil, err
	}
	return lo.Map(docs, func(doc userDocument, _ int) domain.User {
		return doc.toUser()
	}), nil
}

func fromUser(user domain.User) userDocument {
	return userDocument{
		Username: user.Username,
		Password: user.Password,
		Token:    user.Token,
	}
}

func (doc userDocument) toUser() domain.User {
	return domain.User{
		ID:       doc.ID.Hex(),
		Username: doc.Username,
		Password: doc.Password,
		Token:    doc.Token,
	}
}
