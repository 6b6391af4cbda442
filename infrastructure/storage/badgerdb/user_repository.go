package badgerdb

import (
	"context"
	"log/slog"
	"social-lab/domain"
	"social-lab/errors"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type userRecord struct {
	ID       string `bson:"id"`
	Username string `bson:"username"`
	Password string `bson:"password"`
	Token    string `bson:"token"`
}

// UserRepository keeps two keys per user:
//
//	{collection}:id:{uuid}           -> BSON record
//	{collection}:username:{username} -> uuid
//
// The username key is the uniqueness constraint, checked inside the write transaction.
type UserRepository struct {
	conn       *Connection
	collection string
	log        *slog.Logger
}

func NewUserRepository(conn *Connection, collection string, log *slog.Logger) UserRepository {
	return UserRepository{conn: conn, collection: collection, log: log}
}

func (r UserRepository) idKey(id string) []byte {
	return []byte(r.collection + ":id:" + canonical(id))
}

func (r UserRepository) usernameKey(username string) []byte {
	return []byte(r.collection + ":username:" + username)
}

func (r UserRepository) Insert(ctx context.Context, user domain.User) (domain.User, error) {
	id, err := newID()
	if err != nil {
		return domain.User{}, err
	}
	user.ID = id
	data, err := bson.Marshal(fromUser(user))
	if err != nil {
		return domain.User{}, err
	}

	err = r.conn.update(ctx, func(txn *badger.Txn) error {
		nameKey := r.usernameKey(user.Username)
		_, err := txn.Get(nameKey)
		switch {
		case err == nil:
			return errors.ErrUserAlreadyExists
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err := txn.Set(nameKey, []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(r.idKey(user.ID), data)
	})
	if err != nil {
		return domain.User{}, err
	}
	r.log.Debug("User stored", "id", user.ID, "username", user.Username)
	return user, nil
}

func (r UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var found *domain.User
	err := r.conn.view(ctx, func(txn *badger.Txn) error {
		rec, err := r.get(txn, id)
		if err != nil || rec == nil {
			return err
		}
		found = toUser(*rec)
		return nil
	})
	return found, err
}

func (r UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var found *domain.User
	err := r.conn.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(r.usernameKey(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		rec, err := r.get(txn, string(id))
		if err != nil || rec == nil {
			return err
		}
		found = toUser(*rec)
		return nil
	})
	return found, err
}

func (r UserRepository) FindManyByID(ctx context.Context, ids []string) ([]domain.User, error) {
	var users []domain.User
	err := r.conn.view(ctx, func(txn *badger.Txn) error {
		for _, id := range ids {
			rec, err := r.get(txn, id)
			if err != nil {
				return err
			}
			if rec != nil {
				users = append(users, *toUser(*rec))
			}
		}
		return nil
	})
	return users, err
}

// SearchUsername scans every user; keys are UUIDv7 so the scan is in registration order.
func (r UserRepository) SearchUsername(ctx context.Context, term string, caseInsensitive bool) ([]domain.User, error) {
	if caseInsensitive {
		term = strings.ToLower(term)
	}
	var users []domain.User
	err := r.conn.view(ctx, func(txn *badger.Txn) error {
		return scan(txn, []byte(r.collection+":id:"), func(val []byte) error {
			var rec userRecord
			if err := bson.Unmarshal(val, &rec); err != nil {
				return err
			}
			name := rec.Username
			if caseInsensitive {
				name = strings.ToLower(name)
			}
			if strings.Contains(name, term) {
				users = append(users, *toUser(rec))
			}
			return nil
		})
	})
	return users, err
}

func (r UserRepository) SetToken(ctx context.Context, id, token string) (bool, error) {
	return r.modify(ctx, id, func(rec *userRecord) {
		rec.Token = token
	})
}

func (r UserRepository) SetCredentials(ctx context.Context, id, password, token string) (bool, error) {
	return r.modify(ctx, id, func(rec *userRecord) {
		rec.Password = password
		rec.Token = token
	})
}

func (r UserRepository) modify(ctx context.Context, id string, change func(rec *userRecord)) (bool, error) {
	found := false
	err := r.conn.update(ctx, func(txn *badger.Txn) error {
		rec, err := r.get(txn, id)
		if err != nil || rec == nil {
			return err
		}
		found = true
		change(rec)
		data, err := bson.Marshal(rec)
		if err != nil {
			return err
		}
		return txn.Set(r.idKey(id), data)
	})
	return found, err
}

// get returns nil, nil when the key is absent.
func (r UserRepository) get(txn *badger.Txn, id string) (*userRecord, error) {
	item, err := txn.Get(r.idKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec userRecord
	if err := item.Value(func(val []byte) error {
		return bson.Unmarshal(val, &rec)
	}); err != nil {
		return nil, err
	}
	return &rec, nil
}

func fromUser(user domain.User) userRecord {
	return userRecord{
		ID:       user.ID,
		Username: user.Username,
		Password: user.Password,
		Token:    user.Token,
	}
}

func toUser(rec userRecord) *domain.User {
	return &domain.User{
		ID:       rec.ID,
		Username: rec.Username,
		Password: rec.Password,
		Token:    rec.Token,
	}
}
