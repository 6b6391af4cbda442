package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// collectionSource resolves a collection per call, so a closed connection
// surfaces as errors.ErrNotConnected instead of a stale handle.
type collectionSource interface {
	collection(name string) (collection, error)
}

// collection is the subset of *mongo.Collection the repositories use.
type collection interface {
	InsertOne(ctx context.Context, document any) error
	UpdateOne(ctx context.Context, filter, update any) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any) singleResult
	FindAll(ctx context.Context, filter any, sort bson.D, results any) error
	CreateIndex(ctx context.Context, model mongo.IndexModel) error
}

type singleResult interface {
	Decode(val any) error
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c mongoCollection) InsertOne(ctx context.Context, document any) error {
	_, err := c.coll.InsertOne(ctx, document)
	return err
}

func (c mongoCollection) UpdateOne(ctx context.Context, filter, update any) (*mongo.UpdateResult, error) {
	return c.coll.UpdateOne(ctx, filter, update)
}

func (c mongoCollection) FindOne(ctx context.Context, filter any) singleResult {
	return c.coll.FindOne(ctx, filter)
}

func (c mongoCollection) FindAll(ctx context.Context, filter any, sort bson.D, results any) error {
	cur, err := c.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	return cur.All(ctx, results)
}

func (c mongoCollection) CreateIndex(ctx context.Context, model mongo.IndexModel) error {
	_, err := c.coll.Indexes().CreateOne(ctx, model)
	return err
}
