// Package mongodb stores users and messages in MongoDB.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/errors"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const defaultConnectTimeout = 5 * time.Second

// Options configures the connection.
type Options struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Connection holds one driver client shared by every repository built on it.
// The driver pools connections itself; the mutex only serialises Connect and Close.
type Connection struct {
	opts   Options
	log    *slog.Logger
	mu     sync.Mutex
	client atomic.Pointer[mongo.Client]
}

func NewConnection(opts Options, log *slog.Logger) (*Connection, error) {
	if opts.URI == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if opts.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	return &Connection{opts: opts, log: log}, nil
}

// Connect dials and pings the primary. A live client is reused as is.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client.Load() != nil {
		return nil
	}
	client, err := mongo.Connect(options.Client().ApplyURI(c.opts.URI))
	if err != nil {
		return fmt.Errorf("mongo connect failed: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	c.client.Store(client)
	c.log.Info("Connected to MongoDB", "database", c.opts.Database)
	return nil
}

// Close disconnects the client. Calling it twice is harmless.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	client := c.client.Swap(nil)
	if client == nil {
		return nil
	}
	c.log.Info("Closing MongoDB connection...")
	return client.Disconnect(ctx)
}

func (c *Connection) collection(name string) (collection, error) {
	client := c.client.Load()
	if client == nil {
		return nil, errors.ErrNotConnected
	}
	return mongoCollection{coll: client.Database(c.opts.Database).Collection(name)}, nil
}
