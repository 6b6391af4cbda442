// Package badgerdb stores users and messages in an embedded BadgerDB.
// Each collection is a key prefix; documents are BSON values.
package badgerdb

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/errors"
	"sync"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

// Connection owns the Badger handle. The mutex only serialises Connect and
// Close; reads and writes go through the atomic pointer.
type Connection struct {
	path string
	log  *slog.Logger
	mu   sync.Mutex
	db   atomic.Pointer[badger.DB]
}

func NewConnection(path string, log *slog.Logger) *Connection {
	return &Connection{path: path, log: log}
}

// Connect opens the database, or does nothing when it is already open.
func (c *Connection) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db.Load() != nil {
		return nil
	}
	db, err := badger.Open(badger.DefaultOptions(c.path).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	c.db.Store(db)
	c.log.Debug("Badger opened", "path", c.path)
	return nil
}

// Close releases the database. Calling it twice is harmless.
func (c *Connection) Close(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	db := c.db.Swap(nil)
	if db == nil {
		return nil
	}
	c.log.Debug("Closing Badger", "path", c.path)
	return db.Close()
}

func (c *Connection) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db := c.db.Load()
	if db == nil {
		return errors.ErrNotConnected
	}
	return db.View(fn)
}

func (c *Connection) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db := c.db.Load()
	if db == nil {
		return errors.ErrNotConnected
	}
	return db.Update(fn)
}

// scan walks every key under prefix in key order.
func scan(txn *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
