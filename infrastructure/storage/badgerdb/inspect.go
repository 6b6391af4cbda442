package badgerdb

import (
	"social-lab/errors"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// DB hands the open handle to the debug inspector.
func (c *Connection) DB() (*badger.DB, error) {
	db := c.db.Load()
	if db == nil {
		return nil, errors.ErrNotConnected
	}
	return db, nil
}

type inspectView struct {
	Username *string `bson:"username"`
	Message  *string `bson:"message"`
	Flag     bool    `bson:"flag"`
}

// InspectMapper labels the rows of the debug inspector. Passwords and tokens are never shown.
func InspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	if strings.Contains(key, ":username:") {
		row.Type = "INDEX"
		row.Detail = string(val)
		return row
	}

	var v inspectView
	if err := bson.Unmarshal(val, &v); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}
	switch {
	case v.Username != nil:
		row.Type = "USER"
		row.Detail = *v.Username
	case v.Message != nil:
		row.Type = "MESSAGE"
		if v.Flag {
			row.Type = "MESSAGE (FLAGGED)"
		}
		row.Detail = *v.Message
	}
	return row
}
