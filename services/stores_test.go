package services

import (
	"context"
	"log/slog"
	"social-lab/auth"
	"social-lab/infrastructure/storage/badgerdb"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const (
	testTokenChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	testTokenLength = 16
	unknownID       = "0190f5b2-6f4c-7cc0-8a3e-3f1c2b1a9d00"
)

type testStores struct {
	conn     *badgerdb.Connection
	messages *MessageStore
	users    *UserStore
	auth     *AuthService
	tokens   *auth.TokenGenerator
}

// newTestStores wires every store to a fresh Badger directory.
func newTestStores(t *testing.T, caseInsensitive bool) testStores {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelError)
	conn := badgerdb.NewConnection(t.TempDir(), log)
	require.NoError(t, conn.Connect(context.Background()))
	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	tokens, err := auth.NewTokenGenerator(testTokenChars, testTokenLength)
	require.NoError(t, err)

	userRepo := badgerdb.NewUserRepository(conn, "auth", log)
	messageRepo := badgerdb.NewMessageRepository(conn, "messages", log)
	users := NewUserStore(userRepo, messageRepo, badgerdb.UUIDCodec{}, tokens, caseInsensitive, log)
	return testStores{
		conn:     conn,
		messages: NewMessageStore(messageRepo, badgerdb.UUIDCodec{}, log),
		users:    users,
		auth:     NewAuthService(users, log),
		tokens:   tokens,
	}
}
