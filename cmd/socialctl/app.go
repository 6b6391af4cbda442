package main

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/auth"
	"social-lab/infrastructure/storage/badgerdb"
	"social-lab/infrastructure/storage/mongodb"
	"social-lab/internal"
	"social-lab/moderation"
	"social-lab/repositories"
	"social-lab/services"

	"github.com/mama165/sdk-go/database"
)

// app is every store wired to the configured backend.
type app struct {
	config    internal.Config
	log       *slog.Logger
	lifecycle repositories.Lifecycle
	messages  *services.MessageStore
	users     *services.UserStore
	auth      *services.AuthService
	moderator *moderation.Moderator
	sweeper   *moderation.Sweeper

	ensureIndexes func(ctx context.Context) error
	// badger is nil on the mongo backend
	badger *badgerdb.Connection
}

func newApp(config internal.Config, log *slog.Logger) (*app, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenGenerator(config.TokenChars, config.TokenLength)
	if err != nil {
		return nil, fmt.Errorf("token config: %w", err)
	}

	a := &app{config: config, log: log}
	var (
		userRepo    repositories.IUserRepository
		messageRepo repositories.IMessageRepository
		codec       repositories.IdCodec
	)

	switch config.StorageBackend {
	case internal.BackendMongo:
		conn, err := mongodb.NewConnection(mongodb.Options{
			URI:            config.MongoURI,
			Database:       config.MongoDatabase,
			ConnectTimeout: config.ConnectTimeout,
		}, log)
		if err != nil {
			return nil, err
		}
		users := mongodb.NewUserRepository(conn, config.AuthCollection, log)
		a.lifecycle = conn
		a.ensureIndexes = users.EnsureIndexes
		userRepo = users
		messageRepo = mongodb.NewMessageRepository(conn, config.MessagesCollection, log)
		codec = mongodb.ObjectIDCodec{}
	case internal.BackendBadger:
		path := config.BadgerFilepath
		if path == "" {
			path = database.DefaultPath
		}
		conn := badgerdb.NewConnection(path, log)
		a.lifecycle = conn
		a.badger = conn
		// the username key is written with the user, nothing to build
		a.ensureIndexes = func(context.Context) error { return nil }
		userRepo = badgerdb.NewUserRepository(conn, config.AuthCollection, log)
		messageRepo = badgerdb.NewMessageRepository(conn, config.MessagesCollection, log)
		codec = badgerdb.UUIDCodec{}
	}

	replacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	moderator, err := moderation.NewModerator(config.Words(), replacement, log)
	if err != nil {
		return nil, fmt.Errorf("moderator: %w", err)
	}

	a.messages = services.NewMessageStore(messageRepo, codec, log)
	a.users = services.NewUserStore(userRepo, messageRepo, codec, tokens, config.SearchInsensitive, log)
	a.auth = services.NewAuthService(a.users, log)
	a.moderator = moderator
	a.sweeper = moderation.NewSweeper(a.messages, moderator, log)
	return a, nil
}
