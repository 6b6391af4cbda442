package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_FromEnviron(t *testing.T) {
	req := require.New(t)
	t.Setenv("STORAGE_BACKEND", "badger")
	t.Setenv("BADGER_FILEPATH", "/tmp/social")
	t.Setenv("AUTH_COLLECTION", "auth")
	t.Setenv("MESSAGES_COLLECTION", "messages")
	t.Setenv("TOKEN_LENGTH", "32")
	t.Setenv("TOKEN_CHARS", "abc123")
	t.Setenv("SEARCH_CASE_INSENSITIVE", "true")
	t.Setenv("CONNECT_TIMEOUT", "3s")
	t.Setenv("CENSORED_WORDS", "spam, scam,,spam ")

	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	req.NoError(err)
	req.NoError(cfg.Validate())

	req.Equal(BackendBadger, cfg.StorageBackend)
	req.Equal("/tmp/social", cfg.BadgerFilepath)
	req.Equal(32, cfg.TokenLength)
	req.True(cfg.SearchInsensitive)
	req.Equal(3*time.Second, cfg.ConnectTimeout)
	req.Equal("social", cfg.MongoDatabase)
	req.Equal([]string{"spam", "scam"}, cfg.Words())
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		StorageBackend:     BackendMongo,
		AuthCollection:     "auth",
		MessagesCollection: "messages",
		CharReplacement:    "*",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"Valid", func(c *Config) {}, false},
		{"Unknown backend", func(c *Config) { c.StorageBackend = "redis" }, true},
		{"Same collection twice", func(c *Config) { c.MessagesCollection = "auth" }, true},
		{"Collection with key separator", func(c *Config) { c.MessagesCollection = "auth:id" }, true},
		{"Auth collection with key separator", func(c *Config) { c.AuthCollection = "users:" }, true},
		{"Collection prefixes the other", func(c *Config) { c.AuthCollection = "msg"; c.MessagesCollection = "msgs" }, true},
		{"Collection extends the other", func(c *Config) { c.MessagesCollection = "authors" }, true},
		{"Empty collection", func(c *Config) { c.AuthCollection = "" }, true},
		{"Replacement is two characters", func(c *Config) { c.CharReplacement = "**" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_Words_Empty(t *testing.T) {
	require.Empty(t, Config{}.Words())
}
