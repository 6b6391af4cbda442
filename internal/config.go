package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	BackendMongo  = "mongo"
	BackendBadger = "badger"
)

type Config struct {
	StorageBackend     string        `env:"STORAGE_BACKEND,default=mongo"`
	MongoURI           string        `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDatabase      string        `env:"MONGO_DATABASE,default=social"`
	BadgerFilepath     string        `env:"BADGER_FILEPATH"`
	AuthCollection     string        `env:"AUTH_COLLECTION,required=true"`
	MessagesCollection string        `env:"MESSAGES_COLLECTION,required=true"`
	TokenLength        int           `env:"TOKEN_LENGTH,required=true"`
	TokenChars         string        `env:"TOKEN_CHARS,required=true"`
	SearchInsensitive  bool          `env:"SEARCH_CASE_INSENSITIVE,default=false"`
	ConnectTimeout     time.Duration `env:"CONNECT_TIMEOUT,default=10s"`
	LogLevel           string        `env:"LOG_LEVEL,default=INFO"`
	CensoredWords      string        `env:"CENSORED_WORDS"`
	CharReplacement    string        `env:"CHARACTER_REPLACEMENT,default=*"`
	DebugPort          int           `env:"DEBUG_PORT,default=8081"`
}

// Validate catches the combinations go-env cannot express with tags.
func (c Config) Validate() error {
	switch c.StorageBackend {
	case BackendMongo, BackendBadger:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendMongo, BackendBadger, c.StorageBackend)
	}
	if c.AuthCollection == c.MessagesCollection {
		return fmt.Errorf("AUTH_COLLECTION and MESSAGES_COLLECTION must differ, both are %q", c.AuthCollection)
	}
	// Badger keys are {collection}:{kind}:{value}
	for name, collection := range map[string]string{"AUTH_COLLECTION": c.AuthCollection, "MESSAGES_COLLECTION": c.MessagesCollection} {
		if strings.Contains(collection, ":") {
			return fmt.Errorf("%s must not contain ':', got %q", name, collection)
		}
	}
	if strings.HasPrefix(c.AuthCollection, c.MessagesCollection) || strings.HasPrefix(c.MessagesCollection, c.AuthCollection) {
		return fmt.Errorf("AUTH_COLLECTION %q and MESSAGES_COLLECTION %q must not prefix one another", c.AuthCollection, c.MessagesCollection)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	return nil
}

// Words splits CENSORED_WORDS on commas, dropping blanks and duplicates.
func (c Config) Words() []string {
	words := lo.Map(strings.Split(c.CensoredWords, ","), func(w string, _ int) string {
		return strings.TrimSpace(w)
	})
	return lo.Uniq(lo.Compact(words))
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
