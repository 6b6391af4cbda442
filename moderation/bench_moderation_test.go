package moderation

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func largeDictionary(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%dx", i)
	}
	return words
}

func BenchmarkModerator_Build(b *testing.B) {
	words := largeDictionary(100_000)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := NewModerator(words, '*', log)
		require.NoError(b, err)
	}
}

func BenchmarkModerator_Detect(b *testing.B) {
	mod, err := NewModerator(largeDictionary(100_000), '*', logs.GetLoggerFromLevel(slog.LevelError))
	require.NoError(b, err)
	text := strings.Repeat("a perfectly ordinary message ", 5)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mod.Detect(text)
	}
}
