package services

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/domain"
	"social-lab/errors"
	"social-lab/infrastructure/storage/badgerdb"
	"social-lab/mocks"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMessageStore_Save(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestStores(t, false)

	saved, err := s.messages.Save(ctx, "   hello world  ")
	req.NoError(err)
	req.Equal("hello world", saved.Message)
	req.False(saved.Flag)
	req.True(badgerdb.UUIDCodec{}.IsValid(saved.ID))

	all, err := s.messages.GetAll(ctx)
	req.NoError(err)
	req.Equal([]domain.Message{saved}, all)
}

func TestMessageStore_Save_Rejected(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Empty", ""},
		{"Only spaces", "    "},
		{"Tabs and newlines", "\t\n"},
		{"141 characters", strings.Repeat("a", 141)},
		{"141 characters after trim", "  " + strings.Repeat("é", 141) + "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctx := context.Background()
			s := newTestStores(t, false)

			_, err := s.messages.Save(ctx, tt.text)
			req.True(errors.IsArgument(err))
			req.ErrorIs(err, errors.ErrInvalidMessage)

			all, err := s.messages.GetAll(ctx)
			req.NoError(err)
			req.Empty(all)
		})
	}
}

func TestMessageStore_Save_LimitCountsCharactersNotBytes(t *testing.T) {
	req := require.New(t)
	s := newTestStores(t, false)

	text := strings.Repeat("é", domain.MaxMessageLength)
	saved, err := s.messages.Save(context.Background(), text)
	req.NoError(err)
	req.Equal(text, saved.Message)
}

func TestMessageStore_Flag(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestStores(t, false)

	first, err := s.messages.Save(ctx, "first")
	req.NoError(err)
	second, err := s.messages.Save(ctx, "second")
	req.NoError(err)

	req.NoError(s.messages.Flag(ctx, first.ID))
	// Already flagged still matches
	req.NoError(s.messages.Flag(ctx, first.ID))

	all, err := s.messages.GetAll(ctx)
	req.NoError(err)
	req.Len(all, 2)
	req.Equal(first.ID, all[0].ID)
	req.True(all[0].Flag)
	req.Equal(second, all[1])

	err = s.messages.Flag(ctx, unknownID)
	req.True(errors.IsArgument(err))
	req.ErrorIs(err, errors.ErrMessageNotFound)

	err = s.messages.Flag(ctx, "a")
	req.True(errors.IsArgument(err))
	req.ErrorIs(err, errors.ErrInvalidID)
}

func TestMessageStore_ClosedConnection(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newTestStores(t, false)

	saved, err := s.messages.Save(ctx, "before close")
	req.NoError(err)
	req.NoError(s.conn.Close(ctx))
	req.NoError(s.conn.Close(ctx))

	_, err = s.messages.Save(ctx, "while closed")
	req.True(errors.IsDatabase(err))
	req.ErrorIs(err, errors.ErrNotConnected)

	_, err = s.messages.GetAll(ctx)
	req.True(errors.IsDatabase(err))

	err = s.messages.Flag(ctx, saved.ID)
	req.True(errors.IsDatabase(err))

	// Validation still runs first
	err = s.messages.Flag(ctx, "a")
	req.True(errors.IsArgument(err))

	req.NoError(s.conn.Connect(ctx))
	all, err := s.messages.GetAll(ctx)
	req.NoError(err)
	req.Equal([]domain.Message{saved}, all)
}

func TestMessageStore_WithMockRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should not query storage for a malformed id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockIMessageRepository(ctrl)
		store := NewMessageStore(repo, badgerdb.UUIDCodec{}, slog.Default())

		repo.EXPECT().SetFlag(gomock.Any(), gomock.Any()).Times(0)

		err := store.Flag(ctx, "not-an-id")
		require.True(t, errors.IsArgument(err))
	})

	t.Run("should not query storage for an invalid message", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockIMessageRepository(ctrl)
		store := NewMessageStore(repo, badgerdb.UUIDCodec{}, slog.Default())

		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)

		_, err := store.Save(ctx, "  ")
		require.True(t, errors.IsArgument(err))
	})

	t.Run("should wrap storage failures as DatabaseError", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockIMessageRepository(ctrl)
		store := NewMessageStore(repo, badgerdb.UUIDCodec{}, slog.Default())
		boom := fmt.Errorf("disk full")

		repo.EXPECT().Insert(gomock.Any(), domain.Message{Message: "hello"}).Return(domain.Message{}, boom)
		repo.EXPECT().SetFlag(gomock.Any(), unknownID).Return(false, boom)
		repo.EXPECT().FindAll(gomock.Any()).Return(nil, boom)

		_, err := store.Save(ctx, "hello")
		req.True(errors.IsDatabase(err))
		req.ErrorIs(err, boom)

		err = store.Flag(ctx, unknownID)
		req.True(errors.IsDatabase(err))
		req.False(errors.IsArgument(err))

		_, err = store.GetAll(ctx)
		req.True(errors.IsDatabase(err))
	})

	t.Run("should return an empty slice when nothing is stored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockIMessageRepository(ctrl)
		store := NewMessageStore(repo, badgerdb.UUIDCodec{}, slog.Default())

		repo.EXPECT().FindAll(gomock.Any()).Return(nil, nil)

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		require.NotNil(t, all)
		require.Empty(t, all)
	})
}

func TestMessageStore_Save_Property(t *testing.T) {
	s := newTestStores(t, false)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("trimmed text of 1 to 140 characters is stored unflagged", prop.ForAll(
		func(length, padding int) bool {
			text := strings.Repeat("ü", length)
			pad := strings.Repeat(" ", padding)
			saved, err := s.messages.Save(ctx, pad+text+pad)
			return err == nil && saved.Message == text && !saved.Flag
		},
		gen.IntRange(1, domain.MaxMessageLength),
		gen.IntRange(0, 5),
	))

	properties.Property("longer text is an ArgumentError", prop.ForAll(
		func(length int) bool {
			_, err := s.messages.Save(ctx, strings.Repeat("x", length))
			return errors.IsArgument(err)
		},
		gen.IntRange(domain.MaxMessageLength+1, 4*domain.MaxMessageLength),
	))

	properties.TestingRun(t)
}
