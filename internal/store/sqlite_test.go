package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/kotoba/internal/card"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "kotoba.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreSaveAndListCards(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := card.New()
	first.Kanji = "歴史"
	first.Furigana = "歴[れき]史[し]"
	count := 3
	first.AudioCount = &count

	second := card.New()
	second.Reading = "すし"
	second.GenerationMode = card.ModeENJP

	require.NoError(t, s.SaveCard(ctx, second, 1))
	require.NoError(t, s.SaveCard(ctx, first, 0))

	cards, err := s.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, first.ID, cards[0].ID)
	assert.Equal(t, "歴[れき]史[し]", cards[0].Furigana)
	require.NotNil(t, cards[0].AudioCount)
	assert.Equal(t, 3, *cards[0].AudioCount)

	assert.Equal(t, second.ID, cards[1].ID)
	assert.Nil(t, cards[1].AudioCount)
	assert.Equal(t, card.ModeENJP, cards[1].GenerationMode)

	// Saving again updates in place
	first.Translation = "history"
	require.NoError(t, s.SaveCard(ctx, first, 0))
	cards, err = s.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "history", cards[0].Translation)
}

func TestStoreDeleteRestoreHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, b := card.New(), card.New()
	require.NoError(t, s.SaveCard(ctx, a, 0))
	require.NoError(t, s.SaveCard(ctx, b, 1))

	require.NoError(t, s.DeleteCard(ctx, a.ID))
	require.NoError(t, s.DeleteCard(ctx, b.ID))

	cards, err := s.ListCards(ctx)
	require.NoError(t, err)
	assert.Empty(t, cards)

	history, err := s.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, b.ID, history[0].ID, "newest deletion first")
	assert.Equal(t, a.ID, history[1].ID)

	require.NoError(t, s.RestoreCard(ctx, a.ID, 0))
	cards, err = s.ListCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, a.ID, cards[0].ID)

	require.NoError(t, s.ClearHistory(ctx))
	history, err = s.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	// The restored card survives clearing
	cards, err = s.ListCards(ctx)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	assert.ErrorIs(t, s.DeleteCard(ctx, "missing"), card.ErrNotFound)
	assert.ErrorIs(t, s.RestoreCard(ctx, "missing", 0), card.ErrNotFound)

	c := card.New()
	require.NoError(t, s.SaveCard(ctx, c, 0))
	assert.ErrorIs(t, s.RestoreCard(ctx, c.ID, 0), card.ErrNotFound, "active cards cannot be restored")
}

func TestStoreBacksSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	session, err := card.NewSession(ctx, s)
	require.NoError(t, err)

	c, err := session.Add(ctx)
	require.NoError(t, err)
	_, err = session.Update(ctx, c.ID, card.Update{Field: card.FieldKanji, Value: "漢字"})
	require.NoError(t, err)

	reloaded, err := card.NewSession(ctx, s)
	require.NoError(t, err)
	cards := reloaded.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "漢字", cards[0].Kanji)
	assert.Equal(t, "漢[]字[]", cards[0].Furigana)
}

func TestStoreSettings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	defaults := Settings{VoiceID: "voice", ModelID: "model"}
	got, err := s.GetSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, got)

	saved := Settings{APIKey: "secret", VoiceID: "other", ModelID: "model"}
	require.NoError(t, s.SaveSettings(ctx, saved))

	got, err = s.GetSettings(ctx, defaults)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}
