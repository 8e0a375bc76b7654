// Package store persists the card session and the runtime settings in a
// SQLite database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/kotoba/internal/card"
)

//go:embed schema.sql
var schema string

// Store handles database operations
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at dbPath
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const cardColumns = `id, reading, kanji, furigana, translation, sentence_kana,
	sentence_english, sentence_image, audio_count, generation_mode, created_at, updated_at`

// SaveCard inserts or updates an active card
func (s *Store) SaveCard(ctx context.Context, c card.Card, position int) error {
	var audioCount sql.NullInt64
	if c.AudioCount != nil {
		audioCount = sql.NullInt64{Int64: int64(*c.AudioCount), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			reading = excluded.reading,
			kanji = excluded.kanji,
			furigana = excluded.furigana,
			translation = excluded.translation,
			sentence_kana = excluded.sentence_kana,
			sentence_english = excluded.sentence_english,
			sentence_image = excluded.sentence_image,
			audio_count = excluded.audio_count,
			generation_mode = excluded.generation_mode,
			updated_at = excluded.updated_at,
			position = excluded.position`,
		c.ID, c.Reading, c.Kanji, c.Furigana, c.Translation, c.SentenceKana,
		c.SentenceEnglish, c.SentenceImage, audioCount, string(c.GenerationMode),
		c.CreatedAt, c.UpdatedAt, position,
	)
	if err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	return nil
}

// ListCards returns the active cards in form order
func (s *Store) ListCards(ctx context.Context) ([]card.Card, error) {
	return s.queryCards(ctx, `SELECT `+cardColumns+` FROM cards
		WHERE deleted_at IS NULL ORDER BY position, created_at`)
}

// ListHistory returns deleted cards, most recently deleted first
func (s *Store) ListHistory(ctx context.Context) ([]card.Card, error) {
	return s.queryCards(ctx, `SELECT `+cardColumns+` FROM cards
		WHERE deleted_at IS NOT NULL ORDER BY deleted_at DESC, rowid DESC`)
}

// DeleteCard moves a card to the history
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cards SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return expectRow(res, id)
}

// RestoreCard moves a card from the history back to the active list
func (s *Store) RestoreCard(ctx context.Context, id string, position int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cards SET deleted_at = NULL, position = ? WHERE id = ? AND deleted_at IS NOT NULL",
		position, id,
	)
	if err != nil {
		return fmt.Errorf("restore card: %w", err)
	}
	return expectRow(res, id)
}

// ClearHistory removes all deleted cards
func (s *Store) ClearHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE deleted_at IS NOT NULL"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Store) queryCards(ctx context.Context, query string) ([]card.Card, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		var (
			c          card.Card
			audioCount sql.NullInt64
			mode       string
		)
		if err := rows.Scan(&c.ID, &c.Reading, &c.Kanji, &c.Furigana, &c.Translation,
			&c.SentenceKana, &c.SentenceEnglish, &c.SentenceImage, &audioCount, &mode,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if audioCount.Valid {
			count := int(audioCount.Int64)
			c.AudioCount = &count
		}
		c.GenerationMode = card.GenerationMode(mode)
		cards = append(cards, c)
	}

	return cards, rows.Err()
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", card.ErrNotFound, id)
	}
	return nil
}

// Settings are the runtime audio settings changed from the settings dialog
type Settings struct {
	APIKey  string
	VoiceID string
	ModelID string
}

const (
	keyAPIKey  = "api_key"
	keyVoiceID = "voice_id"
	keyModelID = "model_id"
)

// GetSettings returns the stored settings. Keys never saved fall back to
// the values in defaults.
func (s *Store) GetSettings(ctx context.Context, defaults Settings) (Settings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return defaults, fmt.Errorf("get settings: %w", err)
	}
	defer rows.Close()

	settings := defaults
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return defaults, fmt.Errorf("scan setting: %w", err)
		}
		switch key {
		case keyAPIKey:
			settings.APIKey = value
		case keyVoiceID:
			settings.VoiceID = value
		case keyModelID:
			settings.ModelID = value
		}
	}

	return settings, rows.Err()
}

// SaveSettings replaces all stored settings
func (s *Store) SaveSettings(ctx context.Context, settings Settings) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	values := map[string]string{
		keyAPIKey:  settings.APIKey,
		keyVoiceID: settings.VoiceID,
		keyModelID: settings.ModelID,
	}
	for key, value := range values {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value,
		); err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}
