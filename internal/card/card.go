package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"codeberg.org/snonux/kotoba/internal/furigana"
)

var (
	// ErrNotFound is returned when no card has the requested id
	ErrNotFound = errors.New("card not found")
	// ErrUnknownField is returned for updates naming a field that does not exist
	ErrUnknownField = errors.New("unknown card field")
	// ErrInvalidValue is returned when an update value cannot be stored in the field
	ErrInvalidValue = errors.New("invalid field value")
)

// GenerationMode selects which note directions are generated for a card
type GenerationMode string

const (
	ModeBoth GenerationMode = "both"
	ModeJPEN GenerationMode = "jp_en"
	ModeENJP GenerationMode = "en_jp"
)

// Valid reports whether m is a known generation mode
func (m GenerationMode) Valid() bool {
	switch m {
	case ModeBoth, ModeJPEN, ModeENJP:
		return true
	}
	return false
}

// IncludesJPEN reports whether the Japanese to English note is generated
func (m GenerationMode) IncludesJPEN() bool {
	return m == ModeBoth || m == ModeJPEN || m == ""
}

// IncludesENJP reports whether the English to Japanese note is generated
func (m GenerationMode) IncludesENJP() bool {
	return m == ModeBoth || m == ModeENJP || m == ""
}

// Card is one vocabulary entry as edited in the form
type Card struct {
	ID              string         `json:"id"`
	Reading         string         `json:"reading"`
	Kanji           string         `json:"kanji"`
	Furigana        string         `json:"furigana"`
	Translation     string         `json:"translation"`
	SentenceKana    string         `json:"sentence_kana"`
	SentenceEnglish string         `json:"sentence_english"`
	SentenceImage   string         `json:"sentence_image"` // data URL
	AudioCount      *int           `json:"audio_count"`    // nil means no audio
	GenerationMode  GenerationMode `json:"generation_mode"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// New creates an empty card with a fresh id
func New() Card {
	now := time.Now()
	return Card{
		ID:             uuid.New().String(),
		GenerationMode: ModeBoth,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsEmpty reports whether the card has nothing to generate from
func (c Card) IsEmpty() bool {
	return strings.TrimSpace(c.Reading) == "" &&
		strings.TrimSpace(c.Kanji) == "" &&
		strings.TrimSpace(c.Translation) == ""
}

// HasAudio reports whether audio should be generated for the card
func (c Card) HasAudio() bool {
	return c.AudioCount != nil && *c.AudioCount > 0
}

// Field names an editable card field
type Field string

const (
	FieldReading         Field = "reading"
	FieldKanji           Field = "kanji"
	FieldFurigana        Field = "furigana"
	FieldTranslation     Field = "translation"
	FieldSentenceKana    Field = "sentence_kana"
	FieldSentenceEnglish Field = "sentence_english"
	FieldSentenceImage   Field = "sentence_image"
	FieldAudioCount      Field = "audio_count"
	FieldGenerationMode  Field = "generation_mode"
)

// Update replaces the value of one field
type Update struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Apply returns c with the update applied. Changing the kanji field to a
// new value regenerates the furigana skeleton unless the user has edited
// the furigana away from it.
func Apply(c Card, u Update) (Card, error) {
	switch u.Field {
	case FieldReading:
		c.Reading = u.Value
	case FieldKanji:
		if u.Value != c.Kanji && furigana.ShouldAutoGenerate(c.Kanji, u.Value, c.Furigana) {
			c.Furigana = furigana.GenerateBrackets(u.Value)
		}
		c.Kanji = u.Value
	case FieldFurigana:
		c.Furigana = u.Value
	case FieldTranslation:
		c.Translation = u.Value
	case FieldSentenceKana:
		c.SentenceKana = u.Value
	case FieldSentenceEnglish:
		c.SentenceEnglish = u.Value
	case FieldSentenceImage:
		c.SentenceImage = u.Value
	case FieldAudioCount:
		count, err := ParseAudioCount(u.Value)
		if err != nil {
			return c, err
		}
		c.AudioCount = count
	case FieldGenerationMode:
		mode := GenerationMode(u.Value)
		if !mode.Valid() {
			return c, fmt.Errorf("%w: generation mode %q", ErrInvalidValue, u.Value)
		}
		c.GenerationMode = mode
	default:
		return c, fmt.Errorf("%w: %q", ErrUnknownField, u.Field)
	}
	return c, nil
}

// Replace merges a full-record replacement into prev. Identity and
// timestamps stay with prev. When the kanji differs, the furigana rule is
// applied against the incoming furigana so a client sending a stale
// skeleton still gets the new one.
func Replace(prev, next Card) (Card, error) {
	next.ID = prev.ID
	next.CreatedAt = prev.CreatedAt
	next.UpdatedAt = prev.UpdatedAt

	if next.GenerationMode == "" {
		next.GenerationMode = ModeBoth
	}
	if !next.GenerationMode.Valid() {
		return prev, fmt.Errorf("%w: generation mode %q", ErrInvalidValue, next.GenerationMode)
	}
	if next.AudioCount != nil && *next.AudioCount < 1 {
		return prev, fmt.Errorf("%w: audio count must be positive", ErrInvalidValue)
	}

	if next.Kanji != prev.Kanji && furigana.ShouldAutoGenerate(prev.Kanji, next.Kanji, next.Furigana) {
		next.Furigana = furigana.GenerateBrackets(next.Kanji)
	}
	return next, nil
}

// ParseAudioCount parses the audio count form value. An empty value means
// no audio; anything else must be a positive integer.
func ParseAudioCount(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	count, err := strconv.Atoi(value)
	if err != nil || count < 1 {
		return nil, fmt.Errorf("%w: audio count must be a positive integer, got %q", ErrInvalidValue, value)
	}
	return &count, nil
}
