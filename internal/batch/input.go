package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/kotoba/internal/card"
)

// ErrNoVocabulary is returned for input files without vocabulary items
var ErrNoVocabulary = errors.New("no vocabulary items found")

// KanjiEntry is the kanji spelling of a word with its furigana annotation
type KanjiEntry struct {
	Kanji    string `json:"kanji"`
	Furigana string `json:"furigana"`
}

// Entry is one vocabulary item of input.json
type Entry struct {
	Reading         string              `json:"reading"`
	Kanji           *KanjiEntry         `json:"kanji"`
	Translation     string              `json:"translation"`
	SentenceKana    string              `json:"sentence_kana"`
	SentenceEnglish string              `json:"sentence_english"`
	SentenceImage   string              `json:"sentence_image"`
	AudioCount      json.RawMessage     `json:"audio_count"`
	GenerationMode  card.GenerationMode `json:"generation_mode"`
}

// Input is the top level of input.json
type Input struct {
	Vocabulary []Entry `json:"vocabulary"`
}

// LoadInput reads vocabulary cards from path. Files ending in .txt use the
// line format of ReadWordList, everything else is parsed as input.json.
func LoadInput(path string) ([]card.Card, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		cards, err := ReadWordList(path)
		if err != nil {
			return nil, err
		}
		if len(cards) == 0 {
			return nil, fmt.Errorf("%w in %s", ErrNoVocabulary, path)
		}
		return cards, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return ParseInput(data)
}

// ParseInput decodes input.json content into cards
func ParseInput(data []byte) ([]card.Card, error) {
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	if len(in.Vocabulary) == 0 {
		return nil, ErrNoVocabulary
	}

	cards := make([]card.Card, 0, len(in.Vocabulary))
	for i, e := range in.Vocabulary {
		c, err := e.Card()
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i+1, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Card converts the entry into a card with a fresh id
func (e Entry) Card() (card.Card, error) {
	count, err := parseAudioCount(e.AudioCount)
	if err != nil {
		return card.Card{}, err
	}

	mode := e.GenerationMode
	if mode == "" {
		mode = card.ModeBoth
	}
	if !mode.Valid() {
		return card.Card{}, fmt.Errorf("%w: unknown generation mode %q", card.ErrInvalidValue, mode)
	}

	c := card.New()
	c.Reading = e.Reading
	c.Translation = e.Translation
	c.SentenceKana = e.SentenceKana
	c.SentenceEnglish = e.SentenceEnglish
	c.SentenceImage = e.SentenceImage
	c.AudioCount = count
	c.GenerationMode = mode
	if e.Kanji != nil {
		c.Kanji = e.Kanji.Kanji
		c.Furigana = e.Kanji.Furigana
	}
	return c, nil
}

// parseAudioCount accepts null, a positive integer or a string holding one
func parseAudioCount(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		value = string(raw)
	}
	if strings.TrimSpace(value) == "" {
		return nil, fmt.Errorf("%w: audio_count must be a positive integer (or null)", card.ErrInvalidValue)
	}
	return card.ParseAudioCount(value)
}
