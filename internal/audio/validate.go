package audio

import (
	"errors"
	"strings"

	"codeberg.org/snonux/kotoba/internal/furigana"
)

var (
	ErrEmptyText       = errors.New("text cannot be empty")
	ErrNotJapaneseText = errors.New("text must contain kana or kanji characters")
)

// ValidateJapaneseText validates that the input text contains Japanese script
func ValidateJapaneseText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	for _, r := range text {
		if furigana.IsKanji(r) || furigana.IsKana(r) {
			return nil
		}
	}
	return ErrNotJapaneseText
}
