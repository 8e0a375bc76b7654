package furigana

import (
	"strings"
	"unicode/utf8"
)

// GenerateBrackets builds the furigana skeleton for a kanji field: every
// kanji gets an empty reading placeholder, e.g. 歴A史 -> 歴[]A史[].
func GenerateBrackets(kanjiText string) string {
	var b strings.Builder
	b.Grow(len(kanjiText) + 2*utf8.RuneCountInString(kanjiText))

	for _, r := range kanjiText {
		b.WriteRune(r)
		if IsKanji(r) {
			b.WriteString("[]")
		}
	}
	return b.String()
}

// IsSingleKanji reports whether the trimmed kanji field is exactly one
// kanji-class character.
func IsSingleKanji(kanji string) bool {
	trimmed := strings.TrimSpace(kanji)
	r, size := utf8.DecodeRuneInString(trimmed)
	return size > 0 && size == len(trimmed) && IsKanji(r)
}

// ShouldAutoGenerate decides whether the furigana field should be replaced
// by the skeleton of newKanji. That is the case while the user has not
// diverged from the skeleton of oldKanji (or left the field empty). A lone
// kanji is never bracketed.
func ShouldAutoGenerate(oldKanji, newKanji, currentFurigana string) bool {
	if IsSingleKanji(newKanji) {
		return false
	}
	return currentFurigana == "" || currentFurigana == GenerateBrackets(oldKanji)
}

// DropEmptyReadings removes the empty brackets of unfilled skeleton pairs
// so that only pairs with a reading stay annotated: 歴[れき]史[] becomes
// 歴[れき]史. A base left bare directly before another pair is separated
// from it by a space, the pair delimiter of Anki's furigana filter.
func DropEmptyReadings(annotation string) string {
	var b strings.Builder
	rest := annotation
	for {
		i := strings.Index(rest, "[]")
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:i])
		rest = rest[i+2:]

		next := strings.IndexAny(rest, "[]")
		if next > 0 && rest[next] == '[' && !strings.HasPrefix(rest[next:], "[]") {
			b.WriteByte(' ')
		}
	}
}
