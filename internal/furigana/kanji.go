package furigana

import (
	"strings"
	"unicode"
)

// kanjiRanges are the CJK ideograph blocks treated as kanji.
var kanjiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3400, Hi: 0x4DBF, Stride: 1}, // Extension A
		{Lo: 0x4E00, Hi: 0x9FFF, Stride: 1}, // Unified Ideographs
		{Lo: 0xF900, Hi: 0xFAFF, Stride: 1}, // Compatibility Ideographs
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2A6DF, Stride: 1}, // Extension B
		{Lo: 0x2A700, Hi: 0x2B73F, Stride: 1}, // Extension C
		{Lo: 0x2B740, Hi: 0x2B81F, Stride: 1}, // Extension D
	},
}

// IsKanji reports whether r is a kanji-class character.
func IsKanji(r rune) bool {
	return unicode.Is(kanjiRanges, r)
}

// ContainsKanji reports whether s has at least one kanji-class character.
func ContainsKanji(s string) bool {
	return strings.IndexFunc(s, IsKanji) >= 0
}

func isHiragana(r rune) bool {
	return r >= 0x3040 && r <= 0x309F
}

func isKatakana(r rune) bool {
	return r >= 0x30A0 && r <= 0x30FF
}

// IsKana reports whether r is a hiragana or katakana character.
func IsKana(r rune) bool {
	return isHiragana(r) || isKatakana(r)
}

// IsKatakana reports whether s contains any katakana.
func IsKatakana(s string) bool {
	return strings.IndexFunc(s, isKatakana) >= 0
}

// IsPureKatakana reports whether s is written in katakana only. Whitespace
// and the ・ and ー marks are allowed, but at least one katakana character
// must be present.
func IsPureKatakana(s string) bool {
	if s == "" || ContainsKanji(s) || strings.IndexFunc(s, isHiragana) >= 0 {
		return false
	}

	hasKatakana := false
	for _, r := range s {
		switch {
		case isKatakana(r):
			hasKatakana = true
		case unicode.IsSpace(r), r == '・', r == 'ー':
		default:
			return false
		}
	}
	return hasKatakana
}

// ToHiragana converts katakana letters to hiragana. Kanji and everything
// else is left untouched.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		// ァ..ヶ map one to one onto ぁ..ゖ
		if r >= 0x30A1 && r <= 0x30F6 {
			return r - 0x60
		}
		return r
	}, s)
}
