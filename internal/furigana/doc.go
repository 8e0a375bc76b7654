// Package furigana handles the inline furigana notation used on cards,
// e.g. 郵[ゆう]便[びん]局[きょく]. It parses the notation into segments,
// renders ruby markup for previews, and decides when the furigana field
// should be regenerated from the kanji field.
package furigana
