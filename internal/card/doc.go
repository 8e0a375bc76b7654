// Package card holds the vocabulary card record edited through the form
// and the state handling around it: field updates, the furigana
// auto-generation rule on kanji edits, and the session of active cards
// with its history of deleted ones.
package card
