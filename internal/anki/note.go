package anki

import (
	"fmt"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/kotoba/internal/card"
)

// NoteTypeName is the name of the Japanese vocabulary note type
const NoteTypeName = "Japanese-75658"

// DefaultNoteTypeID matches the note type id of existing decks
const DefaultNoteTypeID int64 = 1607392319

// Field indexes of the Japanese note type
const (
	FieldVocabularyKanji = iota
	FieldVocabularyFurigana
	FieldVocabularyKana
	FieldVocabularyEnglish
	FieldVocabularyAudio
	FieldVocabularyPos
	FieldCaution
	FieldExpression
	FieldReading
	FieldSentenceKana
	FieldSentenceEnglish
	FieldSentenceClozed
	FieldSentenceAudio
	FieldSentenceImage
	FieldNotes
	FieldCoreIndex
	FieldOptimizedVocIndex
	FieldOptimizedSentIndex
	fieldCount
)

// FieldNames lists the note fields in model order
var FieldNames = [fieldCount]string{
	"Vocabulary-Kanji",
	"Vocabulary-Furigana",
	"Vocabulary-Kana",
	"Vocabulary-English",
	"Vocabulary-Audio",
	"Vocabulary-Pos",
	"Caution",
	"Expression",
	"Reading",
	"Sentence-Kana",
	"Sentence-English",
	"Sentence-Clozed",
	"Sentence-Audio",
	"Sentence-Image",
	"Notes",
	"Core-Index",
	"Optimized-Voc-Index",
	"Optimized-Sent-Index",
}

// Item is a processed vocabulary entry ready to become notes
type Item struct {
	Kanji              string              `json:"kanji"`
	ReadingHiragana    string              `json:"reading_hiragana"`
	ReadingFurigana    string              `json:"reading_furigana"`
	Translation        string              `json:"translation"`
	SentenceKana       string              `json:"sentence_kana"`
	SentenceEnglish    string              `json:"sentence_english"`
	SentenceImage      string              `json:"sentence_image,omitempty"` // path of the decoded image
	AudioPaths         []string            `json:"audio_paths"`
	SentenceAudioPaths []string            `json:"sentence_audio_paths"`
	GenerationMode     card.GenerationMode `json:"generation_mode"`
}

// HasKanji reports whether the item is written with kanji
func (it Item) HasKanji() bool {
	return strings.TrimSpace(it.Kanji) != ""
}

// Note holds the field values of one Japanese note plus the media files it
// references
type Note struct {
	Fields [fieldCount]string
	Media  []string
}

// BuildNote maps a processed item onto the Japanese note fields
func BuildNote(it Item) Note {
	var n Note

	vocabulary := it.ReadingHiragana
	if it.Kanji != "" {
		vocabulary = it.Kanji
	}

	n.Fields[FieldVocabularyKanji] = vocabulary
	n.Fields[FieldVocabularyFurigana] = it.ReadingHiragana
	n.Fields[FieldVocabularyKana] = it.ReadingHiragana
	n.Fields[FieldVocabularyEnglish] = it.Translation
	n.Fields[FieldExpression] = vocabulary
	n.Fields[FieldSentenceKana] = it.SentenceKana

	var readingParts []string
	if it.Kanji != "" && it.ReadingFurigana != "" {
		readingParts = append(readingParts, it.ReadingFurigana)
	}
	if it.SentenceKana != "" {
		readingParts = append(readingParts, it.SentenceKana)
	}
	n.Fields[FieldReading] = strings.Join(readingParts, "<br>")

	n.Fields[FieldVocabularyAudio] = n.addSounds(it.AudioPaths)
	n.Fields[FieldSentenceAudio] = n.addSounds(it.SentenceAudioPaths)

	n.Fields[FieldSentenceEnglish] = it.SentenceEnglish
	if it.SentenceImage != "" {
		img := fmt.Sprintf(`<img src="%s">`, filepath.Base(it.SentenceImage))
		n.Fields[FieldSentenceImage] = img
		if it.SentenceEnglish != "" {
			n.Fields[FieldSentenceEnglish] = it.SentenceEnglish + "<br><br>" + img
		} else {
			n.Fields[FieldSentenceEnglish] = img
		}
		n.Media = append(n.Media, it.SentenceImage)
	}

	return n
}

func (n *Note) addSounds(paths []string) string {
	var b strings.Builder
	for _, path := range paths {
		fmt.Fprintf(&b, "[sound:%s]", filepath.Base(path))
		n.Media = append(n.Media, path)
	}
	return b.String()
}

// Field returns the value of the named field, or "" for unknown names
func (n Note) Field(name string) string {
	for i, fieldName := range FieldNames {
		if fieldName == name {
			return n.Fields[i]
		}
	}
	return ""
}

// direction identifies one of the two note models
type direction int

const (
	japaneseToEnglish direction = iota
	englishToJapanese
)

// directedNote is a note bound to the model it is added with
type directedNote struct {
	dir    direction
	fields [fieldCount]string
}

// notesFor derives the JP->EN and EN->JP notes of an item according to its
// generation mode
func notesFor(it Item, n Note) []directedNote {
	var notes []directedNote
	mode := it.GenerationMode

	if strings.TrimSpace(n.Fields[FieldVocabularyKanji]) != "" && mode.IncludesJPEN() {
		fields := n.Fields
		if !it.HasKanji() {
			fields[FieldVocabularyKana] = ""
		}
		notes = append(notes, directedNote{dir: japaneseToEnglish, fields: fields})
	}

	if strings.TrimSpace(n.Fields[FieldVocabularyEnglish]) != "" && mode.IncludesENJP() {
		fields := n.Fields
		fields[FieldVocabularyKanji] = n.Fields[FieldVocabularyEnglish]
		fields[FieldVocabularyEnglish] = "  "
		notes = append(notes, directedNote{dir: englishToJapanese, fields: fields})
	}

	return notes
}
