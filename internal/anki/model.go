package anki

import (
	"strconv"
)

const cardCSS = `.card {
  font-family: arial;
  font-size: 25px;
  text-align: center;
  color: White;
  background-color: Black;
}`

const (
	jpEnFront = `<span style="font-size: 50px;">{{Vocabulary-Kanji}}</span>`
	jpEnBack  = `{{FrontSide}}<hr id=answer>{{Vocabulary-Audio}}{{#Sentence-Kana}}<br>{{Sentence-Kana}}{{/Sentence-Kana}}` +
		`<br><span style="font-size: 30px;">{{Vocabulary-English}}</span>` +
		`<br><span style="font-size: 40px;">{{furigana:Reading}}</span>` +
		`<br><span style="font-size: 25px;">{{Sentence-English}}</span><br>`

	// EN->JP notes carry the English prompt in Vocabulary-Kanji
	enJpFront = `<span style="font-size: 50px;">{{Vocabulary-Kanji}}</span>`
	enJpBack  = `{{FrontSide}}<hr id=answer>{{Vocabulary-Audio}}` +
		`<br><span style="font-size: 30px;">{{Vocabulary-Kana}}</span>` +
		`<br><span style="font-size: 40px;">{{furigana:Reading}}</span>` +
		`<br><span style="font-size: 25px;">{{Sentence-English}}</span>`
)

// modelID returns the note type id used for a direction
func (g *APKGGenerator) modelID(dir direction) int64 {
	if dir == englishToJapanese {
		return g.noteTypeID + 1
	}
	return g.noteTypeID
}

type modelField struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type modelTemplate struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	QFmt  string `json:"qfmt"`
	AFmt  string `json:"afmt"`
	DID   *int64 `json:"did"`
	BQFmt string `json:"bqfmt"`
	BAFmt string `json:"bafmt"`
}

// noteModel is one entry of col.models
type noteModel struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      int             `json:"type"`
	Mod       int64           `json:"mod"`
	USN       int             `json:"usn"`
	SortField int             `json:"sortf"`
	DID       int64           `json:"did"`
	Req       [][]any         `json:"req"`
	Vers      []int           `json:"vers"`
	Tags      []string        `json:"tags"`
	LatexPre  string          `json:"latexPre"`
	LatexPost string          `json:"latexPost"`
	Fields    []modelField    `json:"flds"`
	Templates []modelTemplate `json:"tmpls"`
	CSS       string          `json:"css"`
}

const latexPre = `\documentclass[12pt]{article}
\special{papersize=3in,5in}
\usepackage[utf8]{inputenc}
\usepackage{amssymb,amsmath}
\pagestyle{empty}
\setlength{\parindent}{0in}
\begin{document}`

// buildModel builds the Japanese note type for one direction. Both share
// the 18 fields and differ in id and template.
func (g *APKGGenerator) buildModel(dir direction, mod int64) noteModel {
	front, back := jpEnFront, jpEnBack
	if dir == englishToJapanese {
		front, back = enJpFront, enJpBack
	}

	fields := make([]modelField, len(FieldNames))
	for i, name := range FieldNames {
		fields[i] = modelField{Name: name, Ord: i, Font: "Arial", Size: 20, Media: []string{}}
	}

	return noteModel{
		ID:        g.modelID(dir),
		Name:      NoteTypeName,
		Mod:       mod,
		USN:       -1,
		DID:       g.deckID,
		Req:       [][]any{{0, "any", []int{FieldVocabularyKanji}}},
		Vers:      []int{},
		Tags:      []string{},
		LatexPre:  latexPre,
		LatexPost: `\end{document}`,
		Fields:    fields,
		Templates: []modelTemplate{{Name: "English Translate", QFmt: front, AFmt: back}},
		CSS:       cardCSS,
	}
}

// models returns both note types keyed by id, as stored in col.models
func (g *APKGGenerator) models(mod int64) map[string]noteModel {
	models := make(map[string]noteModel, 2)
	for _, dir := range []direction{japaneseToEnglish, englishToJapanese} {
		models[strconv.FormatInt(g.modelID(dir), 10)] = g.buildModel(dir, mod)
	}
	return models
}
