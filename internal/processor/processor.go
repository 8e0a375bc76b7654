package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/snonux/kotoba/internal"
	"codeberg.org/snonux/kotoba/internal/anki"
	"codeberg.org/snonux/kotoba/internal/audio"
	"codeberg.org/snonux/kotoba/internal/card"
	"codeberg.org/snonux/kotoba/internal/furigana"
	"codeberg.org/snonux/kotoba/internal/translation"
)

var (
	// ErrNoValidCards is returned when every card is empty
	ErrNoValidCards = errors.New("no valid cards to generate")

	// ErrNoAudioProvider is returned when a card asks for audio but no TTS
	// provider is configured
	ErrNoAudioProvider = errors.New("audio requested but no TTS provider is configured")
)

// Processor handles the per-card processing logic
type Processor struct {
	audio      audio.Provider
	translator translation.Translator
	log        *slog.Logger
}

// NewProcessor creates a processor. A nil provider disables audio, a nil
// translator disables translation suggestions.
func NewProcessor(provider audio.Provider, translator translation.Translator) *Processor {
	return &Processor{
		audio:      provider,
		translator: translator,
		log:        slog.Default(),
	}
}

// Result is the outcome of processing a batch of cards
type Result struct {
	Items      []anki.Item
	TotalCards int
	TotalAudio int
}

// ValidCards drops cards without reading, kanji and translation
func ValidCards(cards []card.Card) []card.Card {
	var valid []card.Card
	for _, c := range cards {
		if !c.IsEmpty() {
			valid = append(valid, c)
		}
	}
	return valid
}

// Process turns the non-empty cards into items. Audio goes to audioDir and
// decoded sentence images to mediaDir. Cards are processed sequentially.
func (p *Processor) Process(ctx context.Context, cards []card.Card, audioDir, mediaDir string) (*Result, error) {
	valid := ValidCards(cards)
	if len(valid) == 0 {
		return nil, ErrNoValidCards
	}

	result := &Result{Items: make([]anki.Item, 0, len(valid))}
	for i, c := range valid {
		p.log.Info("processing card", "index", i+1, "total", len(valid), "kanji", c.Kanji, "reading", c.Reading)

		item, err := p.ProcessCard(ctx, c, audioDir, mediaDir)
		if err != nil {
			return nil, fmt.Errorf("card %d (%s): %w", i+1, cardLabel(c), err)
		}
		result.Items = append(result.Items, item)
		result.TotalAudio += len(item.AudioPaths) + len(item.SentenceAudioPaths)
	}
	result.TotalCards = len(result.Items)

	return result, nil
}

// ProcessCard converts a single card into an item
func (p *Processor) ProcessCard(ctx context.Context, c card.Card, audioDir, mediaDir string) (anki.Item, error) {
	kanji := strings.TrimSpace(c.Kanji)
	reading := strings.TrimSpace(c.Reading)

	item := anki.Item{
		Kanji:           kanji,
		ReadingHiragana: NormalizeReading(reading),
		Translation:     strings.TrimSpace(c.Translation),
		SentenceKana:    strings.TrimSpace(c.SentenceKana),
		SentenceEnglish: strings.TrimSpace(c.SentenceEnglish),
		GenerationMode:  c.GenerationMode,
	}
	if item.GenerationMode == "" {
		item.GenerationMode = card.ModeBoth
	}

	item.ReadingFurigana = ResolveFurigana(kanji, c.Furigana, item.ReadingHiragana)

	if item.Translation == "" && p.translator != nil {
		item.Translation = p.suggestTranslation(ctx, kanji, item.ReadingHiragana)
	}

	if c.SentenceImage != "" {
		path, err := SaveDataURLImage(c.SentenceImage, mediaDir)
		if err != nil {
			p.log.Warn("failed to process sentence image", "kanji", kanji, "reading", reading, "error", err)
		} else {
			item.SentenceImage = path
		}
	}

	if c.HasAudio() {
		if p.audio == nil {
			return item, ErrNoAudioProvider
		}

		base := AudioBaseName(kanji, reading, item.ReadingHiragana)
		speech := item.ReadingHiragana
		if speech == "" {
			speech = kanji
		}

		paths, err := audio.GenerateVariants(ctx, p.audio, speech, base, audioDir, *c.AudioCount)
		if err != nil {
			return item, err
		}
		item.AudioPaths = paths

		if item.SentenceKana != "" {
			paths, err := audio.GenerateVariants(ctx, p.audio, item.SentenceKana, base+"_sentence", audioDir, *c.AudioCount)
			if err != nil {
				return item, err
			}
			item.SentenceAudioPaths = paths
		}
	}

	return item, nil
}

func (p *Processor) suggestTranslation(ctx context.Context, kanji, reading string) string {
	word := kanji
	if word == "" {
		word = reading
	}
	if word == "" {
		return ""
	}

	translated, err := p.translator.Translate(ctx, word)
	if err != nil {
		p.log.Warn("translation failed", "word", word, "error", err)
		return ""
	}
	p.log.Info("suggested translation", "word", word, "translation", translated)
	return translated
}

// NormalizeReading keeps pure katakana readings and converts everything
// else to hiragana
func NormalizeReading(reading string) string {
	if furigana.IsPureKatakana(reading) {
		return reading
	}
	return furigana.ToHiragana(reading)
}

// ResolveFurigana returns the annotation stored with the note. With kanji
// it is the edited annotation without unfilled skeleton pairs, or the bare
// kanji when no reading was entered. Without kanji it is the plain reading.
func ResolveFurigana(kanji, annotation, reading string) string {
	if kanji == "" {
		return reading
	}
	if resolved := furigana.DropEmptyReadings(strings.TrimSpace(annotation)); resolved != "" {
		return resolved
	}
	return kanji
}

// AudioBaseName returns the file name stem for audio variants:
// kanji(reading), the katakana reading, or the hiragana reading
func AudioBaseName(kanji, reading, readingHiragana string) string {
	var base string
	switch {
	case kanji != "":
		base = fmt.Sprintf("%s(%s)", kanji, readingHiragana)
	case furigana.IsKatakana(reading):
		base = reading
	default:
		base = readingHiragana
	}
	return internal.SanitizeFilename(base)
}

func cardLabel(c card.Card) string {
	for _, s := range []string{c.Kanji, c.Reading, c.Translation} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return c.ID
}
