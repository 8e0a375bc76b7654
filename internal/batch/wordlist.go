package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/kotoba/internal/card"
	"codeberg.org/snonux/kotoba/internal/furigana"
)

// ReadWordList reads cards from a plain text file with one word per line.
// Supported formats:
// - Kana only: "すし"
// - Kanji with reading: "歴史 れきし"
// - With translation: "歴史 れきし = history" or "すし = sushi"
//
// Kanji words get the bracket skeleton as furigana. Empty lines and lines
// starting with # are skipped.
func ReadWordList(filename string) ([]card.Card, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	defer file.Close()

	var cards []card.Card
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c, ok := parseLine(line); ok {
			cards = append(cards, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	return cards, nil
}

// parseLine converts one word list line. Lines without a Japanese word are
// ignored.
func parseLine(line string) (card.Card, bool) {
	japanese, translation, _ := strings.Cut(line, "=")
	translation = strings.TrimSpace(translation)

	fields := strings.Fields(japanese)
	if len(fields) == 0 {
		return card.Card{}, false
	}

	c := card.New()
	c.Translation = translation

	if furigana.ContainsKanji(fields[0]) {
		c.Kanji = fields[0]
		if !furigana.IsSingleKanji(c.Kanji) {
			c.Furigana = furigana.GenerateBrackets(c.Kanji)
		}
		if len(fields) > 1 {
			c.Reading = strings.Join(fields[1:], "")
		}
	} else {
		c.Reading = strings.Join(fields, "")
	}

	return c, true
}
