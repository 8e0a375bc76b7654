package anki

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocabulary.csv")

	items := []Item{
		{
			Kanji:           "歴史",
			ReadingHiragana: "れきし",
			ReadingFurigana: "歴[れき]史[し]",
			Translation:     "history, \"past\"",
			AudioPaths: []string{
				filepath.Join(dir, "Audio", "歴史(れきし)_1.mp3"),
				filepath.Join(dir, "Audio", "歴史(れきし)_2.mp3"),
			},
		},
		{ReadingHiragana: "すし", ReadingFurigana: "すし", Translation: "sushi"},
	}

	if err := WriteCSV(path, dir, items); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d", len(records))
	}
	if len(records[0]) != 7 || records[0][4] != "Audio File 1" {
		t.Errorf("unexpected header %v", records[0])
	}

	row := records[1]
	if row[0] != "歴史" || row[3] != "history, \"past\"" {
		t.Errorf("unexpected row %v", row)
	}
	if row[4] != filepath.Join("Audio", "歴史(れきし)_1.mp3") || row[6] != "" {
		t.Errorf("audio columns = %v", row[4:])
	}
	if records[2][0] != "" || records[2][1] != "すし" {
		t.Errorf("unexpected kana row %v", records[2])
	}
}

func TestStats(t *testing.T) {
	items := []Item{
		{Kanji: "歴史", AudioPaths: []string{"a", "b"}, SentenceAudioPaths: []string{"c"}},
		{ReadingHiragana: "すし", AudioPaths: []string{"d"}},
		{ReadingHiragana: "ねこ"},
	}

	total, withKanji, audioFiles := Stats(items)
	if total != 3 || withKanji != 1 || audioFiles != 4 {
		t.Errorf("Stats() = %d, %d, %d; want 3, 1, 4", total, withKanji, audioFiles)
	}
}
