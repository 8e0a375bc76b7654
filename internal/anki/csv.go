package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// csvAudioColumns is the number of audio file columns in the CSV export
const csvAudioColumns = 3

// WriteCSV writes items as a plain CSV for spreadsheet review or manual
// import. Audio paths are written relative to baseDir.
func WriteCSV(path, baseDir string, items []Item) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	headers := []string{"Kanji", "Reading (Hiragana)", "Furigana", "Translation"}
	for i := 1; i <= csvAudioColumns; i++ {
		headers = append(headers, fmt.Sprintf("Audio File %d", i))
	}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, it := range items {
		record := []string{it.Kanji, it.ReadingHiragana, it.ReadingFurigana, it.Translation}
		for i := 0; i < csvAudioColumns; i++ {
			record = append(record, relativeAudio(baseDir, it.AudioPaths, i))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write item: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func relativeAudio(baseDir string, paths []string, i int) string {
	if i >= len(paths) {
		return ""
	}
	if rel, err := filepath.Rel(baseDir, paths[i]); err == nil {
		return rel
	}
	return paths[i]
}

// Stats returns statistics about a set of processed items
func Stats(items []Item) (total, withKanji, audioFiles int) {
	total = len(items)
	for _, it := range items {
		if it.HasKanji() {
			withKanji++
		}
		audioFiles += len(it.AudioPaths) + len(it.SentenceAudioPaths)
	}
	return
}
