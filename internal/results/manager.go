// Package results manages the timestamped result directories that hold a
// generated package together with its audio, media and reports.
package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"codeberg.org/snonux/kotoba/internal/anki"
)

const (
	// DirLayout is the time layout of result directory names
	DirLayout = "2006-01-02_15-04-05"

	AudioDir = "Audio"
	MediaDir = "Media"

	PackageFile = "vocabulary.apkg"
	JSONFile    = "vocabulary_data.json"
	SummaryFile = "summary.txt"
	CSVFile     = "vocabulary.csv"
)

// ErrFileNotFound is returned when no result directory holds the file
var ErrFileNotFound = errors.New("file not found")

// Manager handles file operations below a base results directory
type Manager struct {
	BaseDir string
	now     func() time.Time
}

// NewManager creates a manager rooted at baseDir
func NewManager(baseDir string) *Manager {
	return &Manager{BaseDir: baseDir, now: time.Now}
}

// CreateResultsDir creates a new timestamped run directory with its Audio
// and Media subdirectories and returns its path
func (m *Manager) CreateResultsDir() (string, error) {
	name := m.now().Format(DirLayout)
	dir := filepath.Join(m.BaseDir, name)

	// Runs started within the same second get a numeric suffix
	for i := 2; ; i++ {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			break
		}
		dir = filepath.Join(m.BaseDir, fmt.Sprintf("%s_%d", name, i))
	}

	for _, sub := range []string{AudioDir, MediaDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return "", fmt.Errorf("failed to create results directory: %w", err)
		}
	}
	return dir, nil
}

// Metadata summarises a run
type Metadata struct {
	TotalWords        int `json:"total_words"`
	WordsWithKanji    int `json:"words_with_kanji"`
	WordsWithoutKanji int `json:"words_without_kanji"`
	TotalAudioFiles   int `json:"total_audio_files"`
}

// NewMetadata computes the run metadata of items
func NewMetadata(items []anki.Item) Metadata {
	total, withKanji, audioFiles := anki.Stats(items)
	return Metadata{
		TotalWords:        total,
		WordsWithKanji:    withKanji,
		WordsWithoutKanji: total - withKanji,
		TotalAudioFiles:   audioFiles,
	}
}

type vocabularyData struct {
	InputVocabulary any         `json:"input_vocabulary"`
	GeneratedItems  []anki.Item `json:"generated_items"`
	Metadata        Metadata    `json:"metadata"`
}

// SaveJSON writes the input, the generated items and the metadata to
// vocabulary_data.json in dir
func (m *Manager) SaveJSON(dir string, input any, items []anki.Item) (string, error) {
	data, err := json.MarshalIndent(vocabularyData{
		InputVocabulary: input,
		GeneratedItems:  items,
		Metadata:        NewMetadata(items),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode vocabulary data: %w", err)
	}

	path := filepath.Join(dir, JSONFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write vocabulary data: %w", err)
	}
	return path, nil
}

// SaveSummary writes a human-readable report to summary.txt in dir
func (m *Manager) SaveSummary(dir string, items []anki.Item) (string, error) {
	meta := NewMetadata(items)
	rule := strings.Repeat("=", 60)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nANKI VOCABULARY GENERATION SUMMARY\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Generated on: %s\n", m.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total words processed: %d\n", meta.TotalWords)
	fmt.Fprintf(&b, "Words with kanji: %d\n", meta.WordsWithKanji)
	fmt.Fprintf(&b, "Words without kanji: %d\n", meta.WordsWithoutKanji)
	fmt.Fprintf(&b, "Total audio files generated: %d\n", meta.TotalAudioFiles)
	fmt.Fprintf(&b, "\n%s\nVOCABULARY ITEMS\n%s\n\n", rule, rule)

	for i, it := range items {
		if it.HasKanji() {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, it.Kanji, it.ReadingHiragana)
		} else {
			fmt.Fprintf(&b, "%d. %s\n", i+1, it.ReadingHiragana)
		}
		fmt.Fprintf(&b, "   Furigana: %s\n", it.ReadingFurigana)
		fmt.Fprintf(&b, "   Translation: %s\n", it.Translation)
		fmt.Fprintf(&b, "   Audio files: %d files\n\n", len(it.AudioPaths)+len(it.SentenceAudioPaths))
	}

	path := filepath.Join(dir, SummaryFile)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return path, nil
}

// FindFile looks for name directly inside the run directories, newest run
// first. Names with path components are rejected.
func (m *Manager) FindFile(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrFileNotFound, name)
	}

	entries, err := os.ReadDir(m.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return "", err
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	// Timestamped names sort chronologically
	slices.Sort(dirs)
	slices.Reverse(dirs)

	for _, dir := range dirs {
		path := filepath.Join(m.BaseDir, dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
}
