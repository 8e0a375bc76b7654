package anki

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrEmptyDeck is returned when no item produced a note
var ErrEmptyDeck = errors.New("no notes were added to the deck, cannot create empty Anki package")

// DefaultDeckName is used when no deck name is configured
const DefaultDeckName = "Japanese Vocabulary"

// APKGGenerator collects notes and media and writes them as an Anki
// package (.apkg)
type APKGGenerator struct {
	deckName   string
	deckID     int64
	noteTypeID int64
	notes      []directedNote
	media      []string // source paths in insertion order
}

// NewAPKGGenerator creates a new APKG generator. A zero noteTypeID selects
// DefaultNoteTypeID.
func NewAPKGGenerator(deckName string, noteTypeID int64) *APKGGenerator {
	if deckName == "" {
		deckName = DefaultDeckName
	}
	if noteTypeID == 0 {
		noteTypeID = DefaultNoteTypeID
	}
	return &APKGGenerator{
		deckName:   deckName,
		deckID:     time.Now().Unix(),
		noteTypeID: noteTypeID,
	}
}

// AddItem adds the notes of one processed item and returns how many notes
// its generation mode produced
func (g *APKGGenerator) AddItem(it Item) int {
	n := BuildNote(it)
	notes := notesFor(it, n)
	g.notes = append(g.notes, notes...)
	g.media = append(g.media, n.Media...)
	return len(notes)
}

// NoteCount returns the number of notes added so far
func (g *APKGGenerator) NoteCount() int {
	return len(g.notes)
}

// GenerateAPKG writes the package to outputPath. The archive holds
// collection.anki2, the numbered media files and the media map.
func (g *APKGGenerator) GenerateAPKG(outputPath string) (err error) {
	if len(g.notes) == 0 {
		return ErrEmptyDeck
	}

	tmp, err := os.CreateTemp("", "kotoba-*.anki2")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	collection := tmp.Name()
	tmp.Close()
	defer os.Remove(collection)

	if err := g.writeCollection(collection); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(outputPath)
		}
	}()

	zw := zip.NewWriter(out)
	if err := addZipFile(zw, "collection.anki2", collection); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	if err := g.writeMedia(zw); err != nil {
		return fmt.Errorf("failed to add media files: %w", err)
	}
	return zw.Close()
}

// writeMedia stores every distinct media file under its number and
// finishes with the "media" map from number to file name. Files are keyed
// by base name; missing files are skipped.
func (g *APKGGenerator) writeMedia(zw *zip.Writer) error {
	mapping := make(map[string]string)
	seen := make(map[string]bool)

	for _, src := range g.media {
		name := filepath.Base(src)
		if seen[name] {
			continue
		}
		if _, err := os.Stat(src); err != nil {
			slog.Warn("media file missing, skipping", "file", src)
			continue
		}

		entry := strconv.Itoa(len(mapping))
		if err := addZipFile(zw, entry, src); err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}
		mapping[entry] = name
		seen[name] = true
	}

	w, err := zw.Create("media")
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(mapping)
}

func addZipFile(zw *zip.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
