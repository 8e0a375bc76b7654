package processor

import (
	"context"
	"fmt"
	"path/filepath"

	"codeberg.org/snonux/kotoba/internal/anki"
	"codeberg.org/snonux/kotoba/internal/card"
	"codeberg.org/snonux/kotoba/internal/results"
)

// GenerateOptions controls the package written by Generate
type GenerateOptions struct {
	DeckName   string
	NoteTypeID int64
	WriteCSV   bool
	// Input is stored verbatim as input_vocabulary in the JSON report. The
	// cards are used when it is nil.
	Input any
}

// Output describes a finished generation run
type Output struct {
	Dir      string
	APKGPath string
	Result   *Result
}

// Generate processes cards into a new results directory and writes the Anki
// package, the JSON data and the summary next to the audio and media files
func (p *Processor) Generate(ctx context.Context, cards []card.Card, mgr *results.Manager, opts GenerateOptions) (*Output, error) {
	valid := ValidCards(cards)
	if len(valid) == 0 {
		return nil, ErrNoValidCards
	}

	dir, err := mgr.CreateResultsDir()
	if err != nil {
		return nil, err
	}
	p.log.Info("generating package", "cards", len(valid), "dir", dir)

	result, err := p.Process(ctx, valid, filepath.Join(dir, results.AudioDir), filepath.Join(dir, results.MediaDir))
	if err != nil {
		return nil, err
	}

	deckName := opts.DeckName
	if deckName == "" {
		deckName = anki.DefaultDeckName
	}
	generator := anki.NewAPKGGenerator(deckName, opts.NoteTypeID)
	for _, it := range result.Items {
		generator.AddItem(it)
	}

	apkgPath := filepath.Join(dir, results.PackageFile)
	if err := generator.GenerateAPKG(apkgPath); err != nil {
		return nil, fmt.Errorf("failed to create Anki package: %w", err)
	}

	input := opts.Input
	if input == nil {
		input = valid
	}
	if _, err := mgr.SaveJSON(dir, input, result.Items); err != nil {
		return nil, err
	}
	if _, err := mgr.SaveSummary(dir, result.Items); err != nil {
		return nil, err
	}
	if opts.WriteCSV {
		if err := anki.WriteCSV(filepath.Join(dir, results.CSVFile), dir, result.Items); err != nil {
			return nil, err
		}
	}

	p.log.Info("package generated", "path", apkgPath, "notes", generator.NoteCount(),
		"cards", result.TotalCards, "audio_files", result.TotalAudio)

	return &Output{Dir: dir, APKGPath: apkgPath, Result: result}, nil
}
