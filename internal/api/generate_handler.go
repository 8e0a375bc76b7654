package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"codeberg.org/snonux/kotoba/internal/batch"
	"codeberg.org/snonux/kotoba/internal/card"
	"codeberg.org/snonux/kotoba/internal/processor"
)

type generateRequest struct {
	// Cards in the input.json item shape. The current session is used when
	// the field is omitted.
	Cards []batch.Entry `json:"cards"`
}

// GenerateResponse reports a finished generation run
type GenerateResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	APKGPath        string `json:"apkg_path,omitempty"`
	APKGFile        string `json:"apkg_file,omitempty"`
	TotalCards      int    `json:"total_cards"`
	TotalAudioFiles int    `json:"total_audio_files"`
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := DecodeJSON(w, r, &req, true); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	cards, input, err := s.generationInput(req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	s.generateMu.Lock()
	defer s.generateMu.Unlock()

	proc, err := s.processorFor(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	out, err := proc.Generate(r.Context(), cards, s.results, processor.GenerateOptions{
		DeckName:   s.cfg.DeckName,
		NoteTypeID: s.cfg.NoteTypeID,
		Input:      input,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		Success:         true,
		Message:         fmt.Sprintf("Successfully generated %d cards", out.Result.TotalCards),
		APKGPath:        out.APKGPath,
		APKGFile:        filepath.Base(out.APKGPath),
		TotalCards:      out.Result.TotalCards,
		TotalAudioFiles: out.Result.TotalAudio,
	})
}

// generationInput returns the cards to generate and the value recorded as
// input_vocabulary
func (s *Server) generationInput(req generateRequest) ([]card.Card, any, error) {
	if req.Cards == nil {
		cards := s.session.Cards()
		return cards, map[string]any{"vocabulary": cards}, nil
	}
	if len(req.Cards) == 0 {
		return nil, nil, fmt.Errorf("%w: no cards provided", batch.ErrNoVocabulary)
	}

	cards := make([]card.Card, 0, len(req.Cards))
	for i, e := range req.Cards {
		c, err := e.Card()
		if err != nil {
			return nil, nil, fmt.Errorf("card %d: %w", i+1, err)
		}
		cards = append(cards, c)
	}
	return cards, map[string]any{"vocabulary": req.Cards}, nil
}

// processorFor returns the processor for the current settings, rebuilding
// it only when the settings changed so circuit breaker state survives
// between runs. Callers must hold generateMu.
func (s *Server) processorFor(ctx context.Context) (*processor.Processor, error) {
	settings, err := s.settings.GetSettings(ctx, s.cfg.Defaults)
	if err != nil {
		return nil, err
	}
	if s.processor != nil && settings == s.processorSettings {
		return s.processor, nil
	}

	proc, err := s.newProcessor(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}
	s.processor, s.processorSettings = proc, settings
	return proc, nil
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if unescaped, err := url.PathUnescape(filename); err == nil {
		filename = unescaped
	}

	path, err := s.results.FindFile(filename)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}
