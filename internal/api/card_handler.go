package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"codeberg.org/snonux/kotoba/internal/card"
)

type updateRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// cardRequest is the editable part of a card for full replacements
type cardRequest struct {
	Reading         string `json:"reading"`
	Kanji           string `json:"kanji"`
	Furigana        string `json:"furigana"`
	Translation     string `json:"translation"`
	SentenceKana    string `json:"sentence_kana"`
	SentenceEnglish string `json:"sentence_english"`
	SentenceImage   string `json:"sentence_image"`
	AudioCount      *int   `json:"audio_count" validate:"omitempty,min=1"`
	GenerationMode  string `json:"generation_mode" validate:"omitempty,oneof=both jp_en en_jp"`
}

func (req cardRequest) card() card.Card {
	return card.Card{
		Reading:         req.Reading,
		Kanji:           req.Kanji,
		Furigana:        req.Furigana,
		Translation:     req.Translation,
		SentenceKana:    req.SentenceKana,
		SentenceEnglish: req.SentenceEnglish,
		SentenceImage:   req.SentenceImage,
		AudioCount:      req.AudioCount,
		GenerationMode:  card.GenerationMode(req.GenerationMode),
	}
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, s.session.Cards())
}

// createCard appends a card. The optional body fills in its fields.
func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	var req *cardRequest
	if err := DecodeJSON(w, r, &req, true); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if req != nil {
		if err := ValidateRequest(req); err != nil {
			HandleAPIError(w, r, err)
			return
		}
	}

	c, err := s.session.Add(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if req != nil {
		if c, err = s.session.Replace(r.Context(), c.ID, req.card()); err != nil {
			HandleAPIError(w, r, err)
			return
		}
	}

	RespondWithJSON(w, r, http.StatusCreated, c)
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.session.Get(chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, c)
}

func (s *Server) updateCard(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	c, err := s.session.Update(r.Context(), chi.URLParam(r, "id"), card.Update{
		Field: card.Field(req.Field),
		Value: req.Value,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, c)
}

func (s *Server) replaceCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	c, err := s.session.Replace(r.Context(), chi.URLParam(r, "id"), req.card())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, c)
}

func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, s.session.History())
}

func (s *Server) restoreCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.session.Restore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, c)
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ClearHistory(r.Context()); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
