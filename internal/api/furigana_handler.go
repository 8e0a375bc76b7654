package api

import (
	"net/http"

	"codeberg.org/snonux/kotoba/internal/furigana"
)

type renderRequest struct {
	Annotation string `json:"annotation" validate:"max=4096"`
}

// RenderResponse carries the preview of an annotation string. Text is set
// when the string holds no pairs, Nodes otherwise.
type RenderResponse struct {
	Text  *string             `json:"text,omitempty"`
	Nodes []furigana.RubyNode `json:"nodes,omitempty"`
	HTML  string              `json:"html"`
}

type skeletonRequest struct {
	Kanji string `json:"kanji" validate:"max=256"`
}

// SkeletonResponse carries the bracket skeleton of a kanji spelling
type SkeletonResponse struct {
	Furigana string `json:"furigana"`
}

func (s *Server) renderFurigana(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	markup := furigana.Render(req.Annotation)
	resp := RenderResponse{HTML: markup.HTML()}
	if markup.IsText() {
		resp.Text = &markup.Text
	} else {
		resp.Nodes = markup.Nodes
	}
	RespondWithJSON(w, r, http.StatusOK, resp)
}

func (s *Server) furiganaSkeleton(w http.ResponseWriter, r *http.Request) {
	var req skeletonRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, SkeletonResponse{Furigana: furigana.GenerateBrackets(req.Kanji)})
}
