package api

import (
	"net/http"

	"codeberg.org/snonux/kotoba/internal/store"
)

// ConfigResponse is the masked view of the runtime settings
type ConfigResponse struct {
	APIKeySet  bool   `json:"api_key_set"`
	VoiceID    string `json:"voice_id"`
	ModelID    string `json:"model_id"`
	NoteTypeID int64  `json:"note_type_id"`
}

type configRequest struct {
	APIKey  string `json:"api_key" validate:"max=256"`
	VoiceID string `json:"voice_id" validate:"required,max=128"`
	ModelID string `json:"model_id" validate:"required,max=128"`
}

// StatusResponse acknowledges requests that return no data
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.GetSettings(r.Context(), s.cfg.Defaults)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ConfigResponse{
		APIKeySet:  settings.APIKey != "",
		VoiceID:    settings.VoiceID,
		ModelID:    settings.ModelID,
		NoteTypeID: s.cfg.NoteTypeID,
	})
}

func (s *Server) updateConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	settings := store.Settings{APIKey: req.APIKey, VoiceID: req.VoiceID, ModelID: req.ModelID}
	if err := s.settings.SaveSettings(r.Context(), settings); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	s.log.Info("configuration updated", "voice_id", req.VoiceID, "model_id", req.ModelID, "api_key_set", req.APIKey != "")

	RespondWithJSON(w, r, http.StatusOK, StatusResponse{Success: true, Message: "Configuration updated"})
}
