package cli

import (
	"os"
	"path/filepath"

	"codeberg.org/snonux/kotoba/internal/anki"
	"codeberg.org/snonux/kotoba/internal/audio"
)

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile   string
	LogLevel  string
	OutputDir string
	StorePath string

	// Audio flags
	AudioProvider     string
	VoiceID           string
	ModelID           string
	OpenAIModel       string
	OpenAIVoice       string
	OpenAISpeed       float64
	OpenAIInstruction string
	AudioCacheDir     string

	// Anki flags
	DeckName   string
	NoteTypeID int64

	TranslationProvider string

	// serve
	Addr           string
	AllowedOrigins []string

	// generate
	InputFile string
	WriteCSV  bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	defaults := audio.DefaultProviderConfig()
	state := defaultStateDir()

	return &Flags{
		LogLevel:            "info",
		OutputDir:           filepath.Join(state, "results"),
		StorePath:           filepath.Join(state, "kotoba.db"),
		AudioProvider:       defaults.Provider,
		VoiceID:             defaults.ElevenLabsVoiceID,
		ModelID:             defaults.ElevenLabsModelID,
		OpenAIModel:         defaults.OpenAIModel,
		OpenAIVoice:         defaults.OpenAIVoice,
		OpenAISpeed:         defaults.OpenAISpeed,
		OpenAIInstruction:   defaults.OpenAIInstruction,
		AudioCacheDir:       filepath.Join(state, "audio-cache"),
		DeckName:            anki.DefaultDeckName,
		NoteTypeID:          anki.DefaultNoteTypeID,
		TranslationProvider: "none",
		Addr:                "127.0.0.1:8000",
		AllowedOrigins:      []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		InputFile:           "input.json",
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".kotoba")
	}
	return filepath.Join(home, ".local", "state", "kotoba")
}
