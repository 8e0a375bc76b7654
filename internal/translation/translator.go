package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAPIKey is returned by constructors when the selected backend has
// no credentials
var ErrMissingAPIKey = errors.New("translation API key not found")

// Translator suggests an English translation for a Japanese word
type Translator interface {
	Translate(ctx context.Context, japanese string) (string, error)
}

// Config selects and configures the translation backend
type Config struct {
	Provider string // "openai", "gemini" or "" / "none" for disabled

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey   string
	GeminiModel string
}

// NewTranslator builds the configured translator wrapped in a cache. It
// returns nil without error when translation is disabled.
func NewTranslator(ctx context.Context, cfg Config) (Translator, error) {
	var (
		t   Translator
		err error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return nil, nil
	case "openai":
		t, err = NewOpenAITranslator(cfg)
	case "gemini":
		t, err = NewGeminiTranslator(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewCachedTranslator(t, NewTranslationCache()), nil
}

func prompt(word string) string {
	return fmt.Sprintf("Translate the Japanese word '%s' to English. "+
		"Respond with only the English translation, nothing else.", word)
}

// cleanTranslation strips whitespace and wrapping quotes from a model answer
func cleanTranslation(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
