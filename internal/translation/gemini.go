package translation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// contentGenerator is the subset of *genai.Models used here
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiTranslator translates with a Gemini model
type GeminiTranslator struct {
	models contentGenerator
	model  string
}

// NewGeminiTranslator creates a Gemini API client
func NewGeminiTranslator(ctx context.Context, cfg Config) (*GeminiTranslator, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiTranslator{models: client.Models, model: model}, nil
}

// Translate translates a Japanese word to English
func (t *GeminiTranslator) Translate(ctx context.Context, word string) (string, error) {
	resp, err := t.models.GenerateContent(ctx, t.model, genai.Text(prompt(word)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.3),
			MaxOutputTokens: 50,
		})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := cleanTranslation(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return text, nil
}
