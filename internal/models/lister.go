package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrMissingAPIKey is returned when no OpenAI key is configured
var ErrMissingAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure audio.openai_key in .kotoba.yaml")

// maxChatModels limits the chat model listing to the most relevant entries
const maxChatModels = 10

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL uses the OpenAI
// API.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// Categories holds model ids grouped by use
type Categories struct {
	TTS  []string
	Chat []string
}

// Categorize sorts model ids into speech and chat models. Other models
// are dropped.
func Categorize(ids []string) Categories {
	var c Categories
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts"):
			c.TTS = append(c.TTS, id)
		case strings.Contains(id, "audio"), strings.Contains(id, "realtime"), strings.Contains(id, "transcribe"):
		case strings.Contains(id, "gpt"), strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		}
	}
	slices.Sort(c.TTS)
	slices.Sort(c.Chat)
	return c
}

// ListAvailableModels writes the speech and chat models available to the
// API key to w
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return ErrMissingAPIKey
	}

	list, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		ids = append(ids, model.ID)
	}
	printCategories(w, Categorize(ids))
	return nil
}

func printCategories(w io.Writer, c Categories) {
	fmt.Fprintln(w, "Available OpenAI Models:")

	fmt.Fprintln(w, "\nText-to-Speech (TTS) Models (audio.openai_model):")
	if len(c.TTS) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
	}
	for _, model := range c.TTS {
		fmt.Fprintf(w, "  %s\n", model)
	}

	fmt.Fprintln(w, "\nChat Models (translation suggestions):")
	if len(c.Chat) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	shown := c.Chat
	if len(shown) > maxChatModels {
		shown = slices.DeleteFunc(slices.Clone(shown), func(model string) bool {
			return !strings.HasPrefix(model, "gpt-4")
		})
		if len(shown) > maxChatModels {
			shown = shown[:maxChatModels]
		}
	}
	for _, model := range shown {
		fmt.Fprintf(w, "  %s\n", model)
	}
	if hidden := len(c.Chat) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "  ... and %d more models\n", hidden)
	}
}
