package audio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider synthesizes speech with the OpenAI audio API
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	voice       string
	speed       float64
	instruction string
	cache       *Cache
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	cache, err := NewCache(config.CacheDir)
	if err != nil {
		return nil, err
	}

	p := &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.OpenAIModel,
		voice:  config.OpenAIVoice,
		speed:  config.OpenAISpeed,
		cache:  cache,
	}
	if supportsInstructions(p.model) {
		p.instruction = config.OpenAIInstruction
	}
	return p, nil
}

func supportsInstructions(model string) bool {
	return model == "gpt-4o-mini-tts" || model == "gpt-4o-mini-audio-preview"
}

var speechFormats = map[string]openai.SpeechResponseFormat{
	".mp3":  openai.SpeechResponseFormatMp3,
	".wav":  openai.SpeechResponseFormatWav,
	".opus": openai.SpeechResponseFormatOpus,
	".aac":  openai.SpeechResponseFormatAac,
	".flac": openai.SpeechResponseFormatFlac,
}

// GenerateAudio synthesizes text into outputFile. Files without a known
// audio extension get .mp3 appended.
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateJapaneseText(text); err != nil {
		return err
	}

	format, ok := speechFormats[strings.ToLower(filepath.Ext(outputFile))]
	if !ok {
		format = openai.SpeechResponseFormatMp3
		outputFile += ".mp3"
	}

	key := p.cache.Key("openai", text, p.model, p.voice,
		strconv.FormatFloat(p.speed, 'f', 2, 64), p.instruction, filepath.Base(outputFile))
	if p.cache.Fetch(key, outputFile) {
		return nil
	}

	input := speechInput(text)
	slog.Debug("OpenAI TTS request", "model", p.model, "voice", p.voice, "speed", p.speed, "input", input)

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.model),
		Input:          input,
		Voice:          openai.SpeechVoice(p.voice),
		Speed:          p.speed,
		Instructions:   p.instruction,
		ResponseFormat: format,
	})
	if err != nil {
		if p.instruction != "" && strings.Contains(err.Error(), "does not have access to model") {
			return fmt.Errorf("OpenAI TTS API error: %w (the %s model requires access, try --openai-model tts-1-hd)", err, p.model)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer resp.Close()

	if err := writeClip(outputFile, resp, "OpenAI"); err != nil {
		return err
	}
	p.cache.Put(key, outputFile)
	return nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable reports whether the client is configured. It does not call
// the API.
func (p *OpenAIProvider) IsAvailable() error {
	if p.client == nil {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// Cache returns the clip cache, nil when caching is disabled
func (p *OpenAIProvider) Cache() *Cache {
	return p.cache
}

// quoteMarks are dropped before synthesis
var quoteMarks = strings.NewReplacer(
	"「", "", "」", "", "『", "", "』", "",
	"（", "", "）", "", "(", "", ")", "",
	"[", "", "]", "", "\"", "",
)

// speechInput strips quoting and brackets. Sentence punctuation such as
// 。 and 、 is kept for prosody.
func speechInput(text string) string {
	return strings.TrimSpace(quoteMarks.Replace(strings.TrimSpace(text)))
}
