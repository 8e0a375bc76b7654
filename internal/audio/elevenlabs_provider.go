package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

const defaultElevenLabsURL = "https://api.elevenlabs.io"

// ElevenLabsProvider implements Provider for the ElevenLabs text-to-speech API
type ElevenLabsProvider struct {
	apiKey  string
	voiceID string
	modelID string
	baseURL string
	client  *http.Client
	cache   *Cache
}

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// NewElevenLabsProvider creates a new ElevenLabs TTS provider
func NewElevenLabsProvider(config *Config) (Provider, error) {
	if config.ElevenLabsKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key is required")
	}

	cache, err := NewCache(config.CacheDir)
	if err != nil {
		return nil, err
	}

	p := &ElevenLabsProvider{
		apiKey:  config.ElevenLabsKey,
		voiceID: config.ElevenLabsVoiceID,
		modelID: config.ElevenLabsModelID,
		baseURL: strings.TrimRight(config.ElevenLabsBaseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		cache:   cache,
	}
	if p.voiceID == "" {
		p.voiceID = DefaultVoiceID
	}
	if p.modelID == "" {
		p.modelID = DefaultModelID
	}
	if p.baseURL == "" {
		p.baseURL = defaultElevenLabsURL
	}
	return p, nil
}

// GenerateAudio converts text to speech and streams the mp3 into outputFile
func (p *ElevenLabsProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateJapaneseText(text); err != nil {
		return err
	}

	key := p.cache.Key("elevenlabs", text, p.voiceID, p.modelID, filepath.Base(outputFile))
	if p.cache.Fetch(key, outputFile) {
		return nil
	}

	body, err := json.Marshal(elevenLabsRequest{Text: text, ModelID: p.modelID})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", p.baseURL, url.PathEscape(p.voiceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	slog.Debug("ElevenLabs TTS request", "voice_id", p.voiceID, "model_id", p.modelID, "text", text)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ElevenLabs TTS API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("ElevenLabs TTS API error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := writeClip(outputFile, resp.Body, "ElevenLabs"); err != nil {
		return err
	}
	p.cache.Put(key, outputFile)
	return nil
}

// Name returns the provider name
func (p *ElevenLabsProvider) Name() string {
	return "elevenlabs"
}

// IsAvailable checks if the provider has credentials
func (p *ElevenLabsProvider) IsAvailable() error {
	if p.apiKey == "" {
		return fmt.Errorf("ElevenLabs API key not configured")
	}
	return nil
}
