package audio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider string // Provider name: "elevenlabs" or "openai"

	// ElevenLabs settings
	ElevenLabsKey     string
	ElevenLabsVoiceID string
	ElevenLabsModelID string
	ElevenLabsBaseURL string

	// OpenAI settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "coral", "nova", "shimmer", ...
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model
	OpenAIBaseURL     string

	// Clip cache shared by both backends; empty disables it
	CacheDir string

	// Circuit breaker; zero values disable the breaker
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

const (
	DefaultVoiceID = "fUjY9K2nAIwlALOwSiwc"
	DefaultModelID = "eleven_multilingual_v2"
)

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "elevenlabs",
		ElevenLabsVoiceID: DefaultVoiceID,
		ElevenLabsModelID: DefaultModelID,
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "nova",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "You are speaking Japanese (日本語). Use natural standard Tokyo pitch accent. Speak slowly and clearly for language learners.",
		BreakerFailures:   3,
		BreakerTimeout:    30 * time.Second,
	}
}

// NewProvider creates the provider selected by config.Provider. When the
// other backend has credentials too it becomes the fallback. Each backend
// is wrapped in a circuit breaker unless BreakerFailures is 0.
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	var primaryName, fallbackName string
	switch config.Provider {
	case "elevenlabs", "":
		primaryName, fallbackName = "elevenlabs", "openai"
	case "openai":
		primaryName, fallbackName = "openai", "elevenlabs"
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}

	primary, err := newBackend(primaryName, config)
	if err != nil {
		return nil, err
	}
	if !hasKey(fallbackName, config) {
		return primary, nil
	}

	fallback, err := newBackend(fallbackName, config)
	if err != nil {
		return nil, err
	}
	return NewProviderWithFallback(primary, fallback), nil
}

func hasKey(name string, config *Config) bool {
	if name == "openai" {
		return config.OpenAIKey != ""
	}
	return config.ElevenLabsKey != ""
}

func newBackend(name string, config *Config) (Provider, error) {
	var (
		p   Provider
		err error
	)
	if name == "openai" {
		p, err = NewOpenAIProvider(config)
	} else {
		p, err = NewElevenLabsProvider(config)
	}
	if err != nil {
		return nil, err
	}

	if config.BreakerFailures == 0 {
		return p, nil
	}
	return NewBreakerProvider(p, config.BreakerFailures, config.BreakerTimeout), nil
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		slog.Warn("primary audio provider failed, falling back",
			"primary", p.primary.Name(),
			"fallback", p.fallback.Name(),
			"error", err)
		return p.fallback.GenerateAudio(ctx, text, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// GenerateVariants synthesizes text count times into dir as
// <base>_1.mp3 .. <base>_<count>.mp3 and returns the written paths.
func GenerateVariants(ctx context.Context, p Provider, text, base, dir string, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	paths := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.mp3", base, i))
		if err := p.GenerateAudio(ctx, text, path); err != nil {
			return paths, fmt.Errorf("variant %d of %q: %w", i, base, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
