package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/kotoba/internal/audio"
	"codeberg.org/snonux/kotoba/internal/processor"
	"codeberg.org/snonux/kotoba/internal/store"
	"codeberg.org/snonux/kotoba/internal/translation"
)

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".kotoba" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".kotoba")
	}

	// Environment variables, KOTOBA_AUDIO_PROVIDER maps to audio.provider
	viper.SetEnvPrefix("KOTOBA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// envOrConfig returns the environment variable env, falling back to the
// config key
func envOrConfig(env, key string) string {
	if value := os.Getenv(env); value != "" {
		return value
	}
	return viper.GetString(key)
}

// GetElevenLabsKey retrieves the ElevenLabs API key from environment or config
func GetElevenLabsKey() string {
	return envOrConfig("ELEVENLABS_API_KEY", "audio.elevenlabs_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	return envOrConfig("OPENAI_API_KEY", "audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	return envOrConfig("GEMINI_API_KEY", "translation.gemini_key")
}

// AudioConfig builds the TTS configuration from flags, config and
// environment
func AudioConfig() *audio.Config {
	cfg := audio.DefaultProviderConfig()

	cfg.Provider = viper.GetString("audio.provider")
	cfg.ElevenLabsKey = GetElevenLabsKey()
	cfg.ElevenLabsVoiceID = viper.GetString("audio.voice_id")
	cfg.ElevenLabsModelID = viper.GetString("audio.model_id")
	cfg.ElevenLabsBaseURL = viper.GetString("audio.elevenlabs_base_url")

	cfg.OpenAIKey = GetOpenAIKey()
	cfg.OpenAIModel = viper.GetString("audio.openai_model")
	cfg.OpenAIVoice = viper.GetString("audio.openai_voice")
	cfg.OpenAIInstruction = viper.GetString("audio.openai_instruction")
	cfg.OpenAIBaseURL = viper.GetString("audio.openai_base_url")
	if speed := viper.GetFloat64("audio.openai_speed"); speed > 0 {
		cfg.OpenAISpeed = speed
	}

	cfg.CacheDir = viper.GetString("audio.cache_dir")

	if viper.IsSet("audio.breaker_failures") {
		cfg.BreakerFailures = viper.GetUint32("audio.breaker_failures")
	}
	if timeout := viper.GetDuration("audio.breaker_timeout"); timeout > 0 {
		cfg.BreakerTimeout = timeout
	}

	return cfg
}

// TranslationConfig builds the translation configuration
func TranslationConfig() translation.Config {
	return translation.Config{
		Provider:      viper.GetString("translation.provider"),
		OpenAIKey:     GetOpenAIKey(),
		OpenAIModel:   viper.GetString("translation.openai_model"),
		OpenAIBaseURL: viper.GetString("audio.openai_base_url"),
		GeminiKey:     GetGeminiKey(),
		GeminiModel:   viper.GetString("translation.gemini_model"),
	}
}

// DefaultSettings returns the runtime audio settings used until they are
// changed through the API
func DefaultSettings() store.Settings {
	return store.Settings{
		APIKey:  GetElevenLabsKey(),
		VoiceID: viper.GetString("audio.voice_id"),
		ModelID: viper.GetString("audio.model_id"),
	}
}

// NewAudioProvider creates the configured TTS provider. Without any API key
// it returns nil and audio generation stays disabled. A primary provider
// without key hands over to the one that has a key.
func NewAudioProvider(cfg *audio.Config) (audio.Provider, error) {
	switch cfg.Provider {
	case "", "elevenlabs", "openai":
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", cfg.Provider)
	}

	if cfg.ElevenLabsKey == "" && cfg.OpenAIKey == "" {
		slog.Warn("no TTS API key configured, audio generation is disabled")
		return nil, nil
	}

	c := *cfg
	switch {
	case c.Provider == "openai" && c.OpenAIKey == "":
		c.Provider = "elevenlabs"
	case c.Provider != "openai" && c.ElevenLabsKey == "":
		c.Provider = "openai"
	}
	return audio.NewProvider(&c)
}

// NewProcessorFactory returns a factory building processors for runtime
// settings on top of the static audio and translation configuration
func NewProcessorFactory(audioCfg *audio.Config, translationCfg translation.Config) func(context.Context, store.Settings) (*processor.Processor, error) {
	return func(ctx context.Context, settings store.Settings) (*processor.Processor, error) {
		cfg := *audioCfg
		cfg.ElevenLabsKey = settings.APIKey
		cfg.ElevenLabsVoiceID = settings.VoiceID
		cfg.ElevenLabsModelID = settings.ModelID

		provider, err := NewAudioProvider(&cfg)
		if err != nil {
			return nil, err
		}

		translator, err := translation.NewTranslator(ctx, translationCfg)
		if err != nil {
			return nil, err
		}

		return processor.NewProcessor(provider, translator), nil
	}
}
