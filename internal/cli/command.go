package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/kotoba/internal"
)

// CreateRootCommand creates and configures the root cobra command with
// all subcommands
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kotoba",
		Short: "Japanese Anki Vocabulary Generator",
		Long: `kotoba turns Japanese vocabulary into Anki packages.

Cards carry a reading, an optional kanji spelling with furigana in the
漢[かん]字[じ] notation, a translation, an example sentence and image.
Audio is synthesized with ElevenLabs or OpenAI.

Examples:
  kotoba serve                        # Serve the card form API
  kotoba generate --input input.json  # Build a package from a file
  kotoba furigana '歴[れき]史[し]'     # Preview a furigana annotation
  kotoba archive                      # Move old results aside
  kotoba cache stats                  # Show the audio cache size`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newServeCommand(flags),
		newGenerateCommand(flags),
		newFuriganaCommand(),
		newArchiveCommand(),
		newModelsCommand(),
		newCacheCommand(),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.kotoba.yaml)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Results directory")
	pf.StringVar(&flags.StorePath, "store", flags.StorePath, "SQLite database for cards and settings")

	// Audio flags
	pf.StringVar(&flags.AudioProvider, "audio-provider", flags.AudioProvider, "TTS provider: elevenlabs or openai")
	pf.StringVar(&flags.VoiceID, "voice-id", flags.VoiceID, "ElevenLabs voice id")
	pf.StringVar(&flags.ModelID, "model-id", flags.ModelID, "ElevenLabs model id")
	pf.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	pf.StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, coral, echo, fable, onyx, nova, sage, shimmer")
	pf.Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	pf.StringVar(&flags.OpenAIInstruction, "openai-instruction", flags.OpenAIInstruction, "Voice instructions for gpt-4o-mini-tts model")
	pf.StringVar(&flags.AudioCacheDir, "audio-cache", flags.AudioCacheDir, "Directory caching synthesized clips (empty disables)")

	// Anki flags
	pf.StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	pf.Int64Var(&flags.NoteTypeID, "note-type-id", flags.NoteTypeID, "Anki note type id of the JP to EN model")

	pf.StringVar(&flags.TranslationProvider, "translation", flags.TranslationProvider, "Translation suggestions for cards without one: none, openai or gemini")

	bindFlagsToViper(pf)
}

// flagKeys maps flag names to their viper configuration keys
var flagKeys = map[string]string{
	"log-level":          "log.level",
	"output":             "output.directory",
	"store":              "store.path",
	"audio-provider":     "audio.provider",
	"voice-id":           "audio.voice_id",
	"model-id":           "audio.model_id",
	"openai-model":       "audio.openai_model",
	"openai-voice":       "audio.openai_voice",
	"openai-speed":       "audio.openai_speed",
	"openai-instruction": "audio.openai_instruction",
	"audio-cache":        "audio.cache_dir",
	"deck-name":          "anki.deck_name",
	"note-type-id":       "anki.note_type_id",
	"translation":        "translation.provider",
	"addr":               "server.addr",
	"allowed-origin":     "server.allowed_origins",
	"csv":                "output.csv",
}

func bindFlagsToViper(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = viper.BindPFlag(key, f)
		}
	})
}
