package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/kotoba/internal"
)

func TestCreateRootCommand(t *testing.T) {
	t.Cleanup(viper.Reset)

	cmd := CreateRootCommand(NewFlags())

	if cmd.Use != "kotoba" {
		t.Errorf("Expected Use to be 'kotoba', got %s", cmd.Use)
	}
	if !strings.Contains(cmd.Short, "Japanese Anki Vocabulary Generator") {
		t.Errorf("Expected Short description to contain 'Japanese Anki Vocabulary Generator'")
	}
	if cmd.Version != internal.Version {
		t.Errorf("Version = %s, want %s", cmd.Version, internal.Version)
	}

	persistent := []string{
		"config", "log-level", "output", "store", "audio-provider", "voice-id", "model-id",
		"openai-model", "openai-voice", "openai-speed", "openai-instruction",
		"audio-cache", "deck-name", "note-type-id", "translation",
	}
	for _, name := range persistent {
		t.Run("flag_"+name, func(t *testing.T) {
			if cmd.PersistentFlags().Lookup(name) == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}

	subcommands := map[string][]string{
		"serve":    {"addr", "allowed-origin"},
		"generate": {"input", "csv"},
		"furigana": nil,
		"archive":  nil,
		"models":   nil,
		"cache":    nil,
	}
	for name, flags := range subcommands {
		t.Run("command_"+name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			if err != nil || sub.Name() != name {
				t.Fatalf("Expected subcommand %s, got %v (%v)", name, sub, err)
			}
			for _, flag := range flags {
				if sub.Flags().Lookup(flag) == nil {
					t.Errorf("Expected %s flag %s to exist", name, flag)
				}
			}
		})
	}
}

func TestVersionFlag(t *testing.T) {
	t.Cleanup(viper.Reset)

	cmd := CreateRootCommand(NewFlags())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), internal.Version) {
		t.Errorf("version output %q does not contain %s", out.String(), internal.Version)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{}
	setupFlags(cmd, NewFlags())

	pf := cmd.PersistentFlags()
	pf.Set("output", "/test/output")
	pf.Set("openai-model", "tts-1-hd")
	pf.Set("note-type-id", "42")

	if viper.GetString("output.directory") != "/test/output" {
		t.Errorf("Expected output.directory to be /test/output, got %s", viper.GetString("output.directory"))
	}
	if viper.GetString("audio.openai_model") != "tts-1-hd" {
		t.Errorf("Expected audio.openai_model to be tts-1-hd, got %s", viper.GetString("audio.openai_model"))
	}
	if viper.GetInt64("anki.note_type_id") != 42 {
		t.Errorf("Expected anki.note_type_id to be 42, got %d", viper.GetInt64("anki.note_type_id"))
	}
	// Unchanged flags still provide their defaults
	if viper.GetString("audio.voice_id") != "fUjY9K2nAIwlALOwSiwc" {
		t.Errorf("Expected default voice id, got %s", viper.GetString("audio.voice_id"))
	}
}
