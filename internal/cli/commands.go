package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/kotoba/internal/api"
	"codeberg.org/snonux/kotoba/internal/audio"
	"codeberg.org/snonux/kotoba/internal/batch"
	"codeberg.org/snonux/kotoba/internal/card"
	"codeberg.org/snonux/kotoba/internal/furigana"
	"codeberg.org/snonux/kotoba/internal/logger"
	"codeberg.org/snonux/kotoba/internal/models"
	"codeberg.org/snonux/kotoba/internal/processor"
	"codeberg.org/snonux/kotoba/internal/results"
	"codeberg.org/snonux/kotoba/internal/store"
)

func newServeCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API for the card form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")
	cmd.Flags().StringSliceVar(&flags.AllowedOrigins, "allowed-origin", flags.AllowedOrigins, "Origins allowed to call the API")
	bindFlagsToViper(cmd.Flags())

	return cmd
}

func runServe(ctx context.Context) error {
	log := logger.Setup(viper.GetString("log.level"))

	st, err := store.New(viper.GetString("store.path"))
	if err != nil {
		return err
	}
	defer st.Close()

	session, err := card.NewSession(ctx, st)
	if err != nil {
		return err
	}

	cfg := api.Config{
		AllowedOrigins: viper.GetStringSlice("server.allowed_origins"),
		DeckName:       viper.GetString("anki.deck_name"),
		NoteTypeID:     viper.GetInt64("anki.note_type_id"),
		Defaults:       DefaultSettings(),
	}
	factory := NewProcessorFactory(AudioConfig(), TranslationConfig())
	mgr := results.NewManager(viper.GetString("output.directory"))

	server := api.NewServer(cfg, session, st, mgr, factory, log)
	return server.Run(ctx, viper.GetString("server.addr"))
}

func newGenerateCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an Anki package from an input file",
		Long: `Generate reads vocabulary from an input.json file ({"vocabulary": [...]})
or a plain text word list (.txt, one "kanji reading = translation" per line)
and writes the package, audio, JSON data and summary to a new timestamped
results directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), flags.InputFile)
		},
	}

	cmd.Flags().StringVarP(&flags.InputFile, "input", "i", flags.InputFile, "Input file (.json or .txt)")
	cmd.Flags().BoolVar(&flags.WriteCSV, "csv", false, "Also write vocabulary.csv")
	bindFlagsToViper(cmd.Flags())

	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, inputFile string) error {
	logger.SetupText(os.Stderr, viper.GetString("log.level"))

	cards, err := batch.LoadInput(inputFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d vocabulary items from %s\n", len(cards), inputFile)

	withAudio := 0
	for _, c := range cards {
		if c.HasAudio() {
			withAudio++
		}
	}
	fmt.Fprintf(out, "Words with audio generation enabled: %d/%d\n", withAudio, len(cards))

	proc, err := NewProcessorFactory(AudioConfig(), TranslationConfig())(ctx, DefaultSettings())
	if err != nil {
		return err
	}

	mgr := results.NewManager(viper.GetString("output.directory"))
	result, err := proc.Generate(ctx, cards, mgr, processor.GenerateOptions{
		DeckName:   viper.GetString("anki.deck_name"),
		NoteTypeID: viper.GetInt64("anki.note_type_id"),
		WriteCSV:   viper.GetBool("output.csv"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nGenerated %d cards with %d audio files\n", result.Result.TotalCards, result.Result.TotalAudio)
	fmt.Fprintf(out, "Anki package created: %s\n", result.APKGPath)
	fmt.Fprintf(out, "Done! Results saved to: %s\n", result.Dir)
	return nil
}

func newFuriganaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "furigana <text>",
		Short: "Show the skeleton, segments and ruby HTML of a furigana annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printFurigana(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

// printFurigana shows the skeleton of the kanji spelling, the parsed pairs
// and the ruby HTML of text. Annotated input is reduced to its bases for
// the skeleton.
func printFurigana(w io.Writer, text string) {
	segments := furigana.Parse(text)

	spelling := text
	if len(segments) > 0 {
		var b strings.Builder
		for _, seg := range segments {
			b.WriteString(seg.Base)
		}
		spelling = b.String()
	}
	fmt.Fprintf(w, "Skeleton: %s\n", furigana.GenerateBrackets(spelling))

	fmt.Fprintf(w, "Segments: %d\n", len(segments))
	for i, seg := range segments {
		fmt.Fprintf(w, "  %d. %s -> %s\n", i+1, seg.Base, seg.Reading)
	}

	fmt.Fprintf(w, "HTML: %s\n", furigana.Render(text).HTML())
}

func newArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move the results directory to the archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.SetupText(os.Stderr, viper.GetString("log.level"))

			path, err := results.NewManager(viper.GetString("output.directory")).Archive()
			if err != nil {
				return fmt.Errorf("failed to archive results: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived results to: %s\n", path)
			return nil
		},
	}
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the OpenAI TTS and chat models available to the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lister := models.NewLister(GetOpenAIKey(), viper.GetString("audio.openai_base_url"))
			return lister.ListAvailableModels(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the synthesized audio cache",
	}

	openCache := func() (*audio.Cache, error) {
		dir := viper.GetString("audio.cache_dir")
		if dir == "" {
			return nil, fmt.Errorf("audio cache is disabled")
		}
		return audio.NewCache(dir)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show the number and size of cached clips",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cache, err := openCache()
				if err != nil {
					return err
				}
				files, size, err := cache.Stats()
				if err != nil {
					return fmt.Errorf("failed to read audio cache: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cached clips: %d (%.1f KiB) in %s\n", files, float64(size)/1024, viper.GetString("audio.cache_dir"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached clip",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cache, err := openCache()
				if err != nil {
					return err
				}
				if err := cache.Clear(); err != nil {
					return fmt.Errorf("failed to clear audio cache: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Audio cache cleared")
				return nil
			},
		},
	)
	return cmd
}
