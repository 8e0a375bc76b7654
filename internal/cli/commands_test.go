package cli

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"codeberg.org/snonux/kotoba/internal/results"
	"codeberg.org/snonux/kotoba/internal/testutil"
)

// executeCommand runs the root command with args against a temporary
// results directory and returns its output
func executeCommand(t *testing.T, outputDir string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cmd := CreateRootCommand(NewFlags())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--output", outputDir, "--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestFuriganaCommand(t *testing.T) {
	out, err := executeCommand(t, t.TempDir(), "furigana", "歴[れき]史[し]")
	if err != nil {
		t.Fatalf("furigana command failed: %v", err)
	}

	for _, want := range []string{
		"Skeleton: 歴[]史[]",
		"Segments: 2",
		"  1. 歴 -> れき",
		"  2. 史 -> し",
		"HTML: <ruby>歴<rt>れき</rt></ruby><ruby>史<rt>し</rt></ruby>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintFuriganaPlainKanji(t *testing.T) {
	var out bytes.Buffer
	printFurigana(&out, "日本語")

	want := "Skeleton: 日[]本[]語[]\nSegments: 0\nHTML: 日本語\n"
	if out.String() != want {
		t.Errorf("printFurigana() = %q, want %q", out.String(), want)
	}
}

func TestGenerateCommand(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "results")
	input := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, input, []byte("歴史 れきし = history\nすし = sushi\n"))

	out, err := executeCommand(t, outputDir, "generate", "--input", input, "--csv")
	if err != nil {
		t.Fatalf("generate command failed: %v\n%s", err, out)
	}

	if !strings.Contains(out, "Loaded 2 vocabulary items") || !strings.Contains(out, "Generated 2 cards with 0 audio files") {
		t.Errorf("unexpected output:\n%s", out)
	}

	path, err := results.NewManager(outputDir).FindFile(results.PackageFile)
	if err != nil {
		t.Fatalf("package not written: %v", err)
	}
	testutil.AssertFileExists(t, filepath.Join(filepath.Dir(path), results.CSVFile))
	testutil.AssertFileContains(t, filepath.Join(filepath.Dir(path), results.SummaryFile), "Furigana: 歴史\n")
}

func TestGenerateCommandErrors(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "results")

	if _, err := executeCommand(t, outputDir, "generate", "--input", "/nonexistent/input.json"); err == nil {
		t.Error("Expected error for missing input file")
	}

	input := filepath.Join(t.TempDir(), "input.json")
	testutil.CreateTestFile(t, input, []byte(`{"vocabulary": [{"reading": "すし", "audio_count": 1}]}`))
	if _, err := executeCommand(t, outputDir, "generate", "--input", input); err == nil ||
		!strings.Contains(err.Error(), "no TTS provider") {
		t.Errorf("Expected missing provider error, got %v", err)
	}
}

func TestArchiveCommand(t *testing.T) {
	base, _ := testutil.CreateResultsTree(t, "2026-10-19_10-00-00")

	out, err := executeCommand(t, base, "archive")
	if err != nil {
		t.Fatalf("archive command failed: %v", err)
	}
	if !strings.Contains(out, "Archived results to:") {
		t.Errorf("unexpected output %q", out)
	}
	testutil.AssertFileNotExists(t, base)

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(base), "archive"))
	if err != nil || len(entries) != 1 {
		t.Errorf("expected one archive entry, got %d (%v)", len(entries), err)
	}
}

func TestGenerateCommandWarnsWithoutKeys(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "results")
	input := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, input, []byte("猫 ねこ = cat\n"))

	var err error
	_, stderr := testutil.CaptureOutput(t, func() {
		_, err = executeCommand(t, outputDir, "generate", "--input", input, "--log-level", "warn")
	})
	if err != nil {
		t.Fatalf("generate command failed: %v", err)
	}
	if !strings.Contains(stderr, "audio generation is disabled") {
		t.Errorf("expected warning on stderr, got %q", stderr)
	}
}

func TestCacheCommand(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "audio-cache")
	testutil.CreateTestFile(t, filepath.Join(cacheDir, "ab", "cdef.mp3"), make([]byte, 2048))

	out, err := executeCommand(t, t.TempDir(), "--audio-cache", cacheDir, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if !strings.Contains(out, "Cached clips: 1 (2.0 KiB)") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = executeCommand(t, t.TempDir(), "--audio-cache", cacheDir, "cache", "clear")
	if err != nil || !strings.Contains(out, "Audio cache cleared") {
		t.Fatalf("cache clear = %q, %v", out, err)
	}
	testutil.AssertFileNotExists(t, cacheDir)

	if _, err := executeCommand(t, t.TempDir(), "--audio-cache", "", "cache", "stats"); err == nil {
		t.Error("expected error with the cache disabled")
	}
}
