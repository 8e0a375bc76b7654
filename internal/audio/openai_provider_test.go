package audio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// speechServer fakes /audio/speech and records the last request body
type speechServer struct {
	*httptest.Server
	mu   sync.Mutex
	last map[string]any
}

func newSpeechServer(t *testing.T) *speechServer {
	t.Helper()
	s := &speechServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		s.mu.Lock()
		s.last = body
		s.mu.Unlock()
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("fake mp3"))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *speechServer) field(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, _ := s.last[name].(string)
	return v
}

func TestNewOpenAIProvider(t *testing.T) {
	if _, err := NewOpenAIProvider(&Config{}); err == nil || err.Error() != "OpenAI API key is required" {
		t.Errorf("expected missing key error, got %v", err)
	}

	cacheDir := filepath.Join(t.TempDir(), "cache")
	p, err := NewOpenAIProvider(&Config{OpenAIKey: "test-key", OpenAIModel: "tts-1", OpenAIInstruction: "ignored", CacheDir: cacheDir})
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("Name() = %q", p.Name())
	}
	if err := p.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() error = %v", err)
	}

	op := p.(*OpenAIProvider)
	if op.instruction != "" {
		t.Errorf("tts-1 should not carry instructions, got %q", op.instruction)
	}
	if op.Cache() == nil {
		t.Error("expected cache to be enabled")
	}
	if _, err := os.Stat(cacheDir); err != nil {
		t.Errorf("cache directory not created: %v", err)
	}

	if (&OpenAIProvider{}).IsAvailable() == nil {
		t.Error("expected unconfigured provider to be unavailable")
	}
}

func TestSpeechInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"れきし", "れきし"},
		{"「歴史」", "歴史"},
		{"歴史が好きです。", "歴史が好きです。"},
		{"  『すし』（寿司）  ", "すし寿司"},
		{"[れきし]", "れきし"},
	}

	for _, tt := range tests {
		if got := speechInput(tt.input); got != tt.want {
			t.Errorf("speechInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestOpenAIGenerateAudioValidation(t *testing.T) {
	p := &OpenAIProvider{}
	ctx := context.Background()

	if err := p.GenerateAudio(ctx, "hello", "output.mp3"); !errors.Is(err, ErrNotJapaneseText) {
		t.Errorf("Expected Japanese validation error, got: %v", err)
	}
	if err := p.GenerateAudio(ctx, "", "output.mp3"); !errors.Is(err, ErrEmptyText) {
		t.Errorf("Expected empty text error, got: %v", err)
	}
}

func TestOpenAIGenerateAudio(t *testing.T) {
	server := newSpeechServer(t)

	dir := t.TempDir()
	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"
	config.OpenAIBaseURL = server.URL
	config.CacheDir = filepath.Join(dir, "cache")

	p, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	out := filepath.Join(dir, "Audio", "歴史(れきし)_1.mp3")
	if err := p.GenerateAudio(context.Background(), "「れきし」", out); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil || string(data) != "fake mp3" {
		t.Fatalf("output = %q, %v", data, err)
	}
	if got := server.field("input"); got != "れきし" {
		t.Errorf("input = %q, want れきし", got)
	}
	if got := server.field("instructions"); !strings.Contains(got, "Japanese") {
		t.Errorf("instructions not sent: %q", got)
	}
	if got := server.field("response_format"); got != "mp3" {
		t.Errorf("response_format = %q, want mp3", got)
	}

	count, _, err := p.(*OpenAIProvider).Cache().Stats()
	if err != nil || count != 1 {
		t.Errorf("expected one cached file, got %d (%v)", count, err)
	}
}

func TestOpenAIResponseFormat(t *testing.T) {
	server := newSpeechServer(t)
	p, err := NewOpenAIProvider(&Config{OpenAIKey: "k", OpenAIModel: "tts-1", OpenAIVoice: "nova", OpenAIBaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	tests := []struct {
		file       string
		wantFormat string
		wantFile   string
	}{
		{"a.wav", "wav", "a.wav"},
		{"b.FLAC", "flac", "b.FLAC"},
		{"c.opus", "opus", "c.opus"},
		{"d", "mp3", "d.mp3"},
	}
	for _, tt := range tests {
		if err := p.GenerateAudio(context.Background(), "すし", filepath.Join(dir, tt.file)); err != nil {
			t.Fatalf("GenerateAudio(%s) error = %v", tt.file, err)
		}
		if got := server.field("response_format"); got != tt.wantFormat {
			t.Errorf("%s: response_format = %q, want %q", tt.file, got, tt.wantFormat)
		}
		if _, err := os.Stat(filepath.Join(dir, tt.wantFile)); err != nil {
			t.Errorf("%s: expected %s to be written", tt.file, tt.wantFile)
		}
		if got := server.field("instructions"); got != "" {
			t.Errorf("tts-1 request carried instructions %q", got)
		}
	}
}

func TestOpenAIGenerateAudioAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	p, _ := NewOpenAIProvider(&Config{OpenAIKey: "k", OpenAIModel: "tts-1", OpenAIBaseURL: server.URL})
	out := filepath.Join(t.TempDir(), "x.mp3")

	err := p.GenerateAudio(context.Background(), "すし", out)
	if err == nil || !strings.Contains(err.Error(), "OpenAI TTS API error") {
		t.Errorf("unexpected error: %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no file should be written on API error")
	}
}
