package audio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewElevenLabsProvider(t *testing.T) {
	if _, err := NewElevenLabsProvider(&Config{}); err == nil {
		t.Fatal("expected error without API key")
	}

	p, err := NewElevenLabsProvider(&Config{ElevenLabsKey: "key"})
	if err != nil {
		t.Fatalf("NewElevenLabsProvider() error = %v", err)
	}
	el := p.(*ElevenLabsProvider)
	if el.voiceID != DefaultVoiceID || el.modelID != DefaultModelID {
		t.Errorf("defaults not applied: voice=%q model=%q", el.voiceID, el.modelID)
	}
	if el.baseURL != "https://api.elevenlabs.io" {
		t.Errorf("baseURL = %q", el.baseURL)
	}
	if p.Name() != "elevenlabs" {
		t.Errorf("Name() = %q", p.Name())
	}
	if err := p.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() error = %v", err)
	}
}

func TestElevenLabsGenerateAudio(t *testing.T) {
	var (
		gotPath, gotKey string
		gotBody         elevenLabsRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3 fake"))
	}))
	defer server.Close()

	p, err := NewElevenLabsProvider(&Config{
		ElevenLabsKey:     "secret",
		ElevenLabsVoiceID: "voice123",
		ElevenLabsModelID: "model456",
		ElevenLabsBaseURL: server.URL + "/",
	})
	if err != nil {
		t.Fatalf("NewElevenLabsProvider() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "Audio", "すし_1.mp3")
	if err := p.GenerateAudio(context.Background(), "すし", out); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	if gotPath != "/v1/text-to-speech/voice123" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("xi-api-key = %q", gotKey)
	}
	if gotBody.Text != "すし" || gotBody.ModelID != "model456" {
		t.Errorf("body = %+v", gotBody)
	}

	data, err := os.ReadFile(out)
	if err != nil || string(data) != "ID3 fake" {
		t.Errorf("output = %q, %v", data, err)
	}
}

func TestElevenLabsGenerateAudioErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	p, _ := NewElevenLabsProvider(&Config{ElevenLabsKey: "bad", ElevenLabsBaseURL: server.URL})
	out := filepath.Join(t.TempDir(), "out.mp3")

	err := p.GenerateAudio(context.Background(), "すし", out)
	if err == nil || !strings.Contains(err.Error(), "status 401") || !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("unexpected error: %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("no file should be written on API error")
	}

	if err := p.GenerateAudio(context.Background(), "sushi", out); err == nil {
		t.Error("expected validation error for non-Japanese text")
	}
}
