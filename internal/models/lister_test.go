package models

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"
)

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}
	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}
	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestCategorize(t *testing.T) {
	got := Categorize([]string{
		"tts-1-hd", "gpt-4o", "whisper-1", "gpt-4o-mini-tts", "gpt-4o-audio-preview",
		"dall-e-3", "gpt-3.5-turbo", "tts-1",
	})

	want := Categories{
		TTS:  []string{"gpt-4o-mini-tts", "tts-1", "tts-1-hd"},
		Chat: []string{"gpt-3.5-turbo", "gpt-4o"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Categorize() = %+v, want %+v", got, want)
	}
}

func TestListAvailableModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	err := lister.ListAvailableModels(context.Background(), &bytes.Buffer{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got: %v", err)
	}
}

func TestListAvailableModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var data []string
		for i := 0; i < 12; i++ {
			data = append(data, fmt.Sprintf(`{"id": "gpt-3.5-turbo-%02d", "object": "model"}`, i))
		}
		data = append(data, `{"id": "gpt-4o", "object": "model"}`, `{"id": "tts-1", "object": "model"}`)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"object": "list", "data": [%s]}`, strings.Join(data, ","))
	}))
	defer server.Close()

	var out bytes.Buffer
	lister := NewLister("test-key", server.URL)
	if err := lister.ListAvailableModels(context.Background(), &out); err != nil {
		t.Fatalf("ListAvailableModels() error = %v", err)
	}

	output := out.String()
	for _, want := range []string{"  tts-1\n", "  gpt-4o\n", "... and 12 more models"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "gpt-3.5-turbo-00") {
		t.Error("older chat models should be folded into the summary line")
	}
}

func TestListAvailableModels_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	lister := NewLister(apiKey, "")
	if err := lister.ListAvailableModels(context.Background(), &bytes.Buffer{}); err != nil {
		t.Errorf("ListAvailableModels failed: %v", err)
	}
}
