// Package testutil holds fakes and helpers shared by package tests.
package testutil

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// MockAudioProvider writes a small fake mp3 for every request and records
// the synthesized texts
type MockAudioProvider struct {
	mu     sync.Mutex
	Errors map[string]error
	Calls  []string
}

// GenerateAudio records the call and writes MockMP3 to outputFile
func (m *MockAudioProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, fmt.Sprintf("%s -> %s", text, filepath.Base(outputFile)))
	err := m.Errors[text]
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(outputFile, MockMP3, 0644)
}

// Name returns the provider name
func (m *MockAudioProvider) Name() string {
	return "mock"
}

// IsAvailable always succeeds
func (m *MockAudioProvider) IsAvailable() error {
	return nil
}

// CallCount returns the number of GenerateAudio calls
func (m *MockAudioProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTranslator mocks translation service
type MockTranslator struct {
	mu           sync.Mutex
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Translate returns the configured translation or a default one
func (m *MockTranslator) Translate(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, text)

	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if translation, ok := m.Translations[text]; ok {
		return translation, nil
	}
	return fmt.Sprintf("mock translation of %s", text), nil
}

// MockMP3 is a minimal MP3 frame header
var MockMP3 = []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}

// MockPNG is a 1x1 transparent PNG
var MockPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
	0x0A, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

// DataURL encodes data as a base64 data URL of the given image subtype
func DataURL(subtype string, data []byte) string {
	return "data:image/" + subtype + ";base64," + base64.StdEncoding.EncodeToString(data)
}
