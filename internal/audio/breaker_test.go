package audio

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBreakerProviderTripsAfterFailures(t *testing.T) {
	inner := &mockProvider{name: "flaky", generateErr: errors.New("503 from backend")}
	p := NewBreakerProvider(inner, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := p.GenerateAudio(ctx, "すし", "out.mp3"); err == nil {
			t.Fatalf("call %d: expected backend error", i)
		}
	}

	err := p.GenerateAudio(ctx, "すし", "out.mp3")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if inner.generateCalls != 2 {
		t.Errorf("open circuit must not reach the backend: %d calls", inner.generateCalls)
	}
	if err := p.IsAvailable(); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("IsAvailable() = %v, want open circuit", err)
	}
	if p.Name() != "flaky" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestBreakerProviderIgnoresInputErrors(t *testing.T) {
	inner := &mockProvider{name: "mock", generateErr: ErrNotJapaneseText}
	p := NewBreakerProvider(inner, 1, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := p.GenerateAudio(ctx, "hello", "out.mp3"); !errors.Is(err, ErrNotJapaneseText) {
			t.Fatalf("call %d: got %v", i, err)
		}
	}
	if inner.generateCalls != 3 {
		t.Errorf("expected every call to reach the provider, got %d", inner.generateCalls)
	}
}

func TestBreakerProviderRecovers(t *testing.T) {
	inner := &mockProvider{name: "mock", generateErr: errors.New("down")}
	p := NewBreakerProvider(inner, 1, 10*time.Millisecond)
	ctx := context.Background()

	_ = p.GenerateAudio(ctx, "すし", "out.mp3")
	if err := p.GenerateAudio(ctx, "すし", "out.mp3"); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	inner.generateErr = nil
	if err := p.GenerateAudio(ctx, "すし", "out.mp3"); err != nil {
		t.Fatalf("half-open probe should succeed, got %v", err)
	}
	if err := p.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() after recovery = %v", err)
	}
}
