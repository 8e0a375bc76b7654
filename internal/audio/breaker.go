package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects calls after
// consecutive provider failures.
var ErrCircuitOpen = gobreaker.ErrOpenState

// BreakerProvider guards a provider with a circuit breaker
type BreakerProvider struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker
}

// NewBreakerProvider trips after maxFailures consecutive failures and stays
// open for timeout before letting a probe request through.
func NewBreakerProvider(p Provider, maxFailures uint32, timeout time.Duration) *BreakerProvider {
	settings := gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			// Input errors and cancellation do not count against the backend
			return err == nil || errors.Is(err, ErrEmptyText) ||
				errors.Is(err, ErrNotJapaneseText) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("audio provider circuit breaker state changed",
				"provider", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerProvider{
		provider: p,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

// GenerateAudio runs the wrapped provider through the breaker
func (b *BreakerProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.provider.GenerateAudio(ctx, text, outputFile)
	})
	return err
}

// Name returns the wrapped provider name
func (b *BreakerProvider) Name() string {
	return b.provider.Name()
}

// IsAvailable reports the wrapped provider availability, or an error while
// the circuit is open
func (b *BreakerProvider) IsAvailable() error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: %w", b.provider.Name(), ErrCircuitOpen)
	}
	return b.provider.IsAvailable()
}
