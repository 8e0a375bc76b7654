package card

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Repository persists the session. Implementations must keep the order of
// active cards given by position and return history newest first.
type Repository interface {
	SaveCard(ctx context.Context, c Card, position int) error
	ListCards(ctx context.Context) ([]Card, error)
	ListHistory(ctx context.Context) ([]Card, error)
	DeleteCard(ctx context.Context, id string) error
	RestoreCard(ctx context.Context, id string, position int) error
	ClearHistory(ctx context.Context) error
}

// Session holds the cards currently being edited and the history of
// deleted cards. Every mutation is written through to the repository when
// one is configured.
type Session struct {
	mu      sync.Mutex
	repo    Repository
	cards   []Card
	history []Card
	now     func() time.Time
}

// NewSession creates a session and loads its state from repo. A nil repo
// keeps everything in memory.
func NewSession(ctx context.Context, repo Repository) (*Session, error) {
	s := &Session{repo: repo, now: time.Now}
	if repo == nil {
		return s, nil
	}

	cards, err := repo.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	history, err := repo.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	s.cards = cards
	s.history = history
	return s, nil
}

// Cards returns a copy of the active cards in form order
func (s *Session) Cards() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cards)
}

// History returns a copy of the deleted cards, newest first
func (s *Session) History() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Add appends a new empty card
func (s *Session) Add(ctx context.Context) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := New()
	if err := s.save(ctx, c, len(s.cards)); err != nil {
		return Card{}, err
	}
	s.cards = append(s.cards, c)
	return c, nil
}

// Get returns the active card with the given id
func (s *Session) Get(id string) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.cards[i], nil
}

// Update applies a single field update to a card
func (s *Session) Update(ctx context.Context, id string, u Update) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	updated, err := Apply(s.cards[i], u)
	if err != nil {
		return Card{}, err
	}
	return s.store(ctx, i, updated)
}

// Replace swaps a card for a full new state
func (s *Session) Replace(ctx context.Context, id string, next Card) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	replaced, err := Replace(s.cards[i], next)
	if err != nil {
		return Card{}, err
	}
	return s.store(ctx, i, replaced)
}

// Delete moves a card to the top of the history
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	// Shift the stored positions of the following cards before the delete
	// so restores append at the end. Memory only changes once the store
	// has accepted every write; a partial failure is resolved by the store
	// order on the next load.
	for j := i + 1; j < len(s.cards); j++ {
		if err := s.save(ctx, s.cards[j], j-1); err != nil {
			return err
		}
	}
	if s.repo != nil {
		if err := s.repo.DeleteCard(ctx, id); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
	}

	deleted := s.cards[i]
	s.cards = slices.Delete(s.cards, i, i+1)
	s.history = slices.Insert(s.history, 0, deleted)
	return nil
}

// Restore moves a card from the history back to the end of the form
func (s *Session) Restore(ctx context.Context, id string) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.history, func(c Card) bool { return c.ID == id })
	if i < 0 {
		return Card{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if s.repo != nil {
		if err := s.repo.RestoreCard(ctx, id, len(s.cards)); err != nil {
			return Card{}, fmt.Errorf("failed to restore card: %w", err)
		}
	}

	restored := s.history[i]
	s.history = slices.Delete(s.history, i, i+1)
	s.cards = append(s.cards, restored)
	return restored, nil
}

// ClearHistory drops all deleted cards
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.ClearHistory(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
	}
	s.history = nil
	return nil
}

func (s *Session) index(id string) int {
	return slices.IndexFunc(s.cards, func(c Card) bool { return c.ID == id })
}

func (s *Session) store(ctx context.Context, i int, c Card) (Card, error) {
	c.UpdatedAt = s.now()
	if err := s.save(ctx, c, i); err != nil {
		return Card{}, err
	}
	s.cards[i] = c
	return c, nil
}

func (s *Session) save(ctx context.Context, c Card, position int) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveCard(ctx, c, position); err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}
