package translation

import (
	"context"
	"maps"
	"sync"
)

// TranslationCache stores translations in memory for batch operations
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(word, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[word] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(word string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[word]
	return translation, ok
}

// GetAll returns a copy of all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return maps.Clone(tc.translations)
}

// CachedTranslator answers repeated words from a cache
type CachedTranslator struct {
	next  Translator
	cache *TranslationCache
}

// NewCachedTranslator wraps next with cache
func NewCachedTranslator(next Translator, cache *TranslationCache) *CachedTranslator {
	return &CachedTranslator{next: next, cache: cache}
}

// Translate returns the cached translation or asks the wrapped translator
func (c *CachedTranslator) Translate(ctx context.Context, word string) (string, error) {
	if translation, ok := c.cache.Get(word); ok {
		return translation, nil
	}

	translation, err := c.next.Translate(ctx, word)
	if err != nil {
		return "", err
	}
	c.cache.Add(word, translation)
	return translation, nil
}
