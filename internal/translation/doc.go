// Package translation suggests English meanings for Japanese vocabulary
// using the OpenAI or Gemini APIs. Suggestions are cached per word for batch
// operations.
package translation
