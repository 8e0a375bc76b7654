// Package models lists the OpenAI models usable for speech synthesis and
// translation suggestions with the configured API key.
package models
