// Package batch loads vocabulary for non-interactive generation runs. It
// reads the input.json format with one object per word and a plain text
// format with one word per line.
package batch
