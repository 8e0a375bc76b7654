// Package processor contains the core business logic for turning edited
// vocabulary cards into Anki notes. It normalises readings, resolves the
// furigana, decodes sentence images, drives audio generation and
// translation, and coordinates the results directory and the package
// builder.
package processor
