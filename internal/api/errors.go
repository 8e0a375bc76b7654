package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"codeberg.org/snonux/kotoba/internal/anki"
	"codeberg.org/snonux/kotoba/internal/audio"
	"codeberg.org/snonux/kotoba/internal/batch"
	"codeberg.org/snonux/kotoba/internal/card"
	"codeberg.org/snonux/kotoba/internal/processor"
	"codeberg.org/snonux/kotoba/internal/results"
)

// statusFor maps an error to the HTTP status code of its response
func statusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, errBadRequest),
		errors.Is(err, card.ErrUnknownField),
		errors.Is(err, card.ErrInvalidValue),
		errors.Is(err, processor.ErrNoValidCards),
		errors.Is(err, processor.ErrNoAudioProvider),
		errors.Is(err, batch.ErrNoVocabulary),
		errors.Is(err, anki.ErrEmptyDeck):
		return http.StatusBadRequest
	case errors.Is(err, card.ErrNotFound),
		errors.Is(err, results.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, audio.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// HandleAPIError writes the error response for err. Internal errors are
// reported with a generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	var message string
	switch status {
	case http.StatusInternalServerError:
		message = "internal server error"
	case http.StatusServiceUnavailable:
		message = "audio service temporarily unavailable, try again later"
	default:
		message = validationMessage(err)
	}

	RespondWithErrorAndLog(w, r, status, message, err)
}
