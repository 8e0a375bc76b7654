// Package api exposes the card form, the settings dialog, furigana preview
// and package generation over HTTP.
//
// All routes live below /api and exchange JSON. Errors are returned as
// {"error": "..."} with a status code derived from the package sentinel
// errors: invalid input maps to 400, unknown cards and files to 404, an
// open audio circuit breaker to 503 and everything else to 500.
package api
