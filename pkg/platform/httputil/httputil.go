// Package httputil holds small response helpers shared by the page and API handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "civiclink/pkg/domain-errors"
)

// WriteJSON encodes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteHTML streams an HTML page produced by render.
func WriteHTML(w http.ResponseWriter, status int, render func(io.Writer) error) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return render(w)
}

// WriteError maps a domain error to an HTTP status and a JSON error body.
// Internal errors never expose their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := StatusFor(code)

	body := map[string]string{"error": string(code)}
	var de *dErrors.Error
	if code != dErrors.CodeInternal && errors.As(err, &de) {
		body["error_description"] = de.Message
	}
	WriteJSON(w, status, body)
}

// StatusFor returns the HTTP status used for a domain error code.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeUserRejected:
		return http.StatusForbidden
	case dErrors.CodeNotConnected, dErrors.CodeNotInitialized:
		return http.StatusConflict
	case dErrors.CodeNetworkError, dErrors.CodeDecodeError,
		dErrors.CodeMalformedRecord, dErrors.CodeContractCallError, dErrors.CodeProviderError:
		return http.StatusBadGateway
	case dErrors.CodeProviderMissing:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
