// Package netx holds the JSON-over-HTTP helpers shared by the collaborator
// server and the HTTP client.
package netx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a failed response body is read.
const maxErrorBody = 64 << 10

// StatusError is returned for non-2xx responses. Message carries the
// server-provided "error" or "reply" field when present, otherwise the raw
// body text.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("request failed: %d: %s", e.StatusCode, e.Message)
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// CheckResponse returns nil for 2xx responses and a *StatusError otherwise.
// The body is consumed on error but never closed.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error string `json:"error"`
		Reply string `json:"reply"`
	}
	msg := strings.TrimSpace(string(b))
	if err := json.Unmarshal(b, &payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Reply != "":
			msg = payload.Reply
		}
	}

	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
