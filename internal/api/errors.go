package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrSessionExpired signals that authorization could not be restored: the
// refresh token was rejected or the refresh call failed. The credential
// store has been cleared and the session-end hook fired by the time callers
// see this error; the only recovery is a fresh login.
var ErrSessionExpired = errors.New("session expired")

// Error is a non-auth API failure surfaced to the caller verbatim. It is
// never retried by the client.
type Error struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is an API 409.
func IsConflict(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// parseError decodes the portal's error bodies. The backend answers with
// one of three shapes: {"error": "..."}, {"detail": "..."}, or a per-field
// map {"field": ["msg", ...]}. Field errors are kept verbatim so the UI can
// attach them to inputs.
func parseError(statusCode int, body []byte) *Error {
	apiErr := &Error{StatusCode: statusCode}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		apiErr.Message = http.StatusText(statusCode)
		return apiErr
	}

	for _, key := range []string{"error", "detail", "message"} {
		var msg string
		if data, ok := raw[key]; ok && json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg
			delete(raw, key)
		}
	}

	for field, data := range raw {
		var single string
		if json.Unmarshal(data, &single) == nil {
			setField(apiErr, field, single)
			continue
		}
		var many []string
		if json.Unmarshal(data, &many) == nil && len(many) > 0 {
			setField(apiErr, field, strings.Join(many, "; "))
		}
	}

	if apiErr.Message == "" {
		if len(apiErr.Fields) > 0 {
			apiErr.Message = "validation failed"
		} else {
			apiErr.Message = http.StatusText(statusCode)
		}
	}
	return apiErr
}

func setField(e *Error, field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}
