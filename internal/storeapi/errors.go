package storeapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a failed call to the store API. Status is the HTTP status
// code, or 0 when no response was received at all (connection failure).
type APIError struct {
	Status  int
	Message string
	cause   error
}

func (e *APIError) Error() string { return e.Message }
func (e *APIError) Unwrap() error { return e.cause }

// IsValidation reports whether err is an HTTP 400 from the API
// (duplicate email, malformed payload).
func IsValidation(err error) bool { return statusOf(err) == http.StatusBadRequest }

// IsUnauthorized reports whether err is an HTTP 401 from the API
// (bad credentials, expired or invalid token).
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

// IsConnection reports whether err means the API was unreachable.
func IsConnection(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == 0
}

func statusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return -1
}

func connError(cause error) *APIError {
	return &APIError{Status: 0, Message: "Connection error. Please check your internet.", cause: cause}
}

// errorBody is the JSON shape the API uses for failures. The message field
// arrives as either a string or a list of strings.
type errorBody struct {
	Message    apiMessage `json:"message"`
	StatusCode int        `json:"statusCode"`
	Error      string     `json:"error"`
}

type apiMessage string

func (m *apiMessage) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = apiMessage(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*m = apiMessage(strings.Join(list, ", "))
		return nil
	}
	*m = ""
	return nil
}

// responseError maps a non-2xx response to a user-facing message. A message
// in the body wins; otherwise a fixed text per status class.
func responseError(status int, body []byte) *APIError {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	if msg := string(eb.Message); msg != "" {
		return &APIError{Status: status, Message: msg}
	}
	var msg string
	switch status {
	case http.StatusBadRequest:
		msg = "Invalid data. Please check the information."
	case http.StatusUnauthorized:
		msg = "Not authorized. Please sign in again."
	case http.StatusNotFound:
		msg = "Resource not found."
	case http.StatusInternalServerError:
		msg = "Server error. Please try again later."
	default:
		msg = fmt.Sprintf("Error %d: %s", status, http.StatusText(status))
	}
	return &APIError{Status: status, Message: msg}
}
