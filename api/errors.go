package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any Error carrying a 401. The embedding
// application reacts to it (session teardown); the controllers only surface
// it like any other remote failure.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx response from the backend, decoded from the error
// envelope when one is present. The same type covers list fetches and
// mutations; controllers wrap it to distinguish the two.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// errorEnvelope is the backend's error response shape.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
