// Package apperr carries errors from the service layer to the transport
// boundary with an HTTP status attached. Handlers translate them; nothing
// else inspects the wrapped cause.
package apperr

import "net/http"

type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "application error"
}

func (e *Error) Unwrap() error { return e.Err }

// Validation covers missing or malformed input, including role-conditional
// fields and disallowed upload types.
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Conflict covers duplicate registration attempts.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// InvalidCredentials is the single login failure. The message is identical
// whether the email is unknown or the password wrong.
func InvalidCredentials() *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Invalid credentials."}
}

// Unauthorized covers requests without a usable session.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// Upstream covers collaborator outages (image host, store). The wrapped
// cause is for logs only and never reaches the client.
func Upstream(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: err}
}
