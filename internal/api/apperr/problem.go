package apperr

import (
	"errors"
	"net/http"
)

type FieldError struct {
	Field   string
	Code    string // e.g. "unique", "not_null", "fk", "invalid", "too_long"
	Message string
}

// Problem is an error shaped for the visitor: a status, a short title and an
// optional detail. Titles and details are English source strings; the error
// page translates them.
type Problem struct {
	Title       string
	Status      int
	Detail      string
	Instance    string
	RequestID   string
	FieldErrors []FieldError
	Retryable   bool
}

func (p Problem) Error() string {
	if p.Detail != "" {
		return p.Title + ": " + p.Detail
	}
	return p.Title
}

func New(status int, detail string) Problem {
	return Problem{Status: status, Title: http.StatusText(status), Detail: detail}
}

func NotFound() Problem {
	return New(http.StatusNotFound, "The requested page does not exist.")
}

func Forbidden() Problem {
	return New(http.StatusForbidden, "You do not have permission to view this page.")
}

func Internal() Problem {
	return New(http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// From maps any error to a Problem: an embedded Problem wins, then Postgres
// errors, then a generic 500.
func From(err error) Problem {
	var p Problem
	if errors.As(err, &p) {
		return p
	}
	if p, ok := FromPG(err); ok {
		return p
	}
	return Internal()
}
