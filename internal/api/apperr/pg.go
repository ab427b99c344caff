package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Map well-known constraint names to fields (extend as you add constraints)
var constraintField = map[string]string{
	"books_isbn_key":                "isbn",
	"books_author_id_fkey":          "author_id",
	"genres_name_key":               "name",
	"users_username_key":            "username",
	"book_instances_book_id_fkey":   "book_id",
	"book_genres_genre_id_fkey":     "genre_id",
	"user_permissions_user_id_fkey": "user_id",
}

// Guess a field from a column name present in PG error detail
func fieldFromDetail(detail string) string {
	for _, k := range []string{"isbn", "username", "name", "author_id", "book_id", "genre_id", "id"} {
		if strings.Contains(detail, k) {
			return k
		}
	}
	return ""
}

func fieldFromConstraint(c string) string {
	if f, ok := constraintField[c]; ok {
		return f
	}
	return ""
}

func fieldOr(field, def string) string {
	if field == "" {
		return def
	}
	return field
}

// FromPG maps a pgconn.PgError to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	p := Internal()

	field := fieldFromConstraint(pg.ConstraintName)
	if field == "" && pg.Detail != "" {
		field = fieldFromDetail(pg.Detail)
	}

	switch pg.Code {
	case "23505": // unique_violation
		p = New(http.StatusConflict, "")
		p.FieldErrors = []FieldError{{Field: fieldOr(field, "resource"), Code: "unique", Message: "value already exists"}}
	case "23503": // foreign_key_violation
		p = New(http.StatusConflict, "")
		p.FieldErrors = []FieldError{{Field: fieldOr(field, "resource"), Code: "fk", Message: "resource is referenced by other records"}}
	case "23502": // not_null_violation
		p = New(http.StatusBadRequest, "")
		p.FieldErrors = []FieldError{{Field: fieldOr(fieldOr(field, pg.ColumnName), "field"), Code: "not_null", Message: "required field is missing"}}
	case "23514": // check_violation
		p = New(http.StatusUnprocessableEntity, "")
		p.FieldErrors = []FieldError{{Field: fieldOr(field, "field"), Code: "check", Message: "constraint failed"}}
	case "22P02": // invalid_text_representation (e.g., bad UUID)
		p = New(http.StatusBadRequest, "")
		p.FieldErrors = []FieldError{{Field: fieldOr(field, "id"), Code: "invalid", Message: "invalid format"}}
	case "22001": // string_data_right_truncation
		p = New(http.StatusBadRequest, "")
		p.FieldErrors = []FieldError{{Field: fieldOr(field, "field"), Code: "too_long", Message: "value is too long"}}
	case "40001", "40P01": // serialization_failure, deadlock_detected
		p = New(http.StatusConflict, "")
		p.Retryable = true
	}
	return p, true
}
