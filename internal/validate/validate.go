package validate

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/5w1tchy/locallibrary/internal/models"
)

// DateLayout is the only date format the forms accept.
const DateLayout = "2006-01-02"

// Form messages double as translation keys.
const (
	MsgRequired    = "This field is required."
	MsgInvalidDate = "Enter a valid date."
	MsgTooLong     = "Ensure this value has at most 100 characters."
	MsgDeathOrder  = "Date of death must not be before date of birth."
	MsgRenewalPast = "Invalid date - renewal in past"
	MsgRenewalFar  = "Invalid date - renewal more than 4 weeks ahead"
)

var (
	ErrRequired      = errors.New("value required")
	ErrInvalidDate   = errors.New("invalid date")
	ErrRenewalInPast = errors.New("renewal date in the past")
	ErrRenewalTooFar = errors.New("renewal date more than 4 weeks ahead")
)

const (
	defaultRenewalDays = 21
	maxRenewalDays     = 28
)

// Message maps a validation error to its form message.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrRequired):
		return MsgRequired
	case errors.Is(err, ErrInvalidDate):
		return MsgInvalidDate
	case errors.Is(err, ErrRenewalInPast):
		return MsgRenewalPast
	case errors.Is(err, ErrRenewalTooFar):
		return MsgRenewalFar
	default:
		return ""
	}
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultRenewalDate is three weeks from today.
func DefaultRenewalDate(now time.Time) time.Time {
	return today(now).AddDate(0, 0, defaultRenewalDays)
}

// RenewalDate parses raw and accepts dates from today up to four weeks ahead,
// both ends inclusive.
func RenewalDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrRequired
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	t := today(now)
	if d.Before(t) {
		return time.Time{}, ErrRenewalInPast
	}
	if d.After(t.AddDate(0, 0, maxRenewalDays)) {
		return time.Time{}, ErrRenewalTooFar
	}
	return d, nil
}

// Author form field names.
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldDateOfBirth = "date_of_birth"
	FieldDateOfDeath = "date_of_death"
)

// AuthorForm reads and checks an author create/update submission. The
// returned map holds one message per invalid field and is nil when the form
// is valid.
func AuthorForm(form url.Values) (models.Author, map[string]string) {
	var (
		a    models.Author
		errs = map[string]string{}
	)
	a.FirstName = requiredName(form.Get(FieldFirstName), FieldFirstName, errs)
	a.LastName = requiredName(form.Get(FieldLastName), FieldLastName, errs)
	a.DateOfBirth = optionalDate(form.Get(FieldDateOfBirth), FieldDateOfBirth, errs)
	a.DateOfDeath = optionalDate(form.Get(FieldDateOfDeath), FieldDateOfDeath, errs)

	if a.DateOfBirth != nil && a.DateOfDeath != nil && a.DateOfDeath.Before(*a.DateOfBirth) {
		errs[FieldDateOfDeath] = MsgDeathOrder
	}
	if len(errs) == 0 {
		return a, nil
	}
	return a, errs
}

// AuthorValues is the inverse of AuthorForm, used to prefill the update form.
func AuthorValues(a models.Author) map[string]string {
	v := map[string]string{
		FieldFirstName: a.FirstName,
		FieldLastName:  a.LastName,
	}
	if a.DateOfBirth != nil {
		v[FieldDateOfBirth] = a.DateOfBirth.Format(DateLayout)
	}
	if a.DateOfDeath != nil {
		v[FieldDateOfDeath] = a.DateOfDeath.Format(DateLayout)
	}
	return v
}

func requiredName(raw, field string, errs map[string]string) string {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		errs[field] = MsgRequired
	case utf8.RuneCountInString(s) > models.MaxLengthName:
		errs[field] = MsgTooLong
	}
	return s
}

func optionalDate(raw, field string, errs map[string]string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		errs[field] = MsgInvalidDate
		return nil
	}
	return &d
}
