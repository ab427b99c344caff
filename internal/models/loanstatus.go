package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// LoanStatus is the closed set of states a copy may occupy. The underlying
// value is the single-letter code stored in the database.
type LoanStatus string

const (
	StatusMaintenance LoanStatus = "m"
	StatusOnLoan      LoanStatus = "o"
	StatusAvailable   LoanStatus = "a"
	StatusReserved    LoanStatus = "r"
)

// DefaultStatus is assigned to new copies.
const DefaultStatus = StatusMaintenance

var ErrUnknownStatus = errors.New("unknown loan status")

// LoanStatuses lists every member in display order.
var LoanStatuses = []LoanStatus{StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved}

// ParseLoanStatus accepts only known codes. The empty code maps to the
// default, mirroring a blank column.
func ParseLoanStatus(code string) (LoanStatus, error) {
	switch s := LoanStatus(code); s {
	case StatusMaintenance, StatusOnLoan, StatusAvailable, StatusReserved:
		return s, nil
	case "":
		return DefaultStatus, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, code)
	}
}

// Label is the English source string; templates pass it through translation.
func (s LoanStatus) Label() string {
	switch s {
	case StatusMaintenance:
		return "Maintenance"
	case StatusOnLoan:
		return "On loan"
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	default:
		return string(s)
	}
}

// Severity is the visual class a status renders with.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Severity classifies s three ways. Only Available and Maintenance are special
// cased; every other member, including ones added later, is a warning.
func (s LoanStatus) Severity() Severity {
	switch s {
	case StatusAvailable:
		return SeveritySuccess
	case StatusMaintenance:
		return SeverityDanger
	case StatusOnLoan, StatusReserved:
		return SeverityWarning
	default:
		return SeverityWarning
	}
}

// CopyView is everything the detail page needs to draw one copy.
type CopyView struct {
	ID          uuid.UUID
	Status      LoanStatus
	StatusLabel string
	Severity    Severity
	ShowDueBack bool
	DueBack     string
	Imprint     string
	ShowReturn  bool
}

const dueBackLayout = "2006-01-02"

// PresentCopy applies the display/action policy to a copy. The due-back line is
// shown only for copies that are not Available and carry a date; the return
// action only for copies On loan when the viewer may mark them returned.
func PresentCopy(c BookInstance, canMarkReturned bool) CopyView {
	v := CopyView{
		ID:          c.ID,
		Status:      c.Status,
		StatusLabel: c.Status.Label(),
		Severity:    c.Status.Severity(),
		Imprint:     c.Imprint,
		ShowReturn:  c.Status == StatusOnLoan && canMarkReturned,
	}
	if c.Status != StatusAvailable && c.DueBack != nil {
		v.ShowDueBack = true
		v.DueBack = c.DueBack.Format(dueBackLayout)
	}
	return v
}
