package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	MaxLengthTitle   = 200
	MaxLengthName    = 100
	MaxLengthSummary = 1000
	MaxLengthISBN    = 13
	MaxLengthImprint = 200

	// genres shown by DisplayGenre
	displayGenreLimit = 3
)

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Author struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
}

// String renders "Last, First".
func (a Author) String() string {
	return a.LastName + ", " + a.FirstName
}

type Book struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Author   *Author `json:"author,omitempty"`
	Summary  string  `json:"summary"`
	ISBN     string  `json:"isbn"`
	Language string  `json:"language,omitempty"`
	Genres   []Genre `json:"genres"`
	CoverKey string  `json:"-"`
}

// GenreNames joins every genre name with ", "; empty when there are none.
func (b Book) GenreNames() string {
	return strings.Join(lo.Map(b.Genres, func(g Genre, _ int) string { return g.Name }), ", ")
}

// DisplayGenre is the short form used in listings: at most three names.
func (b Book) DisplayGenre() string {
	return Book{Genres: lo.Slice(b.Genres, 0, displayGenreLimit)}.GenreNames()
}

// BookInstance is one loanable copy of a Book.
type BookInstance struct {
	ID         uuid.UUID  `json:"id"`
	BookID     int64      `json:"book_id"`
	BookTitle  string     `json:"book_title,omitempty"`
	Imprint    string     `json:"imprint"`
	DueBack    *time.Time `json:"due_back,omitempty"`
	BorrowerID *int64     `json:"borrower_id,omitempty"`
	Status     LoanStatus `json:"status"`
}

// IsOverdue reports whether the copy has a due date strictly before today.
func (c BookInstance) IsOverdue(now time.Time) bool {
	if c.DueBack == nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := c.DueBack.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return today.After(due)
}

// String matches the admin listing form "<id> (<title>)".
func (c BookInstance) String() string {
	return c.ID.String() + " (" + c.BookTitle + ")"
}
