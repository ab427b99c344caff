package view

import (
	"github.com/5w1tchy/locallibrary/internal/models"
)

type IndexData struct {
	NumBooks              int
	NumInstances          int
	NumInstancesAvailable int
	NumAuthors            int
	NumGenres             int
	NumVisits             int64
}

type BookListData struct {
	Books []models.Book
}

type BookDetailData struct {
	Book   models.Book
	Copies []models.CopyView
}

type AuthorListData struct {
	Authors []models.Author
}

type AuthorDetailData struct {
	Author models.Author
	Books  []models.Book
}

// AuthorFormData backs both create and update. Values echo what was submitted.
type AuthorFormData struct {
	Author *models.Author
	Values map[string]string
	Errors map[string]string
}

func (d AuthorFormData) Value(field string) string { return d.Values[field] }
func (d AuthorFormData) Error(field string) string { return d.Errors[field] }

type AuthorDeleteData struct {
	Author models.Author
}

type BorrowedCopy struct {
	Copy    models.BookInstance
	Overdue bool
}

type BorrowedData struct {
	Copies []BorrowedCopy
}

type MarkReturnedData struct {
	Copy models.BookInstance
}

type RenewData struct {
	Copy        models.BookInstance
	RenewalDate string
	Error       string
}

type LoginData struct {
	Username string
	Next     string
	Error    string
}

type ErrorData struct {
	Status int
	Title  string
	Detail string
}
