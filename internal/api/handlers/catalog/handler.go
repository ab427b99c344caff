// Package catalog holds the page handlers for books, authors and loans.
package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/5w1tchy/locallibrary/internal/api/apperr"
	"github.com/5w1tchy/locallibrary/internal/api/httpx"
	"github.com/5w1tchy/locallibrary/internal/models"
	catalogstore "github.com/5w1tchy/locallibrary/internal/store/catalog"
	"github.com/5w1tchy/locallibrary/internal/web/paginate"
)

// Store is the slice of catalogstore.Store the pages use.
type Store interface {
	Counts(ctx context.Context) (catalogstore.Counts, error)

	CountBooks(ctx context.Context) (int, error)
	ListBooks(ctx context.Context, limit, offset int) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (models.Book, error)
	BooksByAuthor(ctx context.Context, authorID int64) ([]models.Book, error)
	CoverKey(ctx context.Context, bookID int64) (string, error)
	ListCopies(ctx context.Context, bookID int64) ([]models.BookInstance, error)

	CountAuthors(ctx context.Context) (int, error)
	ListAuthors(ctx context.Context, limit, offset int) ([]models.Author, error)
	GetAuthor(ctx context.Context, id int64) (models.Author, error)
	CreateAuthor(ctx context.Context, a models.Author) (int64, error)
	UpdateAuthor(ctx context.Context, a models.Author) error
	DeleteAuthor(ctx context.Context, id int64) error

	CountBorrowed(ctx context.Context, userID int64) (int, error)
	ListBorrowed(ctx context.Context, userID int64, limit, offset int) ([]models.BookInstance, error)
	GetCopy(ctx context.Context, id uuid.UUID) (models.BookInstance, error)
	MarkReturned(ctx context.Context, id uuid.UUID) (int64, error)
	Renew(ctx context.Context, id uuid.UUID, due time.Time) error
}

// VisitCounter bumps the per-session visit count shown on the home page.
type VisitCounter interface {
	CountVisit(w http.ResponseWriter, r *http.Request) (int64, error)
}

// ViewRecorder records book detail views; it must not block.
type ViewRecorder interface {
	Record(bookID, viewerID int64)
}

// CoverURLs turns a stored cover key into a short-lived public URL.
type CoverURLs interface {
	PresignGet(ctx context.Context, key string) (string, error)
}

type Handler struct {
	Store    Store
	Visits   VisitCounter
	Views    ViewRecorder // optional
	Covers   CoverURLs    // optional
	Pages    *httpx.Pages
	PageSize int

	now func() time.Time
}

func New(store Store, visits VisitCounter, pages *httpx.Pages, pageSize int) *Handler {
	return &Handler{Store: store, Visits: visits, Pages: pages, PageSize: pageSize, now: time.Now}
}

// fail renders err, treating a missing row as 404.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalogstore.ErrNotFound) {
		err = apperr.NotFound()
	}
	h.Pages.Error(w, r, err)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.Pages.Error(w, r, apperr.NotFound())
}

func intID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func copyID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}

// pageOf validates ?page= against total; an out-of-range page is a 404.
func (h *Handler) pageOf(r *http.Request, total int) (*paginate.Page, error) {
	p, err := paginate.New(total, h.PageSize, r.URL.Query().Get("page"))
	if err != nil {
		return nil, apperr.NotFound()
	}
	return &p, nil
}
