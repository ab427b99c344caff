package catalog

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/5w1tchy/locallibrary/internal/models"
	catalogstore "github.com/5w1tchy/locallibrary/internal/store/catalog"
)

type fakeStore struct {
	mu      sync.Mutex
	counts  catalogstore.Counts
	books   []models.Book
	authors map[int64]models.Author
	copies  []models.BookInstance
	covers  map[int64]string
	copyErr error
	nextID  int64
	renewed map[uuid.UUID]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{authors: map[int64]models.Author{}, covers: map[int64]string{}, renewed: map[uuid.UUID]time.Time{}, nextID: 100}
}

func (f *fakeStore) Counts(context.Context) (catalogstore.Counts, error) { return f.counts, nil }

func (f *fakeStore) CountBooks(context.Context) (int, error) { return len(f.books), nil }

func (f *fakeStore) ListBooks(_ context.Context, limit, offset int) ([]models.Book, error) {
	return window(f.books, limit, offset), nil
}

func (f *fakeStore) GetBook(_ context.Context, id int64) (models.Book, error) {
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Book{}, catalogstore.ErrNotFound
}

func (f *fakeStore) BooksByAuthor(_ context.Context, authorID int64) ([]models.Book, error) {
	var out []models.Book
	for _, b := range f.books {
		if b.Author != nil && b.Author.ID == authorID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) CoverKey(_ context.Context, bookID int64) (string, error) {
	if k, ok := f.covers[bookID]; ok {
		return k, nil
	}
	return "", catalogstore.ErrNotFound
}

func (f *fakeStore) ListCopies(_ context.Context, bookID int64) ([]models.BookInstance, error) {
	if f.copyErr != nil {
		return nil, f.copyErr
	}
	var out []models.BookInstance
	for _, c := range f.copies {
		if c.BookID == bookID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) sortedAuthors() []models.Author {
	out := make([]models.Author, 0, len(f.authors))
	for _, a := range f.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out
}

func (f *fakeStore) CountAuthors(context.Context) (int, error) { return len(f.authors), nil }

func (f *fakeStore) ListAuthors(_ context.Context, limit, offset int) ([]models.Author, error) {
	return window(f.sortedAuthors(), limit, offset), nil
}

func (f *fakeStore) GetAuthor(_ context.Context, id int64) (models.Author, error) {
	a, ok := f.authors[id]
	if !ok {
		return models.Author{}, catalogstore.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) CreateAuthor(_ context.Context, a models.Author) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = f.nextID
	f.authors[a.ID] = a
	return a.ID, nil
}

func (f *fakeStore) UpdateAuthor(_ context.Context, a models.Author) error {
	if _, ok := f.authors[a.ID]; !ok {
		return catalogstore.ErrNotFound
	}
	f.authors[a.ID] = a
	return nil
}

func (f *fakeStore) DeleteAuthor(_ context.Context, id int64) error {
	if _, ok := f.authors[id]; !ok {
		return catalogstore.ErrNotFound
	}
	delete(f.authors, id)
	for i := range f.books {
		if f.books[i].Author != nil && f.books[i].Author.ID == id {
			f.books[i].Author = nil
		}
	}
	return nil
}

func (f *fakeStore) borrowed(userID int64) []models.BookInstance {
	var out []models.BookInstance
	for _, c := range f.copies {
		if c.Status == models.StatusOnLoan && c.BorrowerID != nil && *c.BorrowerID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueBack.Before(*out[j].DueBack) })
	return out
}

func (f *fakeStore) CountBorrowed(_ context.Context, userID int64) (int, error) {
	return len(f.borrowed(userID)), nil
}

func (f *fakeStore) ListBorrowed(_ context.Context, userID int64, limit, offset int) ([]models.BookInstance, error) {
	return window(f.borrowed(userID), limit, offset), nil
}

func (f *fakeStore) GetCopy(_ context.Context, id uuid.UUID) (models.BookInstance, error) {
	for _, c := range f.copies {
		if c.ID == id {
			return c, nil
		}
	}
	return models.BookInstance{}, catalogstore.ErrNotFound
}

func (f *fakeStore) MarkReturned(_ context.Context, id uuid.UUID) (int64, error) {
	for i, c := range f.copies {
		if c.ID == id {
			f.copies[i].Status = models.StatusAvailable
			f.copies[i].BorrowerID = nil
			return c.BookID, nil
		}
	}
	return 0, catalogstore.ErrNotFound
}

func (f *fakeStore) Renew(_ context.Context, id uuid.UUID, due time.Time) error {
	for i, c := range f.copies {
		if c.ID == id {
			f.copies[i].DueBack = &due
			f.renewed[id] = due
			return nil
		}
	}
	return catalogstore.ErrNotFound
}

func window[T any](xs []T, limit, offset int) []T {
	if offset >= len(xs) {
		return nil
	}
	end := min(offset+limit, len(xs))
	return xs[offset:end]
}

type fakeVisits struct {
	n   int64
	err error
}

func (v *fakeVisits) CountVisit(http.ResponseWriter, *http.Request) (int64, error) {
	if v.err != nil {
		return 0, v.err
	}
	v.n++
	return v.n, nil
}

type viewLog struct {
	mu    sync.Mutex
	views [][2]int64
}

func (l *viewLog) Record(bookID, viewerID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.views = append(l.views, [2]int64{bookID, viewerID})
}

type fakeCovers struct{}

func (fakeCovers) PresignGet(_ context.Context, key string) (string, error) {
	return "https://covers.example/" + key + "?sig=1", nil
}
