package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/locallibrary/internal/models"
)

type recordingWriter struct {
	genres  []string
	authors []models.Author
	books   []models.Book
	copies  []models.BookInstance
	failOn  string
}

func (w *recordingWriter) CreateGenre(_ context.Context, name string) (int64, error) {
	w.genres = append(w.genres, name)
	return int64(len(w.genres)), nil
}

func (w *recordingWriter) CreateAuthor(_ context.Context, a models.Author) (int64, error) {
	w.authors = append(w.authors, a)
	return int64(100 + len(w.authors)), nil
}

func (w *recordingWriter) CreateBook(_ context.Context, b models.Book) (int64, error) {
	if b.Title == w.failOn {
		return 0, errors.New("duplicate isbn")
	}
	w.books = append(w.books, b)
	return int64(1000 + len(w.books)), nil
}

func (w *recordingWriter) CreateCopy(_ context.Context, c models.BookInstance) error {
	w.copies = append(w.copies, c)
	return nil
}

func TestSeedCatalog(t *testing.T) {
	w := &recordingWriter{}
	borrower := int64(5)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	stats, err := seedCatalog(t.Context(), w, rand.New(rand.NewPCG(1, 0)), &borrower, now)
	require.NoError(t, err)

	assert.Equal(t, seedStats{Genres: 5, Authors: 10, Books: 20, Copies: len(w.copies)}, stats)
	assert.GreaterOrEqual(t, len(w.copies), 20)
	assert.LessOrEqual(t, len(w.copies), 60)

	isbns := map[string]bool{}
	for _, b := range w.books {
		require.NotNil(t, b.Author)
		assert.GreaterOrEqual(t, b.Author.ID, int64(101))
		assert.Len(t, b.ISBN, models.MaxLengthISBN)
		assert.NotEmpty(t, b.Genres)
		isbns[b.ISBN] = true
	}
	assert.Len(t, isbns, 20)

	for _, c := range w.copies {
		if c.Status == models.StatusAvailable {
			assert.Nil(t, c.DueBack)
		} else {
			assert.NotNil(t, c.DueBack)
		}
		if c.Status == models.StatusOnLoan {
			assert.Equal(t, &borrower, c.BorrowerID)
		} else {
			assert.Nil(t, c.BorrowerID)
		}
	}
	assert.Equal(t, "Woolf", w.authors[9].LastName)
	assert.True(t, w.authors[9].DateOfDeath.After(*w.authors[9].DateOfBirth))
}

func TestSeedCatalog_Deterministic(t *testing.T) {
	now := time.Now()
	a, b := &recordingWriter{}, &recordingWriter{}
	_, err := seedCatalog(t.Context(), a, rand.New(rand.NewPCG(7, 0)), nil, now)
	require.NoError(t, err)
	_, err = seedCatalog(t.Context(), b, rand.New(rand.NewPCG(7, 0)), nil, now)
	require.NoError(t, err)

	require.Len(t, b.copies, len(a.copies))
	for i := range a.copies {
		assert.Equal(t, a.copies[i].Status, b.copies[i].Status)
		assert.Equal(t, a.copies[i].Imprint, b.copies[i].Imprint)
	}
}

func TestSeedCatalog_StopsOnError(t *testing.T) {
	w := &recordingWriter{failOn: "Emma"}
	stats, err := seedCatalog(t.Context(), w, rand.New(rand.NewPCG(1, 0)), nil, time.Now())
	assert.ErrorContains(t, err, `book "Emma"`)
	assert.Equal(t, 1, stats.Books)
}
