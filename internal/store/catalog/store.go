// Package catalogstore is the Postgres data access for books, authors and
// copies. List queries are built with squirrel; single-row lookups are raw SQL.
package catalogstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

var ErrNotFound = errors.New("not found")

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store { return &Store{DB: db} }

// Counts backs the home page.
type Counts struct {
	Books     int
	Copies    int
	Available int
	Authors   int
	Genres    int
}

func (s *Store) Counts(ctx context.Context) (Counts, error) {
	const q = `
	SELECT
		(SELECT COUNT(*) FROM books),
		(SELECT COUNT(*) FROM book_instances),
		(SELECT COUNT(*) FROM book_instances WHERE status = $1),
		(SELECT COUNT(*) FROM authors),
		(SELECT COUNT(*) FROM genres)`
	var c Counts
	err := dbx.Get(ctx, s.DB, q, string(models.StatusAvailable)).
		Scan(&c.Books, &c.Copies, &c.Available, &c.Authors, &c.Genres)
	return c, err
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func count(ctx context.Context, db dbx.Getter, b squirrel.SelectBuilder) (int, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = dbx.Get(ctx, db, q, args...).Scan(&n)
	return n, err
}

func page(b squirrel.SelectBuilder, limit, offset int) squirrel.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}
