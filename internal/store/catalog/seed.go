package catalogstore

import (
	"context"
	"database/sql"

	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

// Writer inserts catalog rows. It runs against a *sql.DB or a *sql.Tx so the
// seeder can load a whole data set atomically.
type Writer struct {
	tx dbx.DBTX
}

func NewWriter(tx dbx.DBTX) *Writer { return &Writer{tx: tx} }

// Clear removes every catalog row, children first.
func (w *Writer) Clear(ctx context.Context) error {
	for _, q := range []string{
		`DELETE FROM book_view_events`,
		`DELETE FROM book_instances`,
		`DELETE FROM book_genres`,
		`DELETE FROM books`,
		`DELETE FROM authors`,
		`DELETE FROM genres`,
	} {
		if _, err := dbx.Exec(ctx, w.tx, q); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) CreateGenre(ctx context.Context, name string) (int64, error) {
	var id int64
	err := dbx.Get(ctx, w.tx, `INSERT INTO genres (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, err
}

func (w *Writer) CreateAuthor(ctx context.Context, a models.Author) (int64, error) {
	var id int64
	err := dbx.Get(ctx, w.tx,
		`INSERT INTO authors (first_name, last_name, date_of_birth, date_of_death) VALUES ($1, $2, $3, $4) RETURNING id`,
		a.FirstName, a.LastName, dateArg(a.DateOfBirth), dateArg(a.DateOfDeath),
	).Scan(&id)
	return id, err
}

// CreateBook inserts the book and its genre links.
func (w *Writer) CreateBook(ctx context.Context, b models.Book) (int64, error) {
	var authorID sql.NullInt64
	if b.Author != nil {
		authorID = sql.NullInt64{Int64: b.Author.ID, Valid: true}
	}
	var id int64
	err := dbx.Get(ctx, w.tx,
		`INSERT INTO books (title, author_id, summary, isbn, language) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		b.Title, authorID, b.Summary, b.ISBN, b.Language,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	for _, g := range b.Genres {
		if _, err := dbx.Exec(ctx, w.tx, `INSERT INTO book_genres (book_id, genre_id) VALUES ($1, $2)`, id, g.ID); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (w *Writer) CreateCopy(ctx context.Context, c models.BookInstance) error {
	var borrower sql.NullInt64
	if c.BorrowerID != nil {
		borrower = sql.NullInt64{Int64: *c.BorrowerID, Valid: true}
	}
	_, err := dbx.Exec(ctx, w.tx,
		`INSERT INTO book_instances (id, book_id, imprint, due_back, borrower_id, status) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.BookID, c.Imprint, dateArg(c.DueBack), borrower, string(c.Status),
	)
	return err
}
