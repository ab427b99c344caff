package catalogstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

var bookColumns = []string{
	"b.id", "b.title", "b.summary", "b.isbn", "b.language", "b.cover_key",
	"a.id", "a.first_name", "a.last_name", "a.date_of_birth", "a.date_of_death",
}

func booksQuery() squirrel.SelectBuilder {
	return psql.Select(bookColumns...).
		From("books b").
		LeftJoin("authors a ON a.id = b.author_id")
}

func scanBook(row interface{ Scan(...any) error }) (models.Book, error) {
	var (
		b      models.Book
		aID    sql.NullInt64
		aFirst sql.NullString
		aLast  sql.NullString
		aBorn  sql.NullTime
		aDied  sql.NullTime
	)
	if err := row.Scan(&b.ID, &b.Title, &b.Summary, &b.ISBN, &b.Language, &b.CoverKey,
		&aID, &aFirst, &aLast, &aBorn, &aDied); err != nil {
		return models.Book{}, err
	}
	if aID.Valid {
		b.Author = &models.Author{
			ID:          aID.Int64,
			FirstName:   aFirst.String,
			LastName:    aLast.String,
			DateOfBirth: nullTime(aBorn),
			DateOfDeath: nullTime(aDied),
		}
	}
	return b, nil
}

func (s *Store) CountBooks(ctx context.Context) (int, error) {
	return count(ctx, s.DB, psql.Select("COUNT(*)").From("books"))
}

// ListBooks returns one page of books ordered by title, with author and genres.
func (s *Store) ListBooks(ctx context.Context, limit, offset int) ([]models.Book, error) {
	return s.queryBooks(ctx, page(booksQuery().OrderBy("b.title", "b.id"), limit, offset))
}

// BooksByAuthor lists every book written by authorID.
func (s *Store) BooksByAuthor(ctx context.Context, authorID int64) ([]models.Book, error) {
	return s.queryBooks(ctx, booksQuery().Where(squirrel.Eq{"b.author_id": authorID}).OrderBy("b.title", "b.id"))
}

func (s *Store) GetBook(ctx context.Context, id int64) (models.Book, error) {
	q, args, err := booksQuery().Where(squirrel.Eq{"b.id": id}).ToSql()
	if err != nil {
		return models.Book{}, err
	}
	b, err := scanBook(dbx.Get(ctx, s.DB, q, args...))
	if err != nil {
		return models.Book{}, notFound(err)
	}
	genres, err := s.genresFor(ctx, []int64{b.ID})
	if err != nil {
		return models.Book{}, err
	}
	b.Genres = genres[b.ID]
	return b, nil
}

func (s *Store) queryBooks(ctx context.Context, b squirrel.SelectBuilder) ([]models.Book, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := dbx.Query(ctx, s.DB, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	genres, err := s.genresFor(ctx, lo.Map(out, func(b models.Book, _ int) int64 { return b.ID }))
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Genres = genres[out[i].ID]
	}
	return out, nil
}

// genresFor loads genres for many books in one round trip, in genre id order.
func (s *Store) genresFor(ctx context.Context, bookIDs []int64) (map[int64][]models.Genre, error) {
	q, args, err := psql.Select("bg.book_id", "g.id", "g.name").
		From("book_genres bg").
		Join("genres g ON g.id = bg.genre_id").
		Where(squirrel.Eq{"bg.book_id": bookIDs}).
		OrderBy("bg.book_id", "g.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := dbx.Query(ctx, s.DB, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.Genre, len(bookIDs))
	for rows.Next() {
		var bookID int64
		var g models.Genre
		if err := rows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return nil, err
		}
		out[bookID] = append(out[bookID], g)
	}
	return out, rows.Err()
}

// SetCover records the object key of a book's cover image.
func (s *Store) SetCover(ctx context.Context, bookID int64, key string) error {
	res, err := dbx.Exec(ctx, s.DB, `UPDATE books SET cover_key = $1 WHERE id = $2`, key, bookID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// CoverKey returns the cover object key, or ErrNotFound when the book has none.
func (s *Store) CoverKey(ctx context.Context, bookID int64) (string, error) {
	var key string
	err := dbx.Get(ctx, s.DB, `SELECT cover_key FROM books WHERE id = $1`, bookID).Scan(&key)
	if err != nil {
		return "", notFound(err)
	}
	if key == "" {
		return "", ErrNotFound
	}
	return key, nil
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
