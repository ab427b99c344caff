package catalogstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

var copyColumns = []string{"c.id", "c.book_id", "b.title", "c.imprint", "c.due_back", "c.borrower_id", "c.status"}

func copiesQuery() squirrel.SelectBuilder {
	return psql.Select(copyColumns...).
		From("book_instances c").
		Join("books b ON b.id = c.book_id")
}

// scanCopy rejects status codes outside the known set.
func scanCopy(row interface{ Scan(...any) error }) (models.BookInstance, error) {
	var (
		c        models.BookInstance
		due      sql.NullTime
		borrower sql.NullInt64
		status   string
	)
	if err := row.Scan(&c.ID, &c.BookID, &c.BookTitle, &c.Imprint, &due, &borrower, &status); err != nil {
		return models.BookInstance{}, err
	}
	st, err := models.ParseLoanStatus(status)
	if err != nil {
		return models.BookInstance{}, fmt.Errorf("copy %s: %w", c.ID, err)
	}
	c.Status = st
	c.DueBack = nullTime(due)
	if borrower.Valid {
		id := borrower.Int64
		c.BorrowerID = &id
	}
	return c, nil
}

func (s *Store) queryCopies(ctx context.Context, b squirrel.SelectBuilder) ([]models.BookInstance, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := dbx.Query(ctx, s.DB, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BookInstance
	for rows.Next() {
		c, err := scanCopy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListCopies returns every copy of a book ordered by due date.
func (s *Store) ListCopies(ctx context.Context, bookID int64) ([]models.BookInstance, error) {
	return s.queryCopies(ctx, copiesQuery().Where(squirrel.Eq{"c.book_id": bookID}).OrderBy("c.due_back", "c.id"))
}

func borrowedBy(userID int64) squirrel.Eq {
	return squirrel.Eq{"c.borrower_id": userID, "c.status": string(models.StatusOnLoan)}
}

func (s *Store) CountBorrowed(ctx context.Context, userID int64) (int, error) {
	return count(ctx, s.DB, psql.Select("COUNT(*)").From("book_instances c").Where(borrowedBy(userID)))
}

// ListBorrowed returns the copies on loan to userID, soonest due first.
func (s *Store) ListBorrowed(ctx context.Context, userID int64, limit, offset int) ([]models.BookInstance, error) {
	return s.queryCopies(ctx, page(copiesQuery().Where(borrowedBy(userID)).OrderBy("c.due_back", "c.id"), limit, offset))
}

func (s *Store) GetCopy(ctx context.Context, id uuid.UUID) (models.BookInstance, error) {
	q, args, err := copiesQuery().Where(squirrel.Eq{"c.id": id.String()}).ToSql()
	if err != nil {
		return models.BookInstance{}, err
	}
	c, err := scanCopy(dbx.Get(ctx, s.DB, q, args...))
	if err != nil {
		return models.BookInstance{}, notFound(err)
	}
	return c, nil
}

// MarkReturned makes the copy Available and clears its borrower. It returns
// the id of the copy's book.
func (s *Store) MarkReturned(ctx context.Context, id uuid.UUID) (int64, error) {
	var bookID int64
	err := dbx.WithinTx(ctx, s.DB, func(tx *sql.Tx) error {
		err := dbx.Get(ctx, tx, `SELECT book_id FROM book_instances WHERE id = $1 FOR UPDATE`, id).Scan(&bookID)
		if err != nil {
			return notFound(err)
		}
		_, err = dbx.Exec(ctx, tx,
			`UPDATE book_instances SET status = $1, borrower_id = NULL WHERE id = $2`,
			string(models.StatusAvailable), id)
		return err
	})
	return bookID, err
}

// Renew moves the copy's due date.
func (s *Store) Renew(ctx context.Context, id uuid.UUID, due time.Time) error {
	res, err := dbx.Exec(ctx, s.DB, `UPDATE book_instances SET due_back = $1 WHERE id = $2`, due, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
