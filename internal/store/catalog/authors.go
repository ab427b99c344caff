package catalogstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

const authorColumns = `id, first_name, last_name, date_of_birth, date_of_death`

func scanAuthor(row interface{ Scan(...any) error }) (models.Author, error) {
	var a models.Author
	var born, died sql.NullTime
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &born, &died); err != nil {
		return models.Author{}, err
	}
	a.DateOfBirth = nullTime(born)
	a.DateOfDeath = nullTime(died)
	return a, nil
}

func (s *Store) CountAuthors(ctx context.Context) (int, error) {
	return count(ctx, s.DB, psql.Select("COUNT(*)").From("authors"))
}

// ListAuthors returns one page ordered by last name, then first name.
func (s *Store) ListAuthors(ctx context.Context, limit, offset int) ([]models.Author, error) {
	q, args, err := page(psql.Select(authorColumns).From("authors").
		OrderBy("last_name", "first_name", "id"), limit, offset).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := dbx.Query(ctx, s.DB, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Author
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetAuthor(ctx context.Context, id int64) (models.Author, error) {
	a, err := scanAuthor(dbx.Get(ctx, s.DB, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id))
	if err != nil {
		return models.Author{}, notFound(err)
	}
	return a, nil
}

func (s *Store) CreateAuthor(ctx context.Context, a models.Author) (int64, error) {
	var id int64
	err := dbx.Get(ctx, s.DB,
		`INSERT INTO authors (first_name, last_name, date_of_birth, date_of_death) VALUES ($1, $2, $3, $4) RETURNING id`,
		a.FirstName, a.LastName, dateArg(a.DateOfBirth), dateArg(a.DateOfDeath),
	).Scan(&id)
	return id, err
}

func (s *Store) UpdateAuthor(ctx context.Context, a models.Author) error {
	q, args, err := psql.Update("authors").SetMap(squirrel.Eq{
		"first_name":    a.FirstName,
		"last_name":     a.LastName,
		"date_of_birth": dateArg(a.DateOfBirth),
		"date_of_death": dateArg(a.DateOfDeath),
	}).Where(squirrel.Eq{"id": a.ID}).ToSql()
	if err != nil {
		return err
	}
	res, err := dbx.Exec(ctx, s.DB, q, args...)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// DeleteAuthor removes the author; their books stay with no author.
func (s *Store) DeleteAuthor(ctx context.Context, id int64) error {
	res, err := dbx.Exec(ctx, s.DB, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// dateArg turns an optional date into a driver value, NULL when absent.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
