package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

var ErrUserNotFound = errors.New("user not found")

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	Permissions(ctx context.Context, userID int64) ([]string, error)
	CreateUser(ctx context.Context, username, passwordHash string, superuser bool) (models.User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error
	GrantPermission(ctx context.Context, userID int64, codename string) error
	RevokeSessions(ctx context.Context, userID int64) error
}

type SQLStore struct {
	DB dbx.DBTX
}

func NewSQLStore(db dbx.DBTX) *SQLStore { return &SQLStore{DB: db} }

const userColumns = `id, username, password_hash, is_superuser, token_version, created_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsSuperuser, &u.TokenVersion, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return u, err
}

func (s *SQLStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return scanUser(dbx.Get(ctx, s.DB, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (s *SQLStore) FindByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(dbx.Get(ctx, s.DB, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *SQLStore) Permissions(ctx context.Context, userID int64) ([]string, error) {
	rows, err := dbx.Query(ctx, s.DB, `SELECT codename FROM user_permissions WHERE user_id = $1 ORDER BY codename`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateUser(ctx context.Context, username, passwordHash string, superuser bool) (models.User, error) {
	const q = `
		INSERT INTO users (username, password_hash, is_superuser)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	u, err := scanUser(dbx.Get(ctx, s.DB, q, username, passwordHash, superuser))
	if err != nil {
		return models.User{}, fmt.Errorf("create user %s: %w", username, err)
	}
	return u, nil
}

func (s *SQLStore) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	res, err := dbx.Exec(ctx, s.DB, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GrantPermission is idempotent.
func (s *SQLStore) GrantPermission(ctx context.Context, userID int64, codename string) error {
	_, err := dbx.Exec(ctx, s.DB, `
		INSERT INTO user_permissions (user_id, codename)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, codename)
	return err
}

// RevokeSessions bumps token_version so every existing session of the user
// stops loading.
func (s *SQLStore) RevokeSessions(ctx context.Context, userID int64) error {
	res, err := dbx.Exec(ctx, s.DB, `UPDATE users SET token_version = token_version + 1 WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
