package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/5w1tchy/locallibrary/internal/auth"
	"github.com/5w1tchy/locallibrary/internal/config"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/repository/sqlconnect"
	"github.com/5w1tchy/locallibrary/internal/security/password"
	"github.com/5w1tchy/locallibrary/internal/storage/s3"
	catalogstore "github.com/5w1tchy/locallibrary/internal/store/catalog"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

// openDB is setup plus a database connection, for the admin commands.
func openDB(c *cli.Context) (*sql.DB, *config.Config, *logger.Logger, error) {
	cfg, log, err := setup(c)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := sqlconnect.ConnectDB(c.Context, cfg.Database.URL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return db, cfg, log, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations",
		Action: func(c *cli.Context) error {
			db, _, log, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := sqlconnect.Migrate(c.Context, db)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				log.Info("schema is up to date")
				return nil
			}
			log.Info("migrations applied", logger.Fields{"versions": applied})
			return nil
		},
	}
}

func createUserCommand() *cli.Command {
	return &cli.Command{
		Name:  "createuser",
		Usage: "Create a login account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Usage: "Initial password (or CREATEUSER_PASSWORD)", EnvVars: []string{"CREATEUSER_PASSWORD"}, Required: true},
			&cli.BoolFlag{Name: "superuser", Usage: "Grant every permission"},
			&cli.StringSliceFlag{Name: "perm", Usage: "Permission codename to grant; repeatable"},
		},
		Action: func(c *cli.Context) error {
			perms := c.StringSlice("perm")
			if unknown := lo.Without(perms, models.AllPermissions...); len(unknown) > 0 {
				return fmt.Errorf("unknown permissions %v; known: %v", unknown, models.AllPermissions)
			}
			username := c.String("username")
			pwd, err := password.Validate(c.String("password"), username)
			if err != nil {
				return err
			}

			db, cfg, log, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			hasher := password.NewHasher(password.DefaultParams().WithCost(
				cfg.Auth.PasswordMemory, cfg.Auth.PasswordIterations, cfg.Auth.PasswordParallelism))
			phc, err := hasher.Hash(pwd)
			if err != nil {
				return err
			}

			var u models.User
			err = dbx.WithinTx(c.Context, db, func(tx *sql.Tx) error {
				users := auth.NewSQLStore(tx)
				var err error
				if u, err = users.CreateUser(c.Context, username, phc, c.Bool("superuser")); err != nil {
					return err
				}
				for _, p := range lo.Uniq(perms) {
					if err := users.GrantPermission(c.Context, u.ID, p); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			log.Info("user created", logger.Fields{"user_id": u.ID, "username": u.Username, "superuser": u.IsSuperuser, "perms": perms})
			return nil
		},
	}
}

func revokeSessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "revoke-sessions",
		Usage: "Sign a user out everywhere",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
		},
		Action: func(c *cli.Context) error {
			db, _, log, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			users := auth.NewSQLStore(db)
			u, err := users.FindByUsername(c.Context, c.String("username"))
			if err != nil {
				return err
			}
			if err := users.RevokeSessions(c.Context, u.ID); err != nil {
				return err
			}
			log.Info("sessions revoked", logger.Fields{"user_id": u.ID})
			return nil
		},
	}
}

func coverCommand() *cli.Command {
	return &cli.Command{
		Name:  "cover",
		Usage: "Upload a cover image for a book",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "book", Usage: "Book id", Required: true},
			&cli.StringFlag{Name: "file", Usage: "Image `FILE` (jpg, png, webp, gif)", Required: true},
		},
		Action: uploadCover,
	}
}

func uploadCover(c *cli.Context) error {
	bookID, path := c.Int64("book"), c.String("file")
	contentType, ok := s3.CoverContentType(path)
	if !ok {
		return fmt.Errorf("%s: not a supported image type", path)
	}

	db, cfg, log, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	store := catalogstore.New(db)
	if _, err := store.GetBook(ctx, bookID); err != nil {
		return fmt.Errorf("book %d: %w", bookID, err)
	}
	old, err := store.CoverKey(ctx, bookID)
	if err != nil && !errors.Is(err, catalogstore.ErrNotFound) {
		return err
	}

	client, err := s3.New(ctx, s3.FromConfig(cfg))
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	key := s3.CoverKey(bookID, path)
	if err := client.Upload(ctx, key, contentType, f); err != nil {
		return err
	}
	if err := store.SetCover(ctx, bookID, key); err != nil {
		_ = client.Delete(ctx, key)
		return fmt.Errorf("record cover: %w", err)
	}
	log.Info("cover uploaded", logger.Fields{"book_id": bookID, "key": key})

	if old != "" {
		if err := client.Delete(ctx, old); err != nil {
			log.Warn("old cover not deleted", logger.Fields{"key": old, "error": err.Error()})
		}
	}
	return nil
}
