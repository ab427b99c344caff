package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/5w1tchy/locallibrary/internal/auth"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	catalogstore "github.com/5w1tchy/locallibrary/internal/store/catalog"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load a demo catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "clear", Usage: "Delete the existing catalog first"},
			&cli.StringFlag{Name: "borrower", Usage: "Username that borrows the on-loan copies"},
			&cli.Uint64Flag{Name: "seed", Usage: "Random seed for copy statuses", Value: 1},
		},
		Action: func(c *cli.Context) error {
			db, _, log, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			var borrower *int64
			if name := c.String("borrower"); name != "" {
				u, err := auth.NewSQLStore(db).FindByUsername(c.Context, name)
				if err != nil {
					return fmt.Errorf("borrower %q: %w", name, err)
				}
				borrower = &u.ID
			}

			rng := rand.New(rand.NewPCG(c.Uint64("seed"), 0))
			var stats seedStats
			err = dbx.WithinTx(c.Context, db, func(tx *sql.Tx) error {
				w := catalogstore.NewWriter(tx)
				if c.Bool("clear") {
					if err := w.Clear(c.Context); err != nil {
						return fmt.Errorf("clear: %w", err)
					}
				}
				var err error
				stats, err = seedCatalog(c.Context, w, rng, borrower, time.Now())
				return err
			})
			if err != nil {
				return err
			}
			log.Info("catalog seeded", logger.Fields{
				"genres": stats.Genres, "authors": stats.Authors, "books": stats.Books, "copies": stats.Copies,
			})
			return nil
		},
	}
}

type catalogWriter interface {
	CreateGenre(ctx context.Context, name string) (int64, error)
	CreateAuthor(ctx context.Context, a models.Author) (int64, error)
	CreateBook(ctx context.Context, b models.Book) (int64, error)
	CreateCopy(ctx context.Context, c models.BookInstance) error
}

type seedStats struct {
	Genres, Authors, Books, Copies int
}

var seedGenres = []string{"Fiction", "Science Fiction", "Gothic", "Mystery", "Adventure"}

var seedAuthors = []struct {
	first, last, born, died string
}{
	{"Jane", "Austen", "1775-12-16", "1817-07-18"},
	{"Charles", "Dickens", "1812-02-07", "1870-06-09"},
	{"Mary", "Shelley", "1797-08-30", "1851-02-01"},
	{"Leo", "Tolstoy", "1828-09-09", "1910-11-20"},
	{"Fyodor", "Dostoevsky", "1821-11-11", "1881-02-09"},
	{"Herman", "Melville", "1819-08-01", "1891-09-28"},
	{"Jules", "Verne", "1828-02-08", "1905-03-24"},
	{"H. G.", "Wells", "1866-09-21", "1946-08-13"},
	{"Arthur Conan", "Doyle", "1859-05-22", "1930-07-07"},
	{"Virginia", "Woolf", "1882-01-25", "1941-03-28"},
}

// author and genre fields index into seedAuthors and seedGenres
var seedBooks = []struct {
	title    string
	author   int
	genres   []int
	language string
}{
	{"Pride and Prejudice", 0, []int{0}, "English"},
	{"Emma", 0, []int{0}, "English"},
	{"Persuasion", 0, []int{0}, "English"},
	{"Great Expectations", 1, []int{0}, "English"},
	{"Oliver Twist", 1, []int{0}, "English"},
	{"Frankenstein", 2, []int{2, 1}, "English"},
	{"The Last Man", 2, []int{1}, "English"},
	{"War and Peace", 3, []int{0}, "Russian"},
	{"Anna Karenina", 3, []int{0}, "Russian"},
	{"Crime and Punishment", 4, []int{0, 3}, "Russian"},
	{"The Idiot", 4, []int{0}, "Russian"},
	{"Moby-Dick", 5, []int{4, 0}, "English"},
	{"Twenty Thousand Leagues Under the Seas", 6, []int{4, 1}, "French"},
	{"Around the World in Eighty Days", 6, []int{4}, "French"},
	{"The Time Machine", 7, []int{1}, "English"},
	{"The War of the Worlds", 7, []int{1}, "English"},
	{"A Study in Scarlet", 8, []int{3}, "English"},
	{"The Hound of the Baskervilles", 8, []int{3, 2}, "English"},
	{"Mrs Dalloway", 9, []int{0}, "English"},
	{"To the Lighthouse", 9, []int{0}, "English"},
}

var publishers = []string{"Penguin Classics", "Oxford World's Classics", "Vintage", "Everyman's Library"}

// seedCatalog loads the demo data set. Each book gets one to three copies in
// random states; copies on loan go to borrower when one is given.
func seedCatalog(ctx context.Context, w catalogWriter, rng *rand.Rand, borrower *int64, now time.Time) (seedStats, error) {
	var stats seedStats

	genreIDs := make([]int64, len(seedGenres))
	for i, name := range seedGenres {
		id, err := w.CreateGenre(ctx, name)
		if err != nil {
			return stats, fmt.Errorf("genre %q: %w", name, err)
		}
		genreIDs[i] = id
		stats.Genres++
	}

	authorIDs := make([]int64, len(seedAuthors))
	for i, a := range seedAuthors {
		id, err := w.CreateAuthor(ctx, models.Author{
			FirstName:   a.first,
			LastName:    a.last,
			DateOfBirth: seedDate(a.born),
			DateOfDeath: seedDate(a.died),
		})
		if err != nil {
			return stats, fmt.Errorf("author %s: %w", a.last, err)
		}
		authorIDs[i] = id
		stats.Authors++
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i, b := range seedBooks {
		book := models.Book{
			Title:    b.title,
			Author:   &models.Author{ID: authorIDs[b.author]},
			Summary:  fmt.Sprintf("%s by %s %s.", b.title, seedAuthors[b.author].first, seedAuthors[b.author].last),
			ISBN:     fmt.Sprintf("978%010d", i+1),
			Language: b.language,
		}
		for _, g := range b.genres {
			book.Genres = append(book.Genres, models.Genre{ID: genreIDs[g], Name: seedGenres[g]})
		}
		bookID, err := w.CreateBook(ctx, book)
		if err != nil {
			return stats, fmt.Errorf("book %q: %w", b.title, err)
		}
		stats.Books++

		for n := rng.IntN(3) + 1; n > 0; n-- {
			c := models.BookInstance{
				ID:      uuid.New(),
				BookID:  bookID,
				Imprint: fmt.Sprintf("%s, %d", publishers[rng.IntN(len(publishers))], 1990+rng.IntN(35)),
				Status:  models.LoanStatuses[rng.IntN(len(models.LoanStatuses))],
			}
			if c.Status != models.StatusAvailable {
				due := today.AddDate(0, 0, rng.IntN(30)-10)
				c.DueBack = &due
			}
			if c.Status == models.StatusOnLoan {
				c.BorrowerID = borrower
			}
			if err := w.CreateCopy(ctx, c); err != nil {
				return stats, fmt.Errorf("copy of %q: %w", b.title, err)
			}
			stats.Copies++
		}
	}
	return stats, nil
}

func seedDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}
