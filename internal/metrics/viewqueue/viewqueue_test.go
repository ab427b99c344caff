package viewqueue

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/locallibrary/internal/logger"
)

func slowFlush() Options {
	return Options{Buffer: 16, Workers: 1, BatchSize: 100, FlushEvery: time.Hour, WriteTimeout: time.Second}
}

func TestQueue_FlushesOnShutdown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO book_view_events \(book_id,viewer_id,viewed_at\) VALUES \(\$1,\$2,\$3\),\(\$4,\$5,\$6\)`).
		WithArgs(int64(3), int64(7), sqlmock.AnyArg(), int64(4), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	q := New(db, logger.Nop(), slowFlush())
	q.Start()
	q.Record(3, 7)
	q.Record(4, 0)
	q.Record(0, 7) // ignored

	require.NoError(t, q.Shutdown(t.Context()))
	assert.NoError(t, mock.ExpectationsWereMet())

	// closed queues drop silently
	q.Record(5, 0)
	assert.Zero(t, q.Dropped())
}

func TestQueue_SplitsBatches(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO book_view_events`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO book_view_events`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO book_view_events`).WillReturnResult(sqlmock.NewResult(0, 1))

	opts := slowFlush()
	opts.BatchSize = 2
	q := New(db, logger.Nop(), opts)
	for i := int64(1); i <= 5; i++ {
		q.Record(i, 0)
	}
	q.Start()
	require.NoError(t, q.Shutdown(t.Context()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_DropsWhenFull(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	opts := slowFlush()
	opts.Buffer = 1
	q := New(db, logger.Nop(), opts)
	q.Record(1, 0)
	q.Record(2, 0)
	assert.Equal(t, int64(1), q.Dropped())

	// never started: nothing is written
	require.NoError(t, q.Shutdown(t.Context()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_InsertErrorIsSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO book_view_events`).WillReturnError(errors.New("relation does not exist"))

	q := New(db, logger.Nop(), slowFlush())
	q.Start()
	q.Record(1, 2)
	require.NoError(t, q.Shutdown(t.Context()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
