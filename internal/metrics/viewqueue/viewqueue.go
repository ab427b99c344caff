// Package viewqueue batches book detail views into book_view_events off the
// request path.
package viewqueue

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

type event struct {
	bookID   int64
	viewerID int64
	viewedAt time.Time
}

type Options struct {
	Buffer       int
	Workers      int
	BatchSize    int
	FlushEvery   time.Duration
	WriteTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Buffer:       10000,
		Workers:      2,
		BatchSize:    100,
		FlushEvery:   250 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
}

// Queue is safe for concurrent use. Record never blocks; when the buffer is
// full the event is dropped.
type Queue struct {
	db   dbx.Execer
	log  *logger.Logger
	opts Options

	ch      chan event
	done    chan struct{}
	wg      sync.WaitGroup
	start   sync.Once
	stop    sync.Once
	closed  atomic.Bool
	dropped atomic.Int64

	now func() time.Time
}

func New(db dbx.Execer, log *logger.Logger, opts Options) *Queue {
	def := DefaultOptions()
	if opts.Buffer <= 0 {
		opts.Buffer = def.Buffer
	}
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = def.BatchSize
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = def.FlushEvery
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Queue{
		db:   db,
		log:  log,
		opts: opts,
		ch:   make(chan event, opts.Buffer),
		done: make(chan struct{}),
		now:  time.Now,
	}
}

// Start spins up the workers; later calls are no-ops.
func (q *Queue) Start() {
	q.start.Do(func() {
		for i := 0; i < q.opts.Workers; i++ {
			q.wg.Add(1)
			go q.worker()
		}
	})
}

// Record queues one view. viewerID 0 means anonymous.
func (q *Queue) Record(bookID, viewerID int64) {
	if bookID <= 0 || q.closed.Load() {
		return
	}
	ev := event{bookID: bookID, viewerID: viewerID, viewedAt: q.now().UTC()}
	select {
	case q.ch <- ev:
	default:
		q.dropped.Add(1)
	}
}

// Dropped counts events lost to a full buffer.
func (q *Queue) Dropped() int64 { return q.dropped.Load() }

// Shutdown stops accepting events, flushes what is queued and waits for the
// workers, or for ctx.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.stop.Do(func() {
		q.closed.Store(true)
		close(q.done)
	})
	finished := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		if n := q.Dropped(); n > 0 {
			q.log.Warn("view events dropped", logger.Fields{"count": n})
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	tk := time.NewTicker(q.opts.FlushEvery)
	defer tk.Stop()

	batch := make([]event, 0, q.opts.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := q.insert(batch); err != nil {
			q.log.Error("insert view events", err, logger.Fields{"count": len(batch)})
		}
		batch = batch[:0]
	}
	add := func(ev event) {
		batch = append(batch, ev)
		if len(batch) >= q.opts.BatchSize {
			flush()
		}
	}

	for {
		select {
		case <-q.done:
			for {
				select {
				case ev := <-q.ch:
					add(ev)
				default:
					flush()
					return
				}
			}
		case ev := <-q.ch:
			add(ev)
		case <-tk.C:
			flush()
		}
	}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (q *Queue) insert(batch []event) error {
	b := psql.Insert("book_view_events").Columns("book_id", "viewer_id", "viewed_at")
	for _, ev := range batch {
		b = b.Values(ev.bookID, sql.NullInt64{Int64: ev.viewerID, Valid: ev.viewerID != 0}, ev.viewedAt)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), q.opts.WriteTimeout)
	defer cancel()
	_, err = dbx.Exec(ctx, q.db, query, args...)
	return err
}
