// Package maintenance runs the scheduled database housekeeping jobs.
package maintenance

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/store/dbx"
)

// PruneViews deletes view events recorded before cutoff.
func PruneViews(ctx context.Context, db dbx.Execer, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM book_view_events WHERE viewed_at < $1`
	res, err := dbx.Exec(ctx, db, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune view events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune view events: %w", err)
	}
	return n, nil
}

// ParseRunAt reads "HH:MM"; anything malformed falls back to 03:00.
func ParseRunAt(s string) (h, m int) {
	h, m = 3, 0
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return h, m
	}
	hh, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return h, m
	}
	return hh, mm
}

// nextRun is the first h:m in loc strictly after now.
func nextRun(now time.Time, h, m int, loc *time.Location) time.Time {
	now = now.In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// StartViewRetention runs PruneViews once a day at runAt ("HH:MM") in tzName,
// keeping the last retention worth of events, until ctx is done.
func StartViewRetention(ctx context.Context, db dbx.Execer, retention time.Duration, runAt, tzName string, log *logger.Logger) {
	if retention <= 0 {
		log.Info("view retention disabled")
		return
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Warn("unknown maintenance timezone, using UTC", logger.Fields{"tz": tzName})
		loc = time.UTC
	}
	h, m := ParseRunAt(runAt)

	go func() {
		for {
			next := nextRun(time.Now(), h, m, loc)
			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				cutoff := time.Now().Add(-retention)
				n, err := PruneViews(ctx, db, cutoff)
				if err != nil {
					log.Error("view retention failed", err)
					continue
				}
				log.Info("view events pruned", logger.Fields{"deleted": n, "cutoff": cutoff.UTC().Format(time.RFC3339)})
			}
		}
	}()
}
