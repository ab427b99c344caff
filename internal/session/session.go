// Package session keeps server-side visitor sessions. The browser only holds a
// signed token naming the session; everything else lives in a Store.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Data is one session record. UserID is zero for anonymous visitors.
type Data struct {
	ID           string
	UserID       int64
	TokenVersion int
	Visits       int64
	CreatedAt    time.Time
}

func (d Data) Authenticated() bool { return d.UserID != 0 }

type Store interface {
	Create(ctx context.Context, d Data, ttl time.Duration) error
	Get(ctx context.Context, id string) (Data, error)
	Delete(ctx context.Context, id string) error
	// IncrVisits bumps the visit counter and returns the new value. A missing
	// session yields ErrNotFound and is not recreated.
	IncrVisits(ctx context.Context, id string) (int64, error)
}
