package models

import "time"

// Permission codenames.
const (
	PermMarkReturned = "catalog.can_mark_returned"
	PermRenew        = "catalog.can_renew"
	PermAddAuthor    = "catalog.add_author"
	PermChangeAuthor = "catalog.change_author"
	PermDeleteAuthor = "catalog.delete_author"
)

var AllPermissions = []string{PermMarkReturned, PermRenew, PermAddAuthor, PermChangeAuthor, PermDeleteAuthor}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsSuperuser  bool
	TokenVersion int
	CreatedAt    time.Time
}

// Viewer is the per-request identity handed to templates and guards. The zero
// value is an anonymous visitor.
type Viewer struct {
	UserID      int64
	Username    string
	Superuser   bool
	Permissions map[string]struct{}
	SessionID   string
}

func (v Viewer) IsAuthenticated() bool { return v.UserID != 0 }

// HasPerm is true for superusers and for explicitly granted codenames.
func (v Viewer) HasPerm(codename string) bool {
	if !v.IsAuthenticated() {
		return false
	}
	if v.Superuser {
		return true
	}
	_, ok := v.Permissions[codename]
	return ok
}
