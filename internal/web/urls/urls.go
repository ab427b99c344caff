package urls

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Prefix is where the catalog app is mounted.
const Prefix = "/catalog"

// Route names used by handlers and templates.
const (
	Index        = "index"
	Books        = "books"
	BookDetail   = "book-detail"
	BookCover    = "book-cover"
	Authors      = "authors"
	AuthorDetail = "author-detail"
	AuthorCreate = "author-create"
	AuthorUpdate = "author-update"
	AuthorDelete = "author-delete"
	MyBorrowed   = "my-borrowed"
	MarkReturned = "mark-returned"
	RenewCopy    = "renew-book-librarian"
	Login        = "login"
	Logout       = "logout"
)

// patterns use ServeMux wildcards; the same strings are mounted by the router.
var patterns = map[string]string{
	Index:        Prefix + "/",
	Books:        Prefix + "/books/",
	BookDetail:   Prefix + "/books/{id}/",
	BookCover:    Prefix + "/books/{id}/cover",
	Authors:      Prefix + "/authors/",
	AuthorDetail: Prefix + "/authors/{id}/",
	AuthorCreate: Prefix + "/authors/create/",
	AuthorUpdate: Prefix + "/authors/{id}/update/",
	AuthorDelete: Prefix + "/authors/{id}/delete/",
	MyBorrowed:   Prefix + "/mybooks/",
	MarkReturned: Prefix + "/books/{id}/return/",
	RenewCopy:    Prefix + "/books/{id}/renew/",
	Login:        "/accounts/login/",
	Logout:       "/accounts/logout/",
}

var wildcardRe = regexp.MustCompile(`\{[a-z_]+\}`)

// Pattern returns the raw mux pattern for name; it panics on unknown names.
func Pattern(name string) string {
	p, ok := patterns[name]
	if !ok {
		panic("urls: unknown route " + name)
	}
	return p
}

// MuxPattern is Pattern anchored so trailing-slash routes match exactly
// rather than as subtrees.
func MuxPattern(name string) string {
	p := Pattern(name)
	if strings.HasSuffix(p, "/") {
		return p + "{$}"
	}
	return p
}

// Reverse fills the wildcards of the named route with args, in order.
func Reverse(name string, args ...any) (string, error) {
	p, ok := patterns[name]
	if !ok {
		return "", fmt.Errorf("urls: no route named %q", name)
	}
	holes := wildcardRe.FindAllStringIndex(p, -1)
	if len(holes) != len(args) {
		return "", fmt.Errorf("urls: route %q takes %d args, got %d", name, len(holes), len(args))
	}
	var b strings.Builder
	last := 0
	for i, h := range holes {
		b.WriteString(p[last:h[0]])
		b.WriteString(url.PathEscape(fmt.Sprint(args[i])))
		last = h[1]
	}
	b.WriteString(p[last:])
	return b.String(), nil
}

// MustReverse is Reverse for call sites where a bad name is a programming error.
func MustReverse(name string, args ...any) string {
	s, err := Reverse(name, args...)
	if err != nil {
		panic(err)
	}
	return s
}

// LoginWithNext builds the login URL carrying next as the redirect target.
func LoginWithNext(next string) string {
	return patterns[Login] + "?" + url.Values{"next": {next}}.Encode()
}

// SafeNext accepts only same-site absolute paths; anything else yields fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
