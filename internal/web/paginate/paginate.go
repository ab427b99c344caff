package paginate

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidPage = errors.New("invalid page")

// Page is one window over an ordered result set.
type Page struct {
	Number   int
	NumPages int
	PerPage  int
	Total    int
}

// New validates rawPage against total items split into perPage-sized pages.
// An empty raw value means page 1; anything else must be an in-range integer
// ("last" is accepted too). An empty result still has one page.
func New(total, perPage int, rawPage string) (Page, error) {
	if perPage < 1 {
		perPage = 1
	}
	if total < 0 {
		total = 0
	}
	num := (total + perPage - 1) / perPage
	if num < 1 {
		num = 1
	}

	p := Page{Number: 1, NumPages: num, PerPage: perPage, Total: total}
	raw := strings.TrimSpace(rawPage)
	switch raw {
	case "":
		return p, nil
	case "last":
		p.Number = num
		return p, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > num {
		return Page{}, ErrInvalidPage
	}
	p.Number = n
	return p, nil
}

func (p Page) HasPrevious() bool       { return p.Number > 1 }
func (p Page) HasNext() bool           { return p.Number < p.NumPages }
func (p Page) PreviousPageNumber() int { return p.Number - 1 }
func (p Page) NextPageNumber() int     { return p.Number + 1 }

// IsPaginated is true when there is more than one page to navigate.
func (p Page) IsPaginated() bool { return p.NumPages > 1 }

func (p Page) Offset() int { return (p.Number - 1) * p.PerPage }
func (p Page) Limit() int  { return p.PerPage }
