package catalog

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/5w1tchy/locallibrary/internal/api/httpx"
	"github.com/5w1tchy/locallibrary/internal/api/middlewares"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/validate"
	"github.com/5w1tchy/locallibrary/internal/web/urls"
	"github.com/5w1tchy/locallibrary/internal/web/view"
)

// MyBorrowed: GET /catalog/mybooks/ lists the viewer's copies on loan,
// soonest due first.
func (h *Handler) MyBorrowed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middlewares.ViewerFrom(ctx)
	total, err := h.Store.CountBorrowed(ctx, viewer.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.pageOf(r, total)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	copies, err := h.Store.ListBorrowed(ctx, viewer.UserID, page.Limit(), page.Offset())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	now := h.now()
	h.Pages.Render(w, r, http.StatusOK, view.PageBorrowed, page, view.BorrowedData{
		Copies: lo.Map(copies, func(c models.BookInstance, _ int) view.BorrowedCopy {
			return view.BorrowedCopy{Copy: c, Overdue: c.IsOverdue(now)}
		}),
	})
}

// MarkReturnedForm: GET /catalog/books/{id}/return/
func (h *Handler) MarkReturnedForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCopy(w, r)
	if !ok {
		return
	}
	h.Pages.Render(w, r, http.StatusOK, view.PageMarkReturned, nil, view.MarkReturnedData{Copy: c})
}

// MarkReturned: POST /catalog/books/{id}/return/ makes the copy available
// again and goes back to its book.
func (h *Handler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	id, ok := copyID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	bookID, err := h.Store.MarkReturned(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("copy returned", logger.Fields{
		"copy_id": id.String(),
		"by":      middlewares.ViewerFrom(r.Context()).UserID,
	})
	httpx.Redirect(w, r, urls.MustReverse(urls.BookDetail, bookID))
}

// RenewForm: GET /catalog/books/{id}/renew/ proposes a date three weeks out.
func (h *Handler) RenewForm(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCopy(w, r)
	if !ok {
		return
	}
	h.Pages.Render(w, r, http.StatusOK, view.PageRenew, nil, view.RenewData{
		Copy:        c,
		RenewalDate: validate.DefaultRenewalDate(h.now()).Format(validate.DateLayout),
	})
}

// Renew: POST /catalog/books/{id}/renew/
func (h *Handler) Renew(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCopy(w, r)
	if !ok {
		return
	}
	raw := r.PostFormValue("renewal_date")
	due, err := validate.RenewalDate(raw, h.now())
	if err != nil {
		h.Pages.Render(w, r, http.StatusOK, view.PageRenew, nil, view.RenewData{
			Copy:        c,
			RenewalDate: raw,
			Error:       validate.Message(err),
		})
		return
	}
	if err := h.Store.Renew(r.Context(), c.ID, due); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Redirect(w, r, urls.MustReverse(urls.BookDetail, c.BookID))
}

func (h *Handler) loadCopy(w http.ResponseWriter, r *http.Request) (models.BookInstance, bool) {
	id, ok := copyID(r)
	if !ok {
		h.notFound(w, r)
		return models.BookInstance{}, false
	}
	c, err := h.Store.GetCopy(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return models.BookInstance{}, false
	}
	return c, true
}
