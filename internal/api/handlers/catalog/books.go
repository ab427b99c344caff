package catalog

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/5w1tchy/locallibrary/internal/api/httpx"
	"github.com/5w1tchy/locallibrary/internal/api/middlewares"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/web/view"
)

// BookList: GET /catalog/books/
func (h *Handler) BookList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	total, err := h.Store.CountBooks(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.pageOf(r, total)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	books, err := h.Store.ListBooks(ctx, page.Limit(), page.Offset())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Pages.Render(w, r, http.StatusOK, view.PageBookList, page, view.BookListData{Books: books})
}

// BookDetail: GET /catalog/books/{id}/
func (h *Handler) BookDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := intID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	ctx := r.Context()
	book, err := h.Store.GetBook(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	copies, err := h.Store.ListCopies(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	viewer := middlewares.ViewerFrom(ctx)
	if h.Views != nil {
		h.Views.Record(book.ID, viewer.UserID)
	}

	canReturn := viewer.HasPerm(models.PermMarkReturned)
	h.Pages.Render(w, r, http.StatusOK, view.PageBookDetail, nil, view.BookDetailData{
		Book: book,
		Copies: lo.Map(copies, func(c models.BookInstance, _ int) models.CopyView {
			return models.PresentCopy(c, canReturn)
		}),
	})
}

// BookCover: GET /catalog/books/{id}/cover redirects to a presigned URL.
func (h *Handler) BookCover(w http.ResponseWriter, r *http.Request) {
	id, ok := intID(r)
	if !ok || h.Covers == nil {
		h.notFound(w, r)
		return
	}
	key, err := h.Store.CoverKey(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.Covers.PresignGet(r.Context(), key)
	if err != nil {
		logger.FromContext(r.Context()).Error("presign cover", err, logger.Fields{"book_id": id})
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "private, max-age=300")
	httpx.Redirect(w, r, u)
}
