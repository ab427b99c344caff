package catalog

import (
	"net/http"

	"github.com/5w1tchy/locallibrary/internal/api/httpx"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/models"
	"github.com/5w1tchy/locallibrary/internal/validate"
	"github.com/5w1tchy/locallibrary/internal/web/urls"
	"github.com/5w1tchy/locallibrary/internal/web/view"
)

// AuthorList: GET /catalog/authors/
func (h *Handler) AuthorList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	total, err := h.Store.CountAuthors(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := h.pageOf(r, total)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	authors, err := h.Store.ListAuthors(ctx, page.Limit(), page.Offset())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Pages.Render(w, r, http.StatusOK, view.PageAuthorList, page, view.AuthorListData{Authors: authors})
}

// AuthorDetail: GET /catalog/authors/{id}/
func (h *Handler) AuthorDetail(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadAuthor(w, r)
	if !ok {
		return
	}
	books, err := h.Store.BooksByAuthor(r.Context(), a.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Pages.Render(w, r, http.StatusOK, view.PageAuthorDetail, nil, view.AuthorDetailData{Author: a, Books: books})
}

// AuthorCreateForm: GET /catalog/authors/create/
func (h *Handler) AuthorCreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderAuthorForm(w, r, http.StatusOK, view.AuthorFormData{})
}

// AuthorCreate: POST /catalog/authors/create/
func (h *Handler) AuthorCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.Fail(w, r, http.StatusBadRequest)
		return
	}
	a, errs := validate.AuthorForm(r.PostForm)
	if errs != nil {
		h.renderAuthorForm(w, r, http.StatusOK, view.AuthorFormData{Values: formValues(r), Errors: errs})
		return
	}
	id, err := h.Store.CreateAuthor(r.Context(), a)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("author created", logger.Fields{"author_id": id})
	httpx.Redirect(w, r, urls.MustReverse(urls.AuthorDetail, id))
}

// AuthorUpdateForm: GET /catalog/authors/{id}/update/
func (h *Handler) AuthorUpdateForm(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadAuthor(w, r)
	if !ok {
		return
	}
	h.renderAuthorForm(w, r, http.StatusOK, view.AuthorFormData{Author: &a, Values: validate.AuthorValues(a)})
}

// AuthorUpdate: POST /catalog/authors/{id}/update/
func (h *Handler) AuthorUpdate(w http.ResponseWriter, r *http.Request) {
	current, ok := h.loadAuthor(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.Pages.Fail(w, r, http.StatusBadRequest)
		return
	}
	a, errs := validate.AuthorForm(r.PostForm)
	if errs != nil {
		h.renderAuthorForm(w, r, http.StatusOK, view.AuthorFormData{Author: &current, Values: formValues(r), Errors: errs})
		return
	}
	a.ID = current.ID
	if err := h.Store.UpdateAuthor(r.Context(), a); err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Redirect(w, r, urls.MustReverse(urls.AuthorDetail, a.ID))
}

// AuthorDeleteForm: GET /catalog/authors/{id}/delete/
func (h *Handler) AuthorDeleteForm(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadAuthor(w, r)
	if !ok {
		return
	}
	h.Pages.Render(w, r, http.StatusOK, view.PageAuthorDelete, nil, view.AuthorDeleteData{Author: a})
}

// AuthorDelete: POST /catalog/authors/{id}/delete/. The author's books stay,
// with no author.
func (h *Handler) AuthorDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := intID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := h.Store.DeleteAuthor(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("author deleted", logger.Fields{"author_id": id})
	httpx.Redirect(w, r, urls.MustReverse(urls.Authors))
}

func (h *Handler) loadAuthor(w http.ResponseWriter, r *http.Request) (models.Author, bool) {
	id, ok := intID(r)
	if !ok {
		h.notFound(w, r)
		return models.Author{}, false
	}
	a, err := h.Store.GetAuthor(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return models.Author{}, false
	}
	return a, true
}

func (h *Handler) renderAuthorForm(w http.ResponseWriter, r *http.Request, status int, data view.AuthorFormData) {
	h.Pages.Render(w, r, status, view.PageAuthorForm, nil, data)
}

// formValues echoes the submitted author fields back into the form.
func formValues(r *http.Request) map[string]string {
	out := make(map[string]string, 4)
	for _, f := range []string{validate.FieldFirstName, validate.FieldLastName, validate.FieldDateOfBirth, validate.FieldDateOfDeath} {
		out[f] = r.PostForm.Get(f)
	}
	return out
}
