package catalog

import (
	"net/http"

	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/web/view"
)

// Index: GET /catalog/
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Store.Counts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// a failed counter still renders the page, showing 0
	visits, err := h.Visits.CountVisit(w, r)
	if err != nil {
		logger.FromContext(r.Context()).Warn("count visit", logger.Fields{"error": err.Error()})
	}

	h.Pages.Render(w, r, http.StatusOK, view.PageIndex, nil, view.IndexData{
		NumBooks:              counts.Books,
		NumInstances:          counts.Copies,
		NumInstancesAvailable: counts.Available,
		NumAuthors:            counts.Authors,
		NumGenres:             counts.Genres,
		NumVisits:             visits,
	})
}
