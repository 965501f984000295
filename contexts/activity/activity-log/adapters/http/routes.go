package httpadapter

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainerrors "timecapsule/contexts/activity/activity-log/domain/errors"
	"timecapsule/contexts/activity/activity-log/transport/http"
	"timecapsule/contexts/shared/pagination"
	"timecapsule/internal/platform/httpx"
)

// Mount registers the module routes relative to its prefix.
func (h Handler) Mount(r chi.Router) {
	r.Get("/", h.listActivities)
}

// listActivities godoc
// @Summary List recorded request activity
// @Tags activity-log
// @Produce json
// @Param user_id query string false "Filter by user id"
// @Param method query string false "Filter by HTTP method"
// @Param cursor query string false "Cursor token"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} httptransport.ListActivitiesResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /activity-logs [get]
func (h Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	page, err := pagination.Parse(r.URL.Query(), pagination.StandardDefaults)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp, err := h.ListActivitiesHandler(r.Context(), httptransport.ListActivitiesRequest{
		UserID: r.URL.Query().Get("user_id"),
		Method: r.URL.Query().Get("method"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pagination.ErrInvalidLimit), errors.Is(err, pagination.ErrInvalidCursor):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_pagination", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidListFilter):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_filter", err.Error())
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "activity log unavailable")
	}
}
